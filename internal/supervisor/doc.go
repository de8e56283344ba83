// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

/*
Package supervisor runs the server's long-lived services under suture v4.

# Overview

	RootSupervisor ("marketbasket")
	├── DataSupervisor ("data-layer")
	│   ├── TrainingService
	│   └── StoreGCService (if store.enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A training loop that panics or returns is restarted with backoff inside the
data layer. The api layer keeps serving the last installed model meanwhile.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewTrainingService(engine, trainingCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Supervisor events (starts, failures, backoff) are logged through the
sutureslog adapter onto the slog bridge of the zerolog logger.
*/
package supervisor
