// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata after first use. Field names in errors come from the json tag,
// then the koanf tag, so messages match what the caller actually sent.
//
// Custom tags:
//   - item: a non-blank item label of at most 128 bytes
//   - metric: one of support, confidence, lift
//   - rank_metric: metric, or leverage
//
// # Usage
//
//	type RecommendRequest struct {
//	    Items []string `json:"items" validate:"required,min=1,max=100,dive,item"`
//	    Limit int      `json:"limit" validate:"min=0,max=50"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
