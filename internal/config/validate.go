// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package config

import (
	"errors"

	"github.com/tomtom215/marketbasket/internal/recommend"
	"github.com/tomtom215/marketbasket/internal/validation"
)

// Validate checks struct tags first, then the rules that span sections.
// Every failure is a *recommend.ConfigurationError; several are joined.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		errs := make([]error, 0, len(verr.Errors()))
		for _, fe := range verr.Errors() {
			errs = append(errs, &recommend.ConfigurationError{
				Field:  fe.Field(),
				Value:  fe.Value(),
				Reason: fe.Error(),
			})
		}
		return errors.Join(errs...)
	}

	if err := c.validateSources(); err != nil {
		return err
	}

	return c.EngineConfig().Validate()
}

func (c *Config) validateSources() error {
	if c.Training.Source == SourceDatabase && !c.Database.Enabled {
		return &recommend.ConfigurationError{
			Field:  "training.source",
			Value:  c.Training.Source,
			Reason: "requires database.enabled",
		}
	}
	if c.Store.Enabled && !c.Store.InMemory && c.Store.Path == "" {
		return &recommend.ConfigurationError{
			Field:  "store.path",
			Value:  c.Store.Path,
			Reason: "required unless store.in_memory is set",
		}
	}
	return nil
}
