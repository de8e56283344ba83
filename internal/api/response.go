// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/middleware"
	"github.com/tomtom215/marketbasket/internal/recommend"
	"github.com/tomtom215/marketbasket/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Error codes.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeModelNotReady      = "MODEL_NOT_READY"
	CodeTrainingInProgress = "TRAINING_IN_PROGRESS"
	CodeRateLimited        = "RATE_LIMITED"
	CodeNotFound           = "NOT_FOUND"
	CodeInsufficientData   = "INSUFFICIENT_DATA"
	CodeInternal           = "INTERNAL_ERROR"
)

// Response is the envelope of every API response.
type Response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    Meta      `json:"meta"`
}

// Meta carries response metadata.
type Meta struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON writes resp with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	resp.Meta.Timestamp = time.Now().UTC()
	resp.Meta.RequestID = middleware.GetRequestID(r.Context())

	data, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData writes a success envelope. start is when handling began.
func respondData(w http.ResponseWriter, r *http.Request, data any, start time.Time) {
	respondJSON(w, r, http.StatusOK, &Response{
		Success: true,
		Data:    data,
		Meta:    Meta{QueryTimeMS: time.Since(start).Milliseconds()},
	})
}

// respondError writes an error envelope. err, if set, is logged and never
// sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *APIError, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Str("code", apiErr.Code).Str("error", sanitizeLogValue(err.Error())).Msg("API error")
	}
	respondJSON(w, r, status, &Response{Success: false, Error: apiErr})
}

// respondEngineError maps engine and domain errors onto HTTP statuses.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case recommend.IsUserError(err):
		respondError(w, r, http.StatusBadRequest, &APIError{Code: CodeValidation, Message: err.Error()}, nil)
	case errors.Is(err, recommend.ErrModelNotReady):
		respondError(w, r, http.StatusServiceUnavailable, &APIError{
			Code:    CodeModelNotReady,
			Message: "No model has been trained yet",
		}, nil)
	case errors.Is(err, recommend.ErrInsufficientData):
		respondError(w, r, http.StatusUnprocessableEntity, &APIError{
			Code:    CodeInsufficientData,
			Message: err.Error(),
		}, nil)
	case errors.Is(err, recommend.ErrTrainingInProgress):
		respondError(w, r, http.StatusConflict, &APIError{
			Code:    CodeTrainingInProgress,
			Message: "A training run is already in progress",
		}, nil)
	default:
		respondError(w, r, http.StatusInternalServerError, &APIError{
			Code:    CodeInternal,
			Message: "Internal server error",
		}, err)
	}
}

// decodeAndValidate reads a JSON body into v and runs its validator tags.
// It writes the error response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, r, http.StatusRequestEntityTooLarge, &APIError{Code: CodeInvalidJSON, Message: "Request body too large"}, nil)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		respondError(w, r, http.StatusBadRequest, &APIError{Code: CodeInvalidJSON, Message: "Request body is not valid JSON"}, nil)
		return false
	}

	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, &APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil)
		return false
	}
	return true
}
