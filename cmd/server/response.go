package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/printworks/internal/catalog"
	"github.com/Simplici0/printworks/internal/imposition"
	"github.com/Simplici0/printworks/internal/pricing"
	"github.com/Simplici0/printworks/internal/quote"
)

// Error codes for API error responses.
const (
	errCodeBadRequest       = "bad_request"
	errCodeUnauthorized     = "unauthorized"
	errCodeNotFound         = "not_found"
	errCodeInvalidDimension = "invalid_dimension"
	errCodeLayoutInfeasible = "layout_infeasible"
	errCodeUnconfigured     = "imposition_unconfigured"
	errCodeNoMatchingBand   = "no_matching_band"
	errCodeMisconfigured    = "pricing_misconfigured"
	errCodeInvalidBand      = "invalid_band"
	errCodeValidation       = "validation_failed"
	errCodeInactive         = "inactive"
	errCodeInternalError    = "internal_error"
)

const maxRequestBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// apiResponse is the envelope for every JSON response. Exactly one of Data
// and Error is set.
type apiResponse struct {
	Data  any       `json:"data"`
	Error *apiError `json:"error"`
}

func writeJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(apiResponse{Data: data})
}

func writeJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(apiResponse{Error: &apiError{Code: code, Message: message}})
}

// errorStatus maps a domain error to its HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, errCodeBadRequest
	case errors.Is(err, pricing.ErrZeroQuantity):
		return http.StatusBadRequest, errCodeBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, errCodeNotFound
	case errors.Is(err, pricing.ErrInvalidBand):
		return http.StatusUnprocessableEntity, errCodeInvalidBand
	case errors.Is(err, catalog.ErrValidation):
		return http.StatusUnprocessableEntity, errCodeValidation
	case errors.Is(err, imposition.ErrInvalidDimension),
		errors.Is(err, imposition.ErrUnknownSheetPreset),
		errors.Is(err, imposition.ErrInvalidSides):
		return http.StatusUnprocessableEntity, errCodeInvalidDimension
	case errors.Is(err, imposition.ErrLayoutInfeasible):
		return http.StatusUnprocessableEntity, errCodeLayoutInfeasible
	case errors.Is(err, imposition.ErrImpositionUnconfigured):
		return http.StatusUnprocessableEntity, errCodeUnconfigured
	case errors.Is(err, pricing.ErrNoMatchingBand):
		return http.StatusUnprocessableEntity, errCodeNoMatchingBand
	case errors.Is(err, pricing.ErrBasePriceRequired),
		errors.Is(err, pricing.ErrUnpricedBand):
		return http.StatusUnprocessableEntity, errCodeMisconfigured
	case errors.Is(err, quote.ErrInactive):
		return http.StatusUnprocessableEntity, errCodeInactive
	default:
		return http.StatusInternalServerError, errCodeInternalError
	}
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		message = "internal error"
	}
	writeJSONError(w, status, code, message)
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON body: trailing data", errBadRequest)
	}
	return nil
}
