package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Simplici0/printworks/internal/catalog"
	"github.com/Simplici0/printworks/internal/imposition"
	"github.com/Simplici0/printworks/internal/pricing"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name          string
		handlerStatus int
		path          string
		method        string
	}{
		{"ok status", http.StatusOK, "/api/sheets", http.MethodGet},
		{"created", http.StatusCreated, "/quotes", http.MethodPost},
		{"server error", http.StatusInternalServerError, "/api/calc/quote", http.MethodPost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
				_, _ = w.Write([]byte("body"))
			})
			handler := middleware.RequestID(requestLogger(zap.New(core))(next))

			req := httptest.NewRequest(tt.method, "http://test"+tt.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			require.Equal(t, "request", entry.Message)

			fields := entry.ContextMap()
			require.Equal(t, tt.method, fields["method"])
			require.Equal(t, tt.path, fields["path"])
			require.Equal(t, int64(tt.handlerStatus), fields["status"])
			require.Equal(t, int64(4), fields["bytes"])
			require.NotEmpty(t, fields["request_id"])
			require.Contains(t, fields, "duration")
			require.Equal(t, tt.handlerStatus, rr.Code)
		})
	}
}

func TestRequestLoggerDefaultsStatusToOK(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := requestLogger(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, int64(http.StatusOK), logs.All()[0].ContextMap()["status"])
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: trailing data", errBadRequest), http.StatusBadRequest, errCodeBadRequest},
		{pricing.ErrZeroQuantity, http.StatusBadRequest, errCodeBadRequest},
		{fmt.Errorf("product 3: %w", catalog.ErrNotFound), http.StatusNotFound, errCodeNotFound},
		{fmt.Errorf("wrap: %w", imposition.ErrInvalidDimension), http.StatusUnprocessableEntity, errCodeInvalidDimension},
		{imposition.ErrLayoutInfeasible, http.StatusUnprocessableEntity, errCodeLayoutInfeasible},
		{imposition.ErrImpositionUnconfigured, http.StatusUnprocessableEntity, errCodeUnconfigured},
		{fmt.Errorf("%w: 5000", pricing.ErrNoMatchingBand), http.StatusUnprocessableEntity, errCodeNoMatchingBand},
		{pricing.ErrBasePriceRequired, http.StatusUnprocessableEntity, errCodeMisconfigured},
		{fmt.Errorf("band 2: %w", pricing.ErrUnpricedBand), http.StatusUnprocessableEntity, errCodeMisconfigured},
		{fmt.Errorf("%w: band 1: %w", catalog.ErrValidation, pricing.ErrBasePriceRequired), http.StatusUnprocessableEntity, errCodeValidation},
		{&pricing.BandError{Index: 1, Reason: "overlap"}, http.StatusUnprocessableEntity, errCodeInvalidBand},
		{fmt.Errorf("%w: name is required", catalog.ErrValidation), http.StatusUnprocessableEntity, errCodeValidation},
		{errors.New("disk full"), http.StatusInternalServerError, errCodeInternalError},
	}

	for _, tt := range tests {
		status, code := errorStatus(tt.err)
		require.Equal(t, tt.status, status, tt.err.Error())
		require.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	srv := &server{log: zap.New(core)}

	rr := httptest.NewRecorder()
	srv.writeError(rr, httptest.NewRequest(http.MethodGet, "/quotes", nil), errors.New("sqlite: database is locked"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	apiErr := decode(t, rr, nil)
	require.Equal(t, "internal error", apiErr.Message)
	require.Equal(t, 1, logs.Len())
}
