package main

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printworks/internal/imposition"
	"github.com/Simplici0/printworks/internal/pricing"
	"github.com/Simplici0/printworks/internal/quote"
)

func TestSheets(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodGet, "/api/sheets", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var got sheetsView
	require.Nil(t, decode(t, rr, &got))
	require.Len(t, got.Presets, 3)
	require.Equal(t, imposition.SheetSRA3, got.Presets[0].Preset)
	require.Equal(t, 320.0, got.Presets[0].Width)
	require.Equal(t, imposition.DefaultMargins(), got.Margins)
	require.Equal(t, imposition.DefaultPolicy(), got.Policy)
}

func TestCalcLayout(t *testing.T) {
	h := newTestServer(t)

	t.Run("business card stays unrotated", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/calc/layout", `{"item":{"width":90,"height":50},"sheet":{"preset":"sra3"}}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var got layoutResponse
		require.Nil(t, decode(t, rr, &got))
		require.Equal(t, uint32(24), got.ItemsPerSheet)
		require.False(t, got.Decision.Rotated)
		require.Equal(t, imposition.LayoutResult{ItemsPerSheet: 20, Columns: 5, Rows: 4}, got.Decision.RotatedVariant)
	})

	t.Run("edge-hugging layout is traded for headroom", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/calc/layout", `{"item":{"width":148,"height":210},"sheet":{"preset":"SRA3"}}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var got layoutResponse
		require.Nil(t, decode(t, rr, &got))
		require.True(t, got.Decision.Rotated)
		require.True(t, got.Decision.HeadroomOverride)
		require.Equal(t, uint32(2), got.ItemsPerSheet)
	})

	t.Run("custom policy disables override", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/api/calc/layout",
			`{"item":{"width":148,"height":210},"sheet":{"width":320,"height":450},"policy":{"max_yield_gap":1,"min_headroom":15}}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var got layoutResponse
		require.Nil(t, decode(t, rr, &got))
		require.False(t, got.Decision.Rotated)
		require.Equal(t, uint32(4), got.ItemsPerSheet)
	})

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"unknown preset", `{"item":{"width":90,"height":50},"sheet":{"preset":"B1"}}`, http.StatusUnprocessableEntity, errCodeInvalidDimension},
		{"zero width item", `{"item":{"width":0,"height":50},"sheet":{"preset":"A4"}}`, http.StatusUnprocessableEntity, errCodeInvalidDimension},
		{"negative margin", `{"item":{"width":90,"height":50},"sheet":{"preset":"A4"},"margins":{"bleed":-1}}`, http.StatusUnprocessableEntity, errCodeInvalidDimension},
		{"oversized item", `{"item":{"width":400,"height":500},"sheet":{"preset":"SRA3"}}`, http.StatusUnprocessableEntity, errCodeLayoutInfeasible},
		{"malformed json", `{"item":`, http.StatusBadRequest, errCodeBadRequest},
		{"unknown field", `{"item":{"width":90,"height":50},"sheet":{"preset":"A4"},"dpi":300}`, http.StatusBadRequest, errCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/calc/layout", tt.body)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			apiErr := decode(t, rr, nil)
			require.NotNil(t, apiErr)
			require.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestCalcSheets(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodPost, "/api/calc/sheets", `{"items_per_sheet_face":2,"sides":2,"pages_per_product":8,"quantity":100}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got imposition.SheetCount
	require.Nil(t, decode(t, rr, &got))
	require.Equal(t, imposition.SheetCount{PagesPerSheet: 4, SheetsPerProduct: 2, TotalSheets: 200}, got)

	rr = do(t, h, http.MethodPost, "/api/calc/sheets", `{"items_per_sheet_face":0,"sides":1,"pages_per_product":8,"quantity":100}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Equal(t, errCodeUnconfigured, decode(t, rr, nil).Code)

	rr = do(t, h, http.MethodPost, "/api/calc/sheets", `{"items_per_sheet_face":4,"sides":3,"pages_per_product":8,"quantity":100}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCalcPrice(t *testing.T) {
	h := newTestServer(t)

	const bands = `[
		{"min_qty":100,"max_qty":null,"discount_percent":"10"},
		{"min_qty":1,"max_qty":99,"unit_price":"12.5"}
	]`

	rr := do(t, h, http.MethodPost, "/api/calc/price", `{"bands":`+bands+`,"quantity":40,"base_unit_price":"10"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var got pricing.PriceResult
	require.Nil(t, decode(t, rr, &got))
	require.Equal(t, 1, got.BandIndex)
	require.True(t, got.TotalPrice.Equal(decimal.NewFromInt(500)), "total = %s", got.TotalPrice)

	rr = do(t, h, http.MethodPost, "/api/calc/price", `{"bands":`+bands+`,"quantity":200,"base_unit_price":"10","strict":true}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Nil(t, decode(t, rr, &got))
	require.Equal(t, 1, got.BandIndex)
	require.True(t, got.TotalPrice.Equal(decimal.NewFromInt(1800)), "total = %s", got.TotalPrice)
	require.True(t, got.UnitPrice.Equal(decimal.NewFromInt(9)), "unit = %s", got.UnitPrice)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"zero quantity", `{"bands":` + bands + `,"quantity":0}`, http.StatusBadRequest, errCodeBadRequest},
		{"no band", `{"bands":[{"min_qty":1,"max_qty":10,"unit_price":"1"}],"quantity":11}`, http.StatusUnprocessableEntity, errCodeNoMatchingBand},
		{"discount without base", `{"bands":` + bands + `,"quantity":200}`, http.StatusUnprocessableEntity, errCodeMisconfigured},
		{"strict overlap", `{"bands":[{"min_qty":1,"max_qty":10,"unit_price":"1"},{"min_qty":5,"unit_price":"1"}],"quantity":3,"strict":true}`, http.StatusUnprocessableEntity, errCodeInvalidBand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/calc/price", tt.body)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			require.Equal(t, tt.code, decode(t, rr, nil).Code)
		})
	}
}

func TestCalcQuote(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodPost, "/api/calc/quote", `{"product_id":1,"quantity":500}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var est quote.Estimate
	require.Nil(t, decode(t, rr, &est))
	require.Equal(t, uint64(21), est.TotalSheets)
	require.True(t, est.Breakdown.PaperCost.Equal(decimal.NewFromInt(26460)), "paper = %s", est.Breakdown.PaperCost)
	require.True(t, est.Price.TotalPrice.Equal(decimal.NewFromInt(55000)), "print = %s", est.Price.TotalPrice)
	require.True(t, est.Totals.Total.Equal(decimal.NewFromInt(131898)), "total = %s", est.Totals.Total)

	rr = do(t, h, http.MethodPost, "/api/calc/quote", `{"product_id":99,"quantity":500}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, errCodeNotFound, decode(t, rr, nil).Code)
}
