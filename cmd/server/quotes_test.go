package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printworks/internal/quote"
)

func TestQuoteLifecycle(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	rr := do(t, h, http.MethodPost, "/quotes", `{"product_id":1,"quantity":500,"title":"Tarjetas Ana","notes":"entrega viernes"}`, cookie)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created quote.Quote
	require.Nil(t, decode(t, rr, &created))
	require.NotEmpty(t, created.Reference)
	require.Equal(t, "/quotes/"+created.Reference, rr.Header().Get("Location"))

	rr = do(t, h, http.MethodPost, "/quotes", `{"product_id":1,"quantity":1200,"title":"Volantes feria"}`, cookie)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/quotes", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var items []quote.ListItem
	require.Nil(t, decode(t, rr, &items))
	require.Len(t, items, 2)
	require.Equal(t, "Volantes feria", items[0].Title)

	rr = do(t, h, http.MethodGet, "/quotes?q=viernes", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Nil(t, decode(t, rr, &items))
	require.Len(t, items, 1)
	require.Equal(t, created.Reference, items[0].Reference)
	require.True(t, items[0].Totals.Total.Equal(decimal.NewFromInt(131898)), "total = %s", items[0].Totals.Total)

	rr = do(t, h, http.MethodGet, "/quotes/"+created.Reference, "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var detail quote.Quote
	require.Nil(t, decode(t, rr, &detail))
	require.Equal(t, "Tarjetas Ana", detail.Title)
	require.Equal(t, uint64(21), detail.Estimate.TotalSheets)

	rr = do(t, h, http.MethodGet, "/quotes/"+created.Reference+"/text", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	body := rr.Body.String()
	for _, want := range []string{"Total: 131898.00 COP", "Pliegos: 21", "Notas: entrega viernes"} {
		require.True(t, strings.Contains(body, want), "missing %q in:\n%s", want, body)
	}

	rr = do(t, h, http.MethodGet, "/quotes/does-not-exist", "", cookie)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, errCodeNotFound, decode(t, rr, nil).Code)
}

func TestQuoteCreateRejectsBadInput(t *testing.T) {
	h := newTestServer(t)
	cookie := login(t, h)

	rr := do(t, h, http.MethodPost, "/quotes", `{"product_id":1,"quantity":0}`, cookie)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/quotes", `{"product_id":1,"paper_stock_id":42,"quantity":10}`, cookie)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/quotes", "", cookie)
	var items []quote.ListItem
	require.Nil(t, decode(t, rr, &items))
	require.Empty(t, items)
}
