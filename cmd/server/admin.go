package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/printworks/internal/catalog"
	"github.com/Simplici0/printworks/internal/pricing"
)

func parseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

func (s *server) handleAdminRatesGet(w http.ResponseWriter, r *http.Request) {
	rates, err := s.catalog.GetRateConfig(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, rates)
}

func (s *server) handleAdminRatesUpdate(w http.ResponseWriter, r *http.Request) {
	var rates catalog.RateConfig
	if err := decodeJSON(w, r, &rates); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.catalog.UpdateRateConfig(r.Context(), rates); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.catalog.GetRateConfig(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("rate config updated", zap.String("margin_percent", updated.MarginPercent.String()))
	writeJSONSuccess(w, http.StatusOK, updated)
}

func (s *server) handleAdminPapersList(w http.ResponseWriter, r *http.Request) {
	papers, err := s.catalog.ListPaperStocks(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, papers)
}

func (s *server) handleAdminPapersCreate(w http.ResponseWriter, r *http.Request) {
	var paper catalog.PaperStock
	if err := decodeJSON(w, r, &paper); err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.catalog.CreatePaperStock(r.Context(), paper)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.catalog.GetPaperStock(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusCreated, created)
}

func (s *server) handleAdminPapersUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var paper catalog.PaperStock
	if err := decodeJSON(w, r, &paper); err != nil {
		s.writeError(w, r, err)
		return
	}
	paper.ID = id

	if err := s.catalog.UpdatePaperStock(r.Context(), paper); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.catalog.GetPaperStock(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, updated)
}

func (s *server) handleAdminProductsList(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, products)
}

func (s *server) handleAdminProductsGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	product, err := s.catalog.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, product)
}

func (s *server) handleAdminProductsCreate(w http.ResponseWriter, r *http.Request) {
	var product catalog.Product
	if err := decodeJSON(w, r, &product); err != nil {
		s.writeError(w, r, err)
		return
	}

	if _, err := s.catalog.GetPaperStock(r.Context(), product.PaperStockID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			err = fmt.Errorf("%w: paper stock %d does not exist", catalog.ErrValidation, product.PaperStockID)
		}
		s.writeError(w, r, err)
		return
	}

	id, err := s.catalog.CreateProduct(r.Context(), product)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.catalog.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusCreated, created)
}

type bandsRequest struct {
	Bands []pricing.PriceBand `json:"bands"`
}

func (s *server) handleAdminProductBands(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req bandsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.catalog.ReplacePriceBands(r.Context(), id, req.Bands); err != nil {
		s.writeError(w, r, err)
		return
	}

	product, err := s.catalog.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("price bands replaced", zap.Int64("product_id", id), zap.Int("bands", len(product.Bands)))
	writeJSONSuccess(w, http.StatusOK, product)
}
