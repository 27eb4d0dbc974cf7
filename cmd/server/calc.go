package main

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/printworks/internal/imposition"
	"github.com/Simplici0/printworks/internal/pricing"
	"github.com/Simplici0/printworks/internal/quote"
)

type sheetPresetView struct {
	Preset imposition.SheetPreset `json:"preset"`
	Width  float64                `json:"width"`
	Height float64                `json:"height"`
}

type sheetsView struct {
	Presets []sheetPresetView          `json:"presets"`
	Margins imposition.MarginProfile   `json:"margins"`
	Policy  imposition.SelectionPolicy `json:"policy"`
}

func (s *server) handleSheets(w http.ResponseWriter, r *http.Request) {
	presets := make([]sheetPresetView, 0, len(imposition.Presets()))
	for _, p := range imposition.Presets() {
		size, _ := imposition.PresetSize(p)
		presets = append(presets, sheetPresetView{Preset: p, Width: size.Width, Height: size.Height})
	}
	writeJSONSuccess(w, http.StatusOK, sheetsView{
		Presets: presets,
		Margins: s.quotes.Margins(),
		Policy:  s.quotes.Policy(),
	})
}

type layoutRequest struct {
	Item    imposition.Dimension        `json:"item"`
	Sheet   imposition.SheetSpec        `json:"sheet"`
	Margins *imposition.MarginProfile   `json:"margins"`
	Policy  *imposition.SelectionPolicy `json:"policy"`
}

type layoutResponse struct {
	Sheet         imposition.Dimension     `json:"sheet"`
	ItemsPerSheet uint32                   `json:"items_per_sheet"`
	Decision      imposition.YieldDecision `json:"decision"`
}

func (s *server) handleCalcLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sheet, err := imposition.ResolveSheet(req.Sheet)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	item, err := imposition.ResolveItem(req.Item.Width, req.Item.Height)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	margins := s.quotes.Margins()
	if req.Margins != nil {
		if err := req.Margins.Validate(); err != nil {
			s.writeError(w, r, err)
			return
		}
		margins = *req.Margins
	}
	policy := s.quotes.Policy()
	if req.Policy != nil {
		policy = *req.Policy
	}

	decision, err := imposition.SelectOrientation(item, sheet, margins, policy)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSONSuccess(w, http.StatusOK, layoutResponse{
		Sheet:         sheet,
		ItemsPerSheet: decision.ItemsPerSheet(),
		Decision:      decision,
	})
}

func (s *server) handleCalcSheets(w http.ResponseWriter, r *http.Request) {
	var req imposition.ImpositionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	count, err := imposition.SheetsNeeded(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, count)
}

type priceRequest struct {
	Bands         []pricing.PriceBand `json:"bands"`
	Quantity      uint32              `json:"quantity"`
	BaseUnitPrice decimal.NullDecimal `json:"base_unit_price"`
	// Strict validates the bands as a set before evaluating them.
	Strict bool `json:"strict"`
}

func (s *server) handleCalcPrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		result pricing.PriceResult
		err    error
	)
	if req.Strict {
		var set pricing.BandSet
		set, err = pricing.NewBandSet(req.Bands)
		if err == nil {
			result, err = set.Evaluate(req.Quantity, req.BaseUnitPrice)
		}
	} else {
		result, err = pricing.Evaluate(req.Bands, req.Quantity, req.BaseUnitPrice)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, result)
}

func (s *server) handleCalcQuote(w http.ResponseWriter, r *http.Request) {
	var req quote.Request
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	est, err := s.quotes.Estimate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, est)
}
