package imposition

import "fmt"

// ImpositionRequest describes a multi-page job to be laid onto press sheets.
type ImpositionRequest struct {
	ItemsPerSheetFace uint32 `json:"items_per_sheet_face"`
	// Sides is 1 for simplex and 2 for duplex printing.
	Sides           uint8  `json:"sides"`
	PagesPerProduct uint32 `json:"pages_per_product"`
	Quantity        uint32 `json:"quantity"`
}

// SheetCount is the stock required for a job.
type SheetCount struct {
	PagesPerSheet    uint64 `json:"pages_per_sheet"`
	SheetsPerProduct uint32 `json:"sheets_per_product"`
	TotalSheets      uint64 `json:"total_sheets"`
}

// SheetsNeeded returns how many press sheets a job consumes. Partial sheets
// always round up.
func SheetsNeeded(req ImpositionRequest) (SheetCount, error) {
	if req.Sides != 1 && req.Sides != 2 {
		return SheetCount{}, fmt.Errorf("%w: got %d", ErrInvalidSides, req.Sides)
	}

	pagesPerSheet := uint64(req.ItemsPerSheetFace) * uint64(req.Sides)
	if pagesPerSheet == 0 {
		return SheetCount{}, ErrImpositionUnconfigured
	}

	pages := uint64(req.PagesPerProduct)
	sheetsPerProduct := (pages + pagesPerSheet - 1) / pagesPerSheet

	return SheetCount{
		PagesPerSheet:    pagesPerSheet,
		SheetsPerProduct: uint32(sheetsPerProduct),
		TotalSheets:      sheetsPerProduct * uint64(req.Quantity),
	}, nil
}

// FlatSheetsNeeded returns the sheets for a single-leaf run where every sheet
// carries itemsPerSheet finished pieces. Duplex work backs up on the same sheet.
func FlatSheetsNeeded(itemsPerSheet, quantity uint32) (uint64, error) {
	if itemsPerSheet == 0 {
		return 0, ErrImpositionUnconfigured
	}
	per := uint64(itemsPerSheet)
	return (uint64(quantity) + per - 1) / per, nil
}
