// Package catalog stores the shop's pricing configuration: paper stocks,
// products with their price bands, and the shop-wide rates.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/printworks/internal/imposition"
	"github.com/Simplici0/printworks/internal/pricing"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation wraps every input validation failure.
	ErrValidation = errors.New("validation failed")
)

// PaperStock is a press sheet the shop buys and prints on.
type PaperStock struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	Sheet        imposition.SheetSpec `json:"sheet"`
	CostPerSheet decimal.Decimal      `json:"cost_per_sheet"`
	Notes        string               `json:"notes"`
	Active       bool                 `json:"active"`
}

// Validate checks the stock before it is stored.
func (p PaperStock) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := imposition.ResolveSheet(p.Sheet); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if p.CostPerSheet.IsNegative() {
		return fmt.Errorf("%w: cost_per_sheet must not be negative", ErrValidation)
	}
	return nil
}

// Product is a sellable item with its trim size, imposition settings and price bands.
type Product struct {
	ID              int64                `json:"id"`
	Name            string               `json:"name"`
	Trim            imposition.Dimension `json:"trim"`
	Sides           uint8                `json:"sides"`
	PagesPerProduct uint32               `json:"pages_per_product"`
	PaperStockID    int64                `json:"paper_stock_id"`
	BaseUnitPrice   decimal.NullDecimal  `json:"base_unit_price"`
	Active          bool                 `json:"active"`
	Bands           []pricing.PriceBand  `json:"bands"`
}

// Validate checks the product fields and its price bands.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := imposition.ResolveItem(p.Trim.Width, p.Trim.Height); err != nil {
		return fmt.Errorf("%w: trim: %w", ErrValidation, err)
	}
	if p.Sides != 1 && p.Sides != 2 {
		return fmt.Errorf("%w: %w", ErrValidation, imposition.ErrInvalidSides)
	}
	if p.PagesPerProduct < 1 {
		return fmt.Errorf("%w: pages_per_product must be at least 1", ErrValidation)
	}
	if p.PaperStockID <= 0 {
		return fmt.Errorf("%w: paper_stock_id is required", ErrValidation)
	}
	if p.BaseUnitPrice.Valid && p.BaseUnitPrice.Decimal.IsNegative() {
		return fmt.Errorf("%w: base_unit_price must not be negative", ErrValidation)
	}
	if _, err := pricing.NewBandSet(p.Bands); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return checkDiscountBase(p.Bands, p.BaseUnitPrice)
}

// checkDiscountBase rejects discount bands on a product without a base unit price.
func checkDiscountBase(bands []pricing.PriceBand, base decimal.NullDecimal) error {
	if base.Valid {
		return nil
	}
	for i, b := range bands {
		if b.DiscountPercent.Valid {
			return fmt.Errorf("%w: band %d: %w", ErrValidation, i, pricing.ErrBasePriceRequired)
		}
	}
	return nil
}

// RateConfig holds the shop-wide pricing parameters.
type RateConfig struct {
	WastePercent  decimal.Decimal `json:"waste_percent"`
	SetupFee      decimal.Decimal `json:"setup_fee"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	TaxEnabled    bool            `json:"tax_enabled"`
	TaxPercent    decimal.Decimal `json:"tax_percent"`
	Currency      string          `json:"currency"`
}

// Validate checks that percentages are within 0..100 and amounts are not negative.
func (r RateConfig) Validate() error {
	hundred := decimal.NewFromInt(100)
	for name, v := range map[string]decimal.Decimal{
		"waste_percent":  r.WastePercent,
		"margin_percent": r.MarginPercent,
		"tax_percent":    r.TaxPercent,
	} {
		if v.IsNegative() || v.GreaterThan(hundred) {
			return fmt.Errorf("%w: %s must be between 0 and 100", ErrValidation, name)
		}
	}
	if r.SetupFee.IsNegative() {
		return fmt.Errorf("%w: setup_fee must not be negative", ErrValidation)
	}
	return nil
}

// Rates converts the config into calculator input.
func (r RateConfig) Rates() pricing.Rates {
	return pricing.Rates{
		WastePercent:  r.WastePercent,
		SetupFee:      r.SetupFee,
		MarginPercent: r.MarginPercent,
		TaxEnabled:    r.TaxEnabled,
		TaxPercent:    r.TaxPercent,
	}
}

// Store is the SQLite-backed catalog.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store using db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}
