package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoMatchingBand is returned when the quantity falls outside every band.
	ErrNoMatchingBand = errors.New("no price for this quantity")
	// ErrZeroQuantity is returned when a price is requested for zero items.
	ErrZeroQuantity = errors.New("quantity must be greater than 0")
	// ErrBasePriceRequired is returned when a discount band matches but no base unit price was given.
	ErrBasePriceRequired = errors.New("discount band requires a base unit price")
	// ErrUnpricedBand is returned when the matching band carries neither a unit price nor a discount.
	ErrUnpricedBand = errors.New("price band has no unit price or discount")
	// ErrInvalidBand is wrapped by BandError.
	ErrInvalidBand = errors.New("invalid price band")
)

var hundred = decimal.NewFromInt(100)

// PriceBand prices quantities from MinQty up to MaxQty inclusive. A nil MaxQty
// leaves the band open-ended.
type PriceBand struct {
	MinQty          uint32              `json:"min_qty"`
	MaxQty          *uint32             `json:"max_qty"`
	UnitPrice       decimal.NullDecimal `json:"unit_price"`
	DiscountPercent decimal.NullDecimal `json:"discount_percent"`
}

// Contains reports whether quantity falls inside the band.
func (b PriceBand) Contains(quantity uint32) bool {
	if quantity < b.MinQty {
		return false
	}
	return b.MaxQty == nil || quantity <= *b.MaxQty
}

// PriceResult is the outcome of evaluating a quantity against a band list.
type PriceResult struct {
	TotalPrice decimal.Decimal `json:"total_price"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Band       PriceBand       `json:"band"`
	BandIndex  int             `json:"band_index"`
}

// Evaluate prices quantity with the first band, in the given order, that
// contains it. basePrice is only consulted for discount bands.
func Evaluate(bands []PriceBand, quantity uint32, basePrice decimal.NullDecimal) (PriceResult, error) {
	if quantity == 0 {
		return PriceResult{}, ErrZeroQuantity
	}

	for i, band := range bands {
		if !band.Contains(quantity) {
			continue
		}

		var unit decimal.Decimal
		switch {
		case band.UnitPrice.Valid:
			unit = band.UnitPrice.Decimal
		case band.DiscountPercent.Valid:
			if !basePrice.Valid {
				return PriceResult{}, ErrBasePriceRequired
			}
			// Shift keeps the factor exact; Div would round to DivisionPrecision.
			factor := decimal.NewFromInt(1).Sub(band.DiscountPercent.Decimal.Shift(-2))
			unit = basePrice.Decimal.Mul(factor)
		default:
			return PriceResult{}, fmt.Errorf("band %d: %w", i, ErrUnpricedBand)
		}

		return PriceResult{
			TotalPrice: unit.Mul(decimal.NewFromInt(int64(quantity))),
			UnitPrice:  unit,
			Band:       band,
			BandIndex:  i,
		}, nil
	}

	return PriceResult{}, fmt.Errorf("%w: %d", ErrNoMatchingBand, quantity)
}

// BandError describes why a band list was rejected.
type BandError struct {
	Index  int
	Reason string
}

func (e *BandError) Error() string {
	return fmt.Sprintf("price band %d: %s", e.Index, e.Reason)
}

func (e *BandError) Unwrap() error {
	return ErrInvalidBand
}

// BandSet is a band list sorted by MinQty with no overlaps, built by NewBandSet.
type BandSet struct {
	bands []PriceBand
}

// NewBandSet validates bands and returns them sorted by MinQty. Each band must
// carry exactly one of UnitPrice or DiscountPercent, and only the last band may
// be open-ended.
func NewBandSet(bands []PriceBand) (BandSet, error) {
	sorted := make([]PriceBand, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQty < sorted[j].MinQty
	})

	for i, b := range sorted {
		if err := validateBand(i, b); err != nil {
			return BandSet{}, err
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.MaxQty == nil {
			return BandSet{}, &BandError{Index: i - 1, Reason: "only the last band may be open-ended"}
		}
		if b.MinQty <= *prev.MaxQty {
			return BandSet{}, &BandError{Index: i, Reason: fmt.Sprintf("min_qty %d overlaps previous band ending at %d", b.MinQty, *prev.MaxQty)}
		}
	}

	return BandSet{bands: sorted}, nil
}

func validateBand(i int, b PriceBand) error {
	if b.MinQty == 0 {
		return &BandError{Index: i, Reason: "min_qty must be at least 1"}
	}
	if b.MaxQty != nil && *b.MaxQty < b.MinQty {
		return &BandError{Index: i, Reason: "max_qty is below min_qty"}
	}
	if b.UnitPrice.Valid == b.DiscountPercent.Valid {
		return &BandError{Index: i, Reason: "exactly one of unit_price or discount_percent is required"}
	}
	if b.UnitPrice.Valid && b.UnitPrice.Decimal.IsNegative() {
		return &BandError{Index: i, Reason: "unit_price must not be negative"}
	}
	if b.DiscountPercent.Valid {
		d := b.DiscountPercent.Decimal
		if d.IsNegative() || d.GreaterThan(hundred) {
			return &BandError{Index: i, Reason: "discount_percent must be between 0 and 100"}
		}
	}
	return nil
}

// Bands returns a copy of the validated bands.
func (s BandSet) Bands() []PriceBand {
	out := make([]PriceBand, len(s.bands))
	copy(out, s.bands)
	return out
}

// Len returns the number of bands.
func (s BandSet) Len() int {
	return len(s.bands)
}

// Evaluate prices quantity against the set.
func (s BandSet) Evaluate(quantity uint32, basePrice decimal.NullDecimal) (PriceResult, error) {
	return Evaluate(s.bands, quantity, basePrice)
}
