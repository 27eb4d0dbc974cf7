// Package quote turns a product, a paper stock and a quantity into a priced
// estimate, and keeps snapshots of the estimates customers accepted.
package quote

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Simplici0/printworks/internal/catalog"
	"github.com/Simplici0/printworks/internal/imposition"
	"github.com/Simplici0/printworks/internal/pricing"
)

// ErrInactive is returned when a quote references a disabled product or paper stock.
var ErrInactive = errors.New("product or paper stock is inactive")

// createdAtLayout sorts lexically in chronological order.
const createdAtLayout = "2006-01-02T15:04:05.000000Z"

// Catalog is the part of the catalog the service reads from.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
	GetPaperStock(ctx context.Context, id int64) (catalog.PaperStock, error)
	GetRateConfig(ctx context.Context) (catalog.RateConfig, error)
}

// Request asks for a price. A zero PaperStockID uses the product's default stock.
type Request struct {
	ProductID    int64  `json:"product_id"`
	PaperStockID int64  `json:"paper_stock_id"`
	Quantity     uint32 `json:"quantity"`
	Title        string `json:"title"`
	Notes        string `json:"notes"`
}

// Estimate is a fully priced job.
type Estimate struct {
	ProductID      int64                    `json:"product_id"`
	ProductName    string                   `json:"product_name"`
	PaperStockID   int64                    `json:"paper_stock_id"`
	PaperStockName string                   `json:"paper_stock_name"`
	Quantity       uint32                   `json:"quantity"`
	Item           imposition.Dimension     `json:"item"`
	Sheet          imposition.Dimension     `json:"sheet"`
	Sides          uint8                    `json:"sides"`
	Pages          uint32                   `json:"pages_per_product"`
	Decision       imposition.YieldDecision `json:"decision"`
	Booklet        *imposition.SheetCount   `json:"booklet,omitempty"`
	TotalSheets    uint64                   `json:"total_sheets"`
	Price          pricing.PriceResult      `json:"price"`
	Breakdown      pricing.Breakdown        `json:"breakdown"`
	Totals         pricing.Totals           `json:"totals"`
	Currency       string                   `json:"currency"`
}

// Quote is a stored estimate.
type Quote struct {
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	Estimate  Estimate  `json:"estimate"`
}

// ListItem is the summary row of a stored quote.
type ListItem struct {
	Reference string         `json:"reference"`
	CreatedAt time.Time      `json:"created_at"`
	Title     string         `json:"title"`
	Quantity  uint32         `json:"quantity"`
	Currency  string         `json:"currency"`
	Totals    pricing.Totals `json:"totals"`
}

// Service prices and stores quotes.
type Service struct {
	db      *sql.DB
	catalog Catalog
	log     *zap.Logger

	margins imposition.MarginProfile
	policy  imposition.SelectionPolicy
	now     func() time.Time
	newRef  func() string
}

// Option configures a Service.
type Option func(*Service)

// WithMargins overrides the press allowances.
func WithMargins(m imposition.MarginProfile) Option {
	return func(s *Service) { s.margins = m }
}

// WithPolicy overrides the orientation tie-break thresholds.
func WithPolicy(p imposition.SelectionPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithClock sets the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service using the shop defaults unless overridden.
func NewService(db *sql.DB, cat Catalog, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		db:      db,
		catalog: cat,
		log:     log,
		margins: imposition.DefaultMargins(),
		policy:  imposition.DefaultPolicy(),
		now:     time.Now,
		newRef:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Margins returns the allowances the service packs with.
func (s *Service) Margins() imposition.MarginProfile { return s.margins }

// Policy returns the orientation thresholds the service selects with.
func (s *Service) Policy() imposition.SelectionPolicy { return s.policy }
