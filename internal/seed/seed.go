package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/printworks/internal/catalog"
	"github.com/Simplici0/printworks/internal/imposition"
	"github.com/Simplici0/printworks/internal/pricing"
)

const demoProductName = "Tarjeta de presentación 9x5"

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

type paperSeed struct {
	name   string
	preset imposition.SheetPreset
	cost   string
}

var defaultPapers = []paperSeed{
	{name: "Propalcote 300g SRA3", preset: imposition.SheetSRA3, cost: "1200"},
	{name: "Bond 90g A3", preset: imposition.SheetA3, cost: "350"},
	{name: "Bond 75g A4", preset: imposition.SheetA4, cost: "90"},
}

func upTo(v uint32) *uint32 { return &v }

func demoBands() []pricing.PriceBand {
	unit := func(s string) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.RequireFromString(s)) }
	return []pricing.PriceBand{
		{MinQty: 1, MaxQty: upTo(499), UnitPrice: unit("150")},
		{MinQty: 500, MaxQty: upTo(999), UnitPrice: unit("110")},
		{MinQty: 1000, DiscountPercent: unit("25")},
	}
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stats := Stats{}

	if err := seedAdmin(ctx, tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		return Stats{}, err
	}
	if err := ensureRateConfig(ctx, tx, &stats); err != nil {
		return Stats{}, err
	}
	for _, p := range defaultPapers {
		if err := ensurePaperStock(ctx, tx, p, &stats); err != nil {
			return Stats{}, err
		}
	}
	if err := ensureDemoProduct(ctx, tx, &stats); err != nil {
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureRateConfig(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rate_config WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check rate config existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rate_config (
			id,
			waste_percent,
			setup_fee,
			margin_percent,
			tax_enabled,
			tax_percent,
			currency
		)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`, "5", "20000", "30", false, "19", "COP"); err != nil {
		return fmt.Errorf("insert rate config singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensurePaperStock(ctx context.Context, tx *sql.Tx, p paperSeed, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM paper_stocks WHERE name = ? LIMIT 1)`, p.name).Scan(&exists); err != nil {
		return fmt.Errorf("check paper stock %q existence: %w", p.name, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO paper_stocks (name, sheet_preset, cost_per_sheet, notes, active)
		VALUES (?, ?, ?, ?, ?)
	`, p.name, string(p.preset), p.cost, "", true); err != nil {
		return fmt.Errorf("insert paper stock %q: %w", p.name, err)
	}
	stats.Inserts++
	return nil
}

func ensureDemoProduct(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE name = ? LIMIT 1)`, demoProductName).Scan(&exists); err != nil {
		return fmt.Errorf("check demo product existence: %w", err)
	}
	if exists {
		return nil
	}

	var paperID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM paper_stocks WHERE name = ?`, defaultPapers[0].name).Scan(&paperID); err != nil {
		return fmt.Errorf("find demo paper stock: %w", err)
	}

	if _, err := catalog.InsertProduct(ctx, tx, catalog.Product{
		Name:            demoProductName,
		Trim:            imposition.Dimension{Width: 90, Height: 50},
		Sides:           2,
		PagesPerProduct: 1,
		PaperStockID:    paperID,
		BaseUnitPrice:   decimal.NewNullDecimal(decimal.NewFromInt(120)),
		Active:          true,
		Bands:           demoBands(),
	}); err != nil {
		return fmt.Errorf("insert demo product: %w", err)
	}

	stats.Inserts++
	return nil
}
