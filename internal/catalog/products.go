package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/printworks/internal/pricing"
)

const productColumns = `id, name, trim_width_mm, trim_height_mm, sides, pages_per_product, paper_stock_id, base_unit_price, active`

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Trim.Width, &p.Trim.Height, &p.Sides, &p.PagesPerProduct, &p.PaperStockID, &p.BaseUnitPrice, &p.Active); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ListProducts returns every product with its bands, ordered by name.
func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	rows.Close()

	// Bands are loaded after the cursor is released; the pool holds a single connection.
	for i := range products {
		bands, err := s.listBands(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Bands = bands
	}

	return products, nil
}

// GetProduct returns the product with the given id and its bands.
func (s *Store) GetProduct(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return Product{}, fmt.Errorf("query product: %w", err)
	}

	bands, err := s.listBands(ctx, id)
	if err != nil {
		return Product{}, err
	}
	p.Bands = bands
	return p, nil
}

// CreateProduct validates p and inserts it together with its bands.
func (s *Store) CreateProduct(ctx context.Context, p Product) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin product tx: %w", err)
	}
	defer tx.Rollback()

	id, err := InsertProduct(ctx, tx, p)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit product: %w", err)
	}
	return id, nil
}

// InsertProduct validates p and writes it with its bands inside tx, leaving
// commit to the caller.
func InsertProduct(ctx context.Context, tx *sql.Tx, p Product) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	set, err := pricing.NewBandSet(p.Bands)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO products (name, trim_width_mm, trim_height_mm, sides, pages_per_product, paper_stock_id, base_unit_price, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.Trim.Width, p.Trim.Height, p.Sides, p.PagesPerProduct, p.PaperStockID, p.BaseUnitPrice, p.Active)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read product id: %w", err)
	}

	if err := insertBands(ctx, tx, id, set); err != nil {
		return 0, err
	}
	return id, nil
}

// ReplacePriceBands swaps the product's bands for bands in one transaction.
// The new list is validated and stored sorted by MinQty.
func (s *Store) ReplacePriceBands(ctx context.Context, productID int64, bands []pricing.PriceBand) error {
	set, err := pricing.NewBandSet(bands)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bands tx: %w", err)
	}
	defer tx.Rollback()

	var base decimal.NullDecimal
	if err := tx.QueryRowContext(ctx, `SELECT base_unit_price FROM products WHERE id = ?`, productID).Scan(&base); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return fmt.Errorf("check product: %w", err)
	}
	if err := checkDiscountBase(bands, base); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_bands WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("delete price bands: %w", err)
	}

	if err := insertBands(ctx, tx, productID, set); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE products SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, productID); err != nil {
		return fmt.Errorf("touch product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit price bands: %w", err)
	}
	return nil
}

func insertBands(ctx context.Context, tx *sql.Tx, productID int64, set pricing.BandSet) error {
	for i, band := range set.Bands() {
		var maxQty sql.NullInt64
		if band.MaxQty != nil {
			maxQty = sql.NullInt64{Int64: int64(*band.MaxQty), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO price_bands (product_id, position, min_qty, max_qty, unit_price, discount_percent)
			VALUES (?, ?, ?, ?, ?, ?)
		`, productID, i, band.MinQty, maxQty, band.UnitPrice, band.DiscountPercent); err != nil {
			return fmt.Errorf("insert price band %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) listBands(ctx context.Context, productID int64) ([]pricing.PriceBand, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT min_qty, max_qty, unit_price, discount_percent
		FROM price_bands
		WHERE product_id = ?
		ORDER BY position ASC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("query price bands: %w", err)
	}
	defer rows.Close()

	bands := make([]pricing.PriceBand, 0)
	for rows.Next() {
		var (
			band     pricing.PriceBand
			maxQty   sql.NullInt64
			unit     decimal.NullDecimal
			discount decimal.NullDecimal
		)
		if err := rows.Scan(&band.MinQty, &maxQty, &unit, &discount); err != nil {
			return nil, fmt.Errorf("scan price band: %w", err)
		}
		if maxQty.Valid {
			v := uint32(maxQty.Int64)
			band.MaxQty = &v
		}
		band.UnitPrice = unit
		band.DiscountPercent = discount
		bands = append(bands, band)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price bands: %w", err)
	}

	return bands, nil
}
