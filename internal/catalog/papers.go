package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Simplici0/printworks/internal/imposition"
)

const paperColumns = `id, name, sheet_preset, sheet_width_mm, sheet_height_mm, cost_per_sheet, COALESCE(notes, ''), active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaperStock(row rowScanner) (PaperStock, error) {
	var (
		p      PaperStock
		preset string
	)
	if err := row.Scan(&p.ID, &p.Name, &preset, &p.Sheet.Width, &p.Sheet.Height, &p.CostPerSheet, &p.Notes, &p.Active); err != nil {
		return PaperStock{}, err
	}
	p.Sheet.Preset = imposition.SheetPreset(preset)
	return p, nil
}

// normalizeSheet upper-cases the preset and drops the custom size it overrides.
func normalizeSheet(spec imposition.SheetSpec) imposition.SheetSpec {
	if spec.Preset == "" {
		return spec
	}
	return imposition.SheetSpec{Preset: imposition.SheetPreset(strings.ToUpper(string(spec.Preset)))}
}

// ListPaperStocks returns every paper stock, newest first.
func (s *Store) ListPaperStocks(ctx context.Context) ([]PaperStock, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+paperColumns+` FROM paper_stocks ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query paper stocks: %w", err)
	}
	defer rows.Close()

	stocks := make([]PaperStock, 0)
	for rows.Next() {
		p, err := scanPaperStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paper stock: %w", err)
		}
		stocks = append(stocks, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate paper stocks: %w", err)
	}

	return stocks, nil
}

// GetPaperStock returns the paper stock with the given id.
func (s *Store) GetPaperStock(ctx context.Context, id int64) (PaperStock, error) {
	p, err := scanPaperStock(s.db.QueryRowContext(ctx, `SELECT `+paperColumns+` FROM paper_stocks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PaperStock{}, fmt.Errorf("paper stock %d: %w", id, ErrNotFound)
		}
		return PaperStock{}, fmt.Errorf("query paper stock: %w", err)
	}
	return p, nil
}

// CreatePaperStock validates and inserts p, returning its id.
func (s *Store) CreatePaperStock(ctx context.Context, p PaperStock) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	p.Sheet = normalizeSheet(p.Sheet)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO paper_stocks (name, sheet_preset, sheet_width_mm, sheet_height_mm, cost_per_sheet, notes, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.Name, string(p.Sheet.Preset), p.Sheet.Width, p.Sheet.Height, p.CostPerSheet, p.Notes, p.Active)
	if err != nil {
		return 0, fmt.Errorf("insert paper stock: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read paper stock id: %w", err)
	}
	return id, nil
}

// UpdatePaperStock validates and overwrites the stock with p.ID.
func (s *Store) UpdatePaperStock(ctx context.Context, p PaperStock) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Sheet = normalizeSheet(p.Sheet)

	result, err := s.db.ExecContext(ctx, `
		UPDATE paper_stocks
		SET
			name = ?,
			sheet_preset = ?,
			sheet_width_mm = ?,
			sheet_height_mm = ?,
			cost_per_sheet = ?,
			notes = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, string(p.Sheet.Preset), p.Sheet.Width, p.Sheet.Height, p.CostPerSheet, p.Notes, p.Active, p.ID)
	if err != nil {
		return fmt.Errorf("update paper stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update paper stock: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("paper stock %d: %w", p.ID, ErrNotFound)
	}
	return nil
}
