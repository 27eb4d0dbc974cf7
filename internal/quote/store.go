package quote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/printworks/internal/catalog"
	"github.com/Simplici0/printworks/internal/pricing"
)

// Create prices req and stores the result under a new reference. The stored
// snapshot is returned as-is by Get, even if the catalog changes later.
func (s *Service) Create(ctx context.Context, req Request) (Quote, error) {
	est, err := s.Estimate(ctx, req)
	if err != nil {
		return Quote{}, err
	}

	totalsJSON, err := json.Marshal(est.Totals)
	if err != nil {
		return Quote{}, fmt.Errorf("marshal totals: %w", err)
	}
	snapshotJSON, err := json.Marshal(est)
	if err != nil {
		return Quote{}, fmt.Errorf("marshal estimate: %w", err)
	}

	q := Quote{
		Reference: s.newRef(),
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
		Title:     strings.TrimSpace(req.Title),
		Notes:     strings.TrimSpace(req.Notes),
		Estimate:  est,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (
			reference, created_at, title, notes, product_id, paper_stock_id,
			quantity, items_per_sheet, rotated, total_sheets, currency, totals_json, breakdown_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		q.Reference,
		q.CreatedAt.Format(createdAtLayout),
		q.Title,
		q.Notes,
		est.ProductID,
		est.PaperStockID,
		est.Quantity,
		est.Decision.ItemsPerSheet(),
		est.Decision.Rotated,
		int64(est.TotalSheets),
		est.Currency,
		string(totalsJSON),
		string(snapshotJSON),
	)
	if err != nil {
		return Quote{}, fmt.Errorf("insert quote: %w", err)
	}

	s.log.Info("quote created",
		zap.String("reference", q.Reference),
		zap.Int64("product_id", est.ProductID),
		zap.Uint32("quantity", est.Quantity),
		zap.String("total", est.Totals.Total.StringFixed(2)),
	)
	return q, nil
}

// List returns stored quotes newest first. A non-empty query filters on title
// and notes.
func (s *Service) List(ctx context.Context, query string) ([]ListItem, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			reference,
			created_at,
			COALESCE(title, ''),
			quantity,
			currency,
			totals_json
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY created_at DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	items := make([]ListItem, 0)
	for rows.Next() {
		var (
			item       ListItem
			createdAt  string
			totalsJSON string
		)
		if err := rows.Scan(&item.Reference, &createdAt, &item.Title, &item.Quantity, &item.Currency, &totalsJSON); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		if item.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse quote %s created_at: %w", item.Reference, err)
		}
		if err := json.Unmarshal([]byte(totalsJSON), &item.Totals); err != nil {
			s.log.Warn("unreadable quote totals", zap.String("reference", item.Reference), zap.Error(err))
			item.Totals = pricing.Totals{}
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return items, nil
}

// Get returns the stored snapshot for reference without recalculating it.
func (s *Service) Get(ctx context.Context, reference string) (Quote, error) {
	var (
		q            Quote
		createdAt    string
		snapshotJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT reference, created_at, COALESCE(title, ''), COALESCE(notes, ''), breakdown_json
		FROM quotes
		WHERE reference = ?
	`, reference).Scan(&q.Reference, &createdAt, &q.Title, &q.Notes, &snapshotJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quote{}, fmt.Errorf("quote %s: %w", reference, catalog.ErrNotFound)
		}
		return Quote{}, fmt.Errorf("query quote: %w", err)
	}

	if q.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
		return Quote{}, fmt.Errorf("parse quote created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(snapshotJSON), &q.Estimate); err != nil {
		return Quote{}, fmt.Errorf("decode quote snapshot: %w", err)
	}
	return q, nil
}
