package catalog

import (
	"context"
	"fmt"
	"strings"
)

// GetRateConfig returns the singleton rate config, creating the default row
// on first use.
func (s *Store) GetRateConfig(ctx context.Context) (RateConfig, error) {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO rate_config (id) VALUES (1) ON CONFLICT(id) DO NOTHING`); err != nil {
		return RateConfig{}, fmt.Errorf("ensure rate config: %w", err)
	}

	var cfg RateConfig
	err := s.db.QueryRowContext(ctx, `
		SELECT waste_percent, setup_fee, margin_percent, tax_enabled, tax_percent, currency
		FROM rate_config
		WHERE id = 1
	`).Scan(&cfg.WastePercent, &cfg.SetupFee, &cfg.MarginPercent, &cfg.TaxEnabled, &cfg.TaxPercent, &cfg.Currency)
	if err != nil {
		return RateConfig{}, fmt.Errorf("query rate config: %w", err)
	}
	return cfg, nil
}

// UpdateRateConfig validates and stores cfg.
func (s *Store) UpdateRateConfig(ctx context.Context, cfg RateConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "COP"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rate_config (id, waste_percent, setup_fee, margin_percent, tax_enabled, tax_percent, currency, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			waste_percent = excluded.waste_percent,
			setup_fee = excluded.setup_fee,
			margin_percent = excluded.margin_percent,
			tax_enabled = excluded.tax_enabled,
			tax_percent = excluded.tax_percent,
			currency = excluded.currency,
			updated_at = CURRENT_TIMESTAMP
	`, cfg.WastePercent, cfg.SetupFee, cfg.MarginPercent, cfg.TaxEnabled, cfg.TaxPercent, currency)
	if err != nil {
		return fmt.Errorf("update rate config: %w", err)
	}
	return nil
}
