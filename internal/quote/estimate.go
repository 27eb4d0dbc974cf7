package quote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Simplici0/printworks/internal/imposition"
	"github.com/Simplici0/printworks/internal/pricing"
)

// Estimate prices req without storing anything.
func (s *Service) Estimate(ctx context.Context, req Request) (Estimate, error) {
	if req.Quantity == 0 {
		return Estimate{}, pricing.ErrZeroQuantity
	}

	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return Estimate{}, fmt.Errorf("load product: %w", err)
	}

	paperID := req.PaperStockID
	if paperID == 0 {
		paperID = product.PaperStockID
	}
	paper, err := s.catalog.GetPaperStock(ctx, paperID)
	if err != nil {
		return Estimate{}, fmt.Errorf("load paper stock: %w", err)
	}

	if !product.Active || !paper.Active {
		return Estimate{}, ErrInactive
	}

	sheet, err := imposition.ResolveSheet(paper.Sheet)
	if err != nil {
		return Estimate{}, fmt.Errorf("paper stock %d: %w", paper.ID, err)
	}
	item, err := imposition.ResolveItem(product.Trim.Width, product.Trim.Height)
	if err != nil {
		return Estimate{}, fmt.Errorf("product %d: %w", product.ID, err)
	}

	decision, err := imposition.SelectOrientation(item, sheet, s.margins, s.policy)
	if err != nil {
		return Estimate{}, err
	}
	if decision.HeadroomOverride {
		s.log.Debug("rotated layout chosen for headroom",
			zap.Int64("product_id", product.ID),
			zap.Uint32("unrotated_yield", decision.Unrotated.ItemsPerSheet),
			zap.Uint32("rotated_yield", decision.RotatedVariant.ItemsPerSheet),
		)
	}

	est := Estimate{
		ProductID:      product.ID,
		ProductName:    product.Name,
		PaperStockID:   paper.ID,
		PaperStockName: paper.Name,
		Quantity:       req.Quantity,
		Item:           item,
		Sheet:          sheet,
		Sides:          product.Sides,
		Pages:          product.PagesPerProduct,
		Decision:       decision,
	}

	if product.PagesPerProduct > 1 {
		count, err := imposition.SheetsNeeded(imposition.ImpositionRequest{
			ItemsPerSheetFace: decision.ItemsPerSheet(),
			Sides:             product.Sides,
			PagesPerProduct:   product.PagesPerProduct,
			Quantity:          req.Quantity,
		})
		if err != nil {
			return Estimate{}, err
		}
		est.Booklet = &count
		est.TotalSheets = count.TotalSheets
	} else {
		est.TotalSheets, err = imposition.FlatSheetsNeeded(decision.ItemsPerSheet(), req.Quantity)
		if err != nil {
			return Estimate{}, err
		}
	}

	est.Price, err = pricing.Evaluate(product.Bands, req.Quantity, product.BaseUnitPrice)
	if err != nil {
		return Estimate{}, fmt.Errorf("product %d: %w", product.ID, err)
	}

	rates, err := s.catalog.GetRateConfig(ctx)
	if err != nil {
		return Estimate{}, fmt.Errorf("load rates: %w", err)
	}

	result := pricing.Calculate(pricing.JobInput{
		Sheets:       est.TotalSheets,
		CostPerSheet: paper.CostPerSheet,
		PrintTotal:   est.Price.TotalPrice,
		Quantity:     req.Quantity,
	}, rates.Rates())

	est.Breakdown = result.Breakdown
	est.Totals = result.Totals
	est.Currency = rates.Currency
	return est, nil
}
