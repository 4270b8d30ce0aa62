package catalog

import (
	"context"
	"fmt"

	"github.com/example/bakeshop/pkg/models"
	"go.uber.org/zap"
)

const defaultBestSellerLimit = 6

// BestSeller is a catalog product annotated with its historical sales.
type BestSeller struct {
	models.Product
	TotalSold    int     `json:"totalSold"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// BestSellers ranks products by units sold across qualifying orders,
// joining sales rows back to live catalog records by product name. When
// order history yields fewer than limit products, the remainder is
// backfilled with the newest in-stock products at zero sold, so the
// list always honors the requested length when the catalog allows it.
func (s *Service) BestSellers(ctx context.Context, limit int64) ([]BestSeller, error) {
	if limit < 1 {
		limit = defaultBestSellerLimit
	}

	rows, err := s.sales.BestSellingNames(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}

	// The join walks the ranked rows so the aggregation's order
	// survives, ties included; orders referencing names no longer in
	// the catalog drop out here.
	var result []BestSeller
	if len(names) > 0 {
		products, err := s.products.FindByNames(ctx, names)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch products: %w", err)
		}
		byName := make(map[string]*models.Product, len(products))
		for _, p := range products {
			byName[p.Name] = p
		}
		for _, row := range rows {
			p, ok := byName[row.Name]
			if !ok {
				continue
			}
			result = append(result, BestSeller{
				Product:      *p,
				TotalSold:    row.TotalQuantity,
				TotalRevenue: row.TotalRevenue,
			})
		}
	}

	if int64(len(result)) < limit {
		included := make([]string, 0, len(result))
		for _, b := range result {
			included = append(included, b.Name)
		}
		fill, err := s.products.NewestInStock(ctx, included, limit-int64(len(result)))
		if err != nil {
			return nil, fmt.Errorf("failed to backfill best sellers: %w", err)
		}
		for _, p := range fill {
			result = append(result, BestSeller{Product: *p})
		}
	}

	s.logger.Debug("Best sellers computed",
		zap.Int("ranked", len(rows)),
		zap.Int("returned", len(result)))

	return result, nil
}
