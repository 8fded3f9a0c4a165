package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/m3rciful/shopbot/core/logger"
	"log/slog"
)

// Snapshot is the in-memory copy of category and goods names taken once
// at startup. It backs literal text matching for funnel transitions.
// The catalog is assumed static while the process runs: rows added after
// startup are invisible to the matcher until restart.
type Snapshot struct {
	categories  []string
	goods       []string
	categorySet map[string]struct{}
	goodsSet    map[string]struct{}
}

// BuildSnapshot queries the gateway once and freezes the match sets.
func BuildSnapshot(ctx context.Context, gw Gateway) (*Snapshot, error) {
	start := time.Now()

	categories, err := gw.ListCategoryNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot categories: %w", err)
	}
	goods, err := gw.ListGoodsNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot goods: %w", err)
	}

	s := &Snapshot{
		categories:  categories,
		goods:       goods,
		categorySet: make(map[string]struct{}, len(categories)),
		goodsSet:    make(map[string]struct{}, len(goods)),
	}
	for _, name := range categories {
		s.categorySet[name] = struct{}{}
	}
	for _, name := range goods {
		s.goodsSet[name] = struct{}{}
	}

	logger.SVCCatalog.Info("snapshot built",
		slog.String("event", "catalog.snapshot"),
		slog.Int("categories", len(categories)),
		slog.Int("goods", len(goods)),
		slog.Duration("duration", logger.Took(start)),
	)
	return s, nil
}

// CategoryNames returns category names in catalog order.
func (s *Snapshot) CategoryNames() []string {
	return s.categories
}

// GoodsNames returns all goods names in catalog order.
func (s *Snapshot) GoodsNames() []string {
	return s.goods
}

// IsCategory reports whether text exactly equals a known category name.
func (s *Snapshot) IsCategory(text string) bool {
	_, ok := s.categorySet[text]
	return ok
}

// IsGoods reports whether text exactly equals a known goods name.
func (s *Snapshot) IsGoods(text string) bool {
	_, ok := s.goodsSet[text]
	return ok
}
