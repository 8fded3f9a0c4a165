package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/shopbot/core/logger"
	"log/slog"
)

// Repository implements Gateway over Postgres. Reference data is seeded
// out-of-band and never mutated here.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps the shared database handle.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

var _ Gateway = (*Repository)(nil)

// ListCategoryNames returns all category names in catalog insertion order.
func (r *Repository) ListCategoryNames(ctx context.Context) ([]string, error) {
	start := time.Now()
	var names []string
	err := r.db.SelectContext(ctx, &names, `SELECT name FROM category ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list category names: %w", err)
	}
	logger.SVCCatalog.Debug("categories listed",
		slog.String("event", "catalog.categories"),
		slog.Int("count", len(names)),
		slog.Duration("duration", logger.Took(start)),
	)
	return names, nil
}

// CategoryByID returns the category or nil when it does not exist.
func (r *Repository) CategoryByID(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := r.db.GetContext(ctx, &c, `SELECT id, name, description FROM category WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("category by id %d: %w", id, err)
	}
	return &c, nil
}

// CategoryByName returns the category with the exact name or nil.
func (r *Repository) CategoryByName(ctx context.Context, name string) (*Category, error) {
	var c Category
	err := r.db.GetContext(ctx, &c, `SELECT id, name, description FROM category WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("category by name %q: %w", name, err)
	}
	return &c, nil
}

// ListGoodsNames returns all goods names across categories in insertion order.
func (r *Repository) ListGoodsNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.SelectContext(ctx, &names, `SELECT name FROM goods ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list goods names: %w", err)
	}
	return names, nil
}

// GoodsInCategory returns the goods of one category in insertion order.
func (r *Repository) GoodsInCategory(ctx context.Context, categoryID int64) ([]Goods, error) {
	var goods []Goods
	err := r.db.SelectContext(ctx, &goods,
		`SELECT id, name, description, image, category_id FROM goods WHERE category_id = $1 ORDER BY id`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("goods in category %d: %w", categoryID, err)
	}
	return goods, nil
}

// GoodsByName returns the goods with the exact name or nil.
func (r *Repository) GoodsByName(ctx context.Context, name string) (*Goods, error) {
	var g Goods
	err := r.db.GetContext(ctx, &g,
		`SELECT id, name, description, image, category_id FROM goods WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("goods by name %q: %w", name, err)
	}
	return &g, nil
}

// PromptForStep returns the prompt configured for a funnel step.
// The second result reports presence; absence is tolerated by callers.
func (r *Repository) PromptForStep(ctx context.Context, stepID int) (string, bool, error) {
	var msg sql.NullString
	err := r.db.GetContext(ctx, &msg,
		`SELECT message FROM state_message WHERE state_id = $1 ORDER BY id LIMIT 1`, stepID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("prompt for step %d: %w", stepID, err)
	}
	if !msg.Valid {
		return "", false, nil
	}
	return msg.String, true, nil
}
