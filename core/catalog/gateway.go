package catalog

import "context"

// Gateway exposes read-only access to the showcase reference data.
// All lookups report absence instead of failing: a missing row comes
// back as a nil pointer (or false), never as an error.
type Gateway interface {
	ListCategoryNames(ctx context.Context) ([]string, error)
	CategoryByID(ctx context.Context, id int64) (*Category, error)
	CategoryByName(ctx context.Context, name string) (*Category, error)
	ListGoodsNames(ctx context.Context) ([]string, error)
	GoodsInCategory(ctx context.Context, categoryID int64) ([]Goods, error)
	GoodsByName(ctx context.Context, name string) (*Goods, error)
	PromptForStep(ctx context.Context, stepID int) (string, bool, error)
}
