package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type listGateway struct {
	categories []string
	goods      []string
	err        error
}

func (l *listGateway) ListCategoryNames(ctx context.Context) ([]string, error) {
	return l.categories, l.err
}

func (l *listGateway) ListGoodsNames(ctx context.Context) ([]string, error) {
	return l.goods, l.err
}

func (l *listGateway) CategoryByID(ctx context.Context, id int64) (*Category, error) {
	return nil, nil
}

func (l *listGateway) CategoryByName(ctx context.Context, name string) (*Category, error) {
	return nil, nil
}

func (l *listGateway) GoodsInCategory(ctx context.Context, categoryID int64) ([]Goods, error) {
	return nil, nil
}

func (l *listGateway) GoodsByName(ctx context.Context, name string) (*Goods, error) {
	return nil, nil
}

func (l *listGateway) PromptForStep(ctx context.Context, stepID int) (string, bool, error) {
	return "", false, nil
}

func TestBuildSnapshotMatchSets(t *testing.T) {
	gw := &listGateway{
		categories: []string{"Торты", "Печенье"},
		goods:      []string{"Мудрый еврей", "Имбирное печенье"},
	}
	snap, err := BuildSnapshot(context.Background(), gw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !reflect.DeepEqual(snap.CategoryNames(), gw.categories) {
		t.Fatalf("categories = %v", snap.CategoryNames())
	}
	if !snap.IsCategory("Торты") {
		t.Fatal("expected category match")
	}
	if snap.IsCategory("торты") {
		t.Fatal("matching must be literal, not case-folded")
	}
	if !snap.IsGoods("Мудрый еврей") {
		t.Fatal("expected goods match")
	}
	if snap.IsGoods("Торты") {
		t.Fatal("category name must not match as goods")
	}
}

func TestBuildSnapshotEmptyCatalog(t *testing.T) {
	snap, err := BuildSnapshot(context.Background(), &listGateway{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if snap.IsCategory("") || snap.IsGoods("") {
		t.Fatal("empty text must not match")
	}
	if len(snap.CategoryNames()) != 0 || len(snap.GoodsNames()) != 0 {
		t.Fatal("expected empty name lists")
	}
}

func TestBuildSnapshotPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	if _, err := BuildSnapshot(context.Background(), &listGateway{err: wantErr}); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
}
