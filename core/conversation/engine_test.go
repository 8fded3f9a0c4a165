package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/m3rciful/shopbot/core/catalog"
)

// fakeGateway serves a small fixed catalog from memory.
type fakeGateway struct {
	categories []catalog.Category
	goods      []catalog.Goods
	prompts    map[int]string
}

func (f *fakeGateway) ListCategoryNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(f.categories))
	for _, c := range f.categories {
		names = append(names, c.Name)
	}
	return names, nil
}

func (f *fakeGateway) CategoryByID(ctx context.Context, id int64) (*catalog.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			cc := c
			return &cc, nil
		}
	}
	return nil, nil
}

func (f *fakeGateway) CategoryByName(ctx context.Context, name string) (*catalog.Category, error) {
	for _, c := range f.categories {
		if c.Name == name {
			cc := c
			return &cc, nil
		}
	}
	return nil, nil
}

func (f *fakeGateway) ListGoodsNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(f.goods))
	for _, g := range f.goods {
		names = append(names, g.Name)
	}
	return names, nil
}

func (f *fakeGateway) GoodsInCategory(ctx context.Context, categoryID int64) ([]catalog.Goods, error) {
	var out []catalog.Goods
	for _, g := range f.goods {
		if g.CategoryID == categoryID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGateway) GoodsByName(ctx context.Context, name string) (*catalog.Goods, error) {
	for _, g := range f.goods {
		if g.Name == name {
			gg := g
			return &gg, nil
		}
	}
	return nil, nil
}

func (f *fakeGateway) PromptForStep(ctx context.Context, stepID int) (string, bool, error) {
	if f.prompts == nil {
		return "", false, nil
	}
	msg, ok := f.prompts[stepID]
	return msg, ok, nil
}

func newTestEngine(t *testing.T) (*Engine, *MemoryStore, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{
		categories: []catalog.Category{
			{ID: 1, Name: "Торты", Description: "Торты на любой вкус"},
			{ID: 2, Name: "Печенье", Description: "Свежее печенье"},
		},
		goods: []catalog.Goods{
			{ID: 10, Name: "Мудрый еврей", Description: "Медовый торт", Image: []byte{0xFF, 0xD8}, CategoryID: 1},
			{ID: 11, Name: "Птичье молоко", Description: "Торт с суфле", CategoryID: 1},
			{ID: 12, Name: "Имбирное печенье", Description: "С корицей", CategoryID: 2},
		},
		prompts: map[int]string{
			StepGreeting:     "Привет!",
			StepCategoryMenu: "Выбирайте:",
		},
	}
	snap, err := catalog.BuildSnapshot(context.Background(), gw)
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	store := NewMemoryStore(gw)
	return NewEngine(store, gw, snap), store, gw
}

func mustState(t *testing.T, store *MemoryStore, userID int64, want int) {
	t.Helper()
	conv, err := store.LoadOrCreate(context.Background(), userID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conv.State != want {
		t.Fatalf("state = %d, want %d", conv.State, want)
	}
}

func hasButton(r *Render, label string) bool {
	for _, row := range r.Rows {
		for _, btn := range row {
			if btn == label {
				return true
			}
		}
	}
	return false
}

func TestFirstContactGreetsAndAdvances(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	r, err := engine.Turn(ctx, 100, "привет")
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if r.Text != "Привет!" {
		t.Fatalf("text = %q", r.Text)
	}
	if !hasButton(r, BtnShowcase) {
		t.Fatal("expected showcase button")
	}
	if store.Len() != 1 {
		t.Fatalf("store len = %d, want 1", store.Len())
	}
	// The greeting is transient: the stored state already points at the menu.
	mustState(t, store, 100, StepCategoryMenu)
}

func TestFullFunnelWalkthrough(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	const user = int64(200)

	if _, err := engine.Turn(ctx, user, "начать"); err != nil {
		t.Fatalf("greeting: %v", err)
	}

	r, err := engine.Turn(ctx, user, BtnShowcase)
	if err != nil {
		t.Fatalf("category menu: %v", err)
	}
	if r.Text != "Выбирайте:" {
		t.Fatalf("category menu text = %q", r.Text)
	}
	if !hasButton(r, "Торты") || !hasButton(r, "Печенье") || !hasButton(r, BtnBackToIntro) {
		t.Fatalf("category menu rows = %v", r.Rows)
	}
	mustState(t, store, user, StepCategoryMenu)

	r, err = engine.Turn(ctx, user, "Торты")
	if err != nil {
		t.Fatalf("item menu: %v", err)
	}
	if !strings.Contains(r.Text, "Вот наши Торты") {
		t.Fatalf("item menu text = %q", r.Text)
	}
	if !hasButton(r, "Мудрый еврей") || !hasButton(r, BtnBackToCategories) {
		t.Fatalf("item menu rows = %v", r.Rows)
	}
	if hasButton(r, "Имбирное печенье") {
		t.Fatal("goods from another category leaked into the menu")
	}
	mustState(t, store, user, StepItemMenu)

	r, err = engine.Turn(ctx, user, "Мудрый еврей")
	if err != nil {
		t.Fatalf("item detail: %v", err)
	}
	if !strings.Contains(r.Text, "Мудрый еврей") || !strings.Contains(r.Text, "Медовый торт") {
		t.Fatalf("detail text = %q", r.Text)
	}
	if len(r.Photo) == 0 {
		t.Fatal("expected photo bytes")
	}
	if !hasButton(r, BtnBackToGoods) {
		t.Fatalf("detail rows = %v", r.Rows)
	}
	mustState(t, store, user, StepItemDetail)
}

func TestBackNavigationAndClamp(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	const user = int64(300)

	_, _ = engine.Turn(ctx, user, "старт")
	_, _ = engine.Turn(ctx, user, BtnShowcase)
	_, _ = engine.Turn(ctx, user, "Торты")
	mustState(t, store, user, StepItemMenu)

	r, err := engine.Turn(ctx, user, BtnBackToCategories)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if !hasButton(r, "Торты") {
		t.Fatalf("expected category menu, rows = %v", r.Rows)
	}
	mustState(t, store, user, StepCategoryMenu)

	// Back from the menu lands on the greeting, which re-advances.
	r, err = engine.Turn(ctx, user, BtnBackToIntro)
	if err != nil {
		t.Fatalf("back to intro: %v", err)
	}
	if !hasButton(r, BtnShowcase) {
		t.Fatalf("expected greeting, rows = %v", r.Rows)
	}
	mustState(t, store, user, StepCategoryMenu)

	// Repeated backs never take the state negative.
	for i := 0; i < 3; i++ {
		if _, err := engine.Turn(ctx, user, "назад"); err != nil {
			t.Fatalf("back %d: %v", i, err)
		}
	}
	mustState(t, store, user, StepCategoryMenu)
}

func TestBackKeywordMatchesInside(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	const user = int64(400)

	_, _ = engine.Turn(ctx, user, "hi")
	_, _ = engine.Turn(ctx, user, BtnShowcase)
	_, _ = engine.Turn(ctx, user, "Торты")
	mustState(t, store, user, StepItemMenu)

	// Case and surrounding text are irrelevant to the keyword check.
	if _, err := engine.Turn(ctx, user, "вернись НАЗАД пожалуйста"); err != nil {
		t.Fatalf("turn: %v", err)
	}
	mustState(t, store, user, StepCategoryMenu)
}

func TestUnknownTextRepromptsSameStep(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	const user = int64(500)

	_, _ = engine.Turn(ctx, user, "hi")
	first, err := engine.Turn(ctx, user, "???")
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	second, err := engine.Turn(ctx, user, "!!!")
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if first.Text != second.Text {
		t.Fatalf("re-prompt diverged: %q vs %q", first.Text, second.Text)
	}
	mustState(t, store, user, StepCategoryMenu)
}

func TestUnknownItemAtDetailApologizes(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	const user = int64(600)

	_, _ = engine.Turn(ctx, user, "hi")
	_, _ = engine.Turn(ctx, user, BtnShowcase)
	_, _ = engine.Turn(ctx, user, "Торты")
	_, _ = engine.Turn(ctx, user, "Мудрый еврей")
	mustState(t, store, user, StepItemDetail)

	r, err := engine.Turn(ctx, user, "Чизкейк")
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if r.Text != msgGoodsLost {
		t.Fatalf("text = %q, want apology", r.Text)
	}
	if !hasButton(r, "Мудрый еврей") {
		t.Fatalf("expected item menu rows, got %v", r.Rows)
	}
	mustState(t, store, user, StepItemDetail)
}

func TestItemMenuWithoutCategoryResets(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	const user = int64(700)

	conv, err := store.LoadOrCreate(ctx, user)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := store.SetStep(ctx, conv, StepItemMenu); err != nil {
		t.Fatalf("set step: %v", err)
	}

	r, err := engine.Turn(ctx, user, "покажи")
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if r.Text != msgCategoryLost {
		t.Fatalf("text = %q, want category-lost prompt", r.Text)
	}
	if !hasButton(r, "Торты") {
		t.Fatalf("expected category menu rows, got %v", r.Rows)
	}
	mustState(t, store, user, StepCategoryMenu)
}

func TestDecisionOrder(t *testing.T) {
	_, _, gw := newTestEngine(t)
	snap, err := catalog.BuildSnapshot(context.Background(), gw)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	cases := []struct {
		text string
		want decision
	}{
		{"назад", decideBack},
		{"Назад к выбору категорий", decideBack},
		{"Торты", decideCategory},
		{"Мудрый еврей", decideGoods},
		{"что-то ещё", decideNone},
		// The back keyword wins even when the text also names a category.
		{"Торты назад", decideBack},
	}
	for _, tc := range cases {
		if got := decide(snap, tc.text); got != tc.want {
			t.Errorf("decide(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestRestartRewindsToGreeting(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	const user = int64(800)

	_, _ = engine.Turn(ctx, user, "hi")
	_, _ = engine.Turn(ctx, user, BtnShowcase)
	_, _ = engine.Turn(ctx, user, "Торты")
	mustState(t, store, user, StepItemMenu)

	r, err := engine.Restart(ctx, user)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if !hasButton(r, BtnShowcase) {
		t.Fatalf("expected greeting, rows = %v", r.Rows)
	}
	mustState(t, store, user, StepCategoryMenu)
}

func TestCategorySelectionBindsCategory(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	const user = int64(900)

	_, _ = engine.Turn(ctx, user, "hi")
	_, _ = engine.Turn(ctx, user, "Печенье")

	conv, err := store.LoadOrCreate(ctx, user)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conv.CategoryID == nil || *conv.CategoryID != 2 {
		t.Fatalf("category id = %v, want 2", conv.CategoryID)
	}
}
