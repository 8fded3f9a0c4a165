package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m3rciful/shopbot/core/catalog"
	"github.com/m3rciful/shopbot/core/logger"
	"log/slog"
)

// BackKeyword triggers back-navigation when contained in the inbound
// text, case-insensitively.
const BackKeyword = "назад"

// Button labels used on the reply keyboards. They must stay stable:
// the back buttons are recognised through BackKeyword containment.
const (
	BtnShowcase         = "Посмотреть нашу витрину"
	BtnBackToIntro      = "Назад к описанию сообщества"
	BtnBackToCategories = "Назад к выбору категорий"
	BtnBackToGoods      = "Назад к выбору товаров"
)

// Default prompts used when no state_message row exists for a step.
const (
	defaultGreeting     = "Привет! Вы можете ознакомиться с нашим ассортиментом"
	defaultCategoryMenu = "Вот что мы могем:"
	msgCategoryLost     = "Не удалось найти выбранную категорию, выберите ещё раз:"
	msgGoodsLost        = "Такого товара у нас нет, выберите из списка:"
)

// Render is the single outbound reply produced by one turn: a text,
// an optional reply keyboard (one label per button, grouped in rows),
// and an optional photo shown with the text as its caption.
type Render struct {
	Text  string
	Rows  [][]string
	Photo []byte
}

// decision is the ordered text-match outcome of a turn. Exactly one
// predicate fires per turn, checked back > category > goods.
type decision int

const (
	decideNone decision = iota
	decideBack
	decideCategory
	decideGoods
)

func decide(snap *catalog.Snapshot, text string) decision {
	switch {
	case strings.Contains(strings.ToLower(text), BackKeyword):
		return decideBack
	case snap.IsCategory(text):
		return decideCategory
	case snap.IsGoods(text):
		return decideGoods
	}
	return decideNone
}

// Engine drives the four-step funnel: it maps (stored conversation,
// inbound text) to a committed state mutation and one Render.
type Engine struct {
	store Store
	gw    catalog.Gateway
	snap  *catalog.Snapshot
}

// NewEngine wires the transition engine.
func NewEngine(store Store, gw catalog.Gateway, snap *catalog.Snapshot) *Engine {
	return &Engine{store: store, gw: gw, snap: snap}
}

// Turn processes one inbound text for one user. State mutations are
// persisted before the returned Render is dispatched by the caller.
func (e *Engine) Turn(ctx context.Context, userID int64, text string) (*Render, error) {
	start := time.Now()

	conv, err := e.store.LoadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := decide(e.snap, text)
	switch d {
	case decideBack:
		if err := e.store.Retreat(ctx, conv); err != nil {
			return nil, err
		}
	case decideCategory:
		if err := e.store.Advance(ctx, conv, text); err != nil {
			return nil, err
		}
	case decideGoods:
		if err := e.store.Advance(ctx, conv, ""); err != nil {
			return nil, err
		}
	}

	render, err := e.renderStep(ctx, conv, text)
	if err != nil {
		return nil, err
	}

	logger.SVCConv.Debug("turn processed",
		slog.String("event", "conversation.turn"),
		slog.Int64("user_id", userID),
		slog.Int("state", conv.State),
		slog.Duration("duration", logger.Took(start)),
	)
	return render, nil
}

// Restart rewinds a conversation to the greeting step and renders it.
// Used by the /start command regardless of the stored state.
func (e *Engine) Restart(ctx context.Context, userID int64) (*Render, error) {
	conv, err := e.store.LoadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := e.store.SetStep(ctx, conv, StepGreeting); err != nil {
		return nil, err
	}
	return e.renderGreeting(ctx, conv)
}

func (e *Engine) renderStep(ctx context.Context, conv *UserConversation, text string) (*Render, error) {
	switch {
	case conv.State <= StepGreeting:
		return e.renderGreeting(ctx, conv)
	case conv.State == StepCategoryMenu:
		return e.renderCategoryMenu(ctx, "")
	case conv.State == StepItemMenu:
		return e.renderItemMenu(ctx, conv, "")
	default:
		return e.renderItemDetail(ctx, conv, text)
	}
}

// renderGreeting shows the step-0 prompt and immediately advances the
// conversation to the category menu: the greeting cannot be lingered on.
func (e *Engine) renderGreeting(ctx context.Context, conv *UserConversation) (*Render, error) {
	if err := e.store.Advance(ctx, conv, ""); err != nil {
		return nil, err
	}
	prompt, ok, err := e.gw.PromptForStep(ctx, StepGreeting)
	if err != nil {
		return nil, err
	}
	if !ok {
		prompt = defaultGreeting
	}
	return &Render{
		Text: prompt,
		Rows: [][]string{{BtnShowcase}},
	}, nil
}

func (e *Engine) renderCategoryMenu(ctx context.Context, preface string) (*Render, error) {
	prompt, ok, err := e.gw.PromptForStep(ctx, StepCategoryMenu)
	if err != nil {
		return nil, err
	}
	if !ok {
		prompt = defaultCategoryMenu
	}
	if preface != "" {
		prompt = preface
	}

	rows := make([][]string, 0, len(e.snap.CategoryNames())+1)
	for _, name := range e.snap.CategoryNames() {
		rows = append(rows, []string{name})
	}
	rows = append(rows, []string{BtnBackToIntro})
	return &Render{Text: prompt, Rows: rows}, nil
}

func (e *Engine) renderItemMenu(ctx context.Context, conv *UserConversation, preface string) (*Render, error) {
	category, err := e.boundCategory(ctx, conv)
	if err != nil {
		return nil, err
	}
	if category == nil {
		// Inconsistent state: item menu reached with no valid category.
		// Recoverable: drop back to the category menu and re-prompt.
		logger.SVCConv.Warn("category missing at item menu",
			slog.String("event", "conversation.reset"),
			slog.Int64("user_id", conv.UserID),
			slog.Int("state", conv.State),
		)
		if err := e.store.SetStep(ctx, conv, StepCategoryMenu); err != nil {
			return nil, err
		}
		return e.renderCategoryMenu(ctx, msgCategoryLost)
	}

	goods, err := e.gw.GoodsInCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Вот наши %s:\n%s", category.Name, category.Description)
	if preface != "" {
		text = preface
	}

	rows := make([][]string, 0, len(goods)+1)
	for _, item := range goods {
		rows = append(rows, []string{item.Name})
	}
	rows = append(rows, []string{BtnBackToCategories})
	return &Render{Text: text, Rows: rows}, nil
}

func (e *Engine) renderItemDetail(ctx context.Context, conv *UserConversation, text string) (*Render, error) {
	item, err := e.gw.GoodsByName(ctx, text)
	if err != nil {
		return nil, err
	}
	if item == nil {
		// Unknown text at the detail step: apologise and re-prompt the
		// item menu without touching the state.
		return e.renderItemMenu(ctx, conv, msgGoodsLost)
	}

	return &Render{
		Text:  fmt.Sprintf("%s\n%s", item.Name, item.Description),
		Rows:  [][]string{{BtnBackToGoods}},
		Photo: item.Image,
	}, nil
}

// boundCategory resolves the conversation's category reference, treating
// both a nil reference and a stale id as absence.
func (e *Engine) boundCategory(ctx context.Context, conv *UserConversation) (*catalog.Category, error) {
	if conv.CategoryID == nil {
		return nil, nil
	}
	return e.gw.CategoryByID(ctx, *conv.CategoryID)
}
