package conversation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/shopbot/core/catalog"
	"github.com/m3rciful/shopbot/core/logger"
	"log/slog"
)

// Store owns UserConversation rows. Every mutation is committed before
// the corresponding reply is rendered, so a lost send never rewinds the
// funnel: the next inbound message continues from the committed step.
type Store interface {
	// LoadOrCreate returns the existing conversation or creates one at
	// step 0 with no category, persisting it immediately.
	LoadOrCreate(ctx context.Context, userID int64) (*UserConversation, error)
	// Advance increments the step by exactly 1. A non-empty category
	// name is resolved and bound; an unresolvable name skips the
	// binding but still advances.
	Advance(ctx context.Context, conv *UserConversation, categoryName string) error
	// Retreat decrements the step by exactly 1, clamped at step 0.
	Retreat(ctx context.Context, conv *UserConversation) error
	// SetStep forces the step, used to recover from inconsistent state.
	SetStep(ctx context.Context, conv *UserConversation, step int) error
}

// SQLStore persists conversations in the user_state table.
type SQLStore struct {
	db *sqlx.DB
	gw catalog.Gateway
}

// NewSQLStore builds a store over the shared database handle.
func NewSQLStore(db *sqlx.DB, gw catalog.Gateway) *SQLStore {
	return &SQLStore{db: db, gw: gw}
}

var _ Store = (*SQLStore)(nil)

// LoadOrCreate returns the user's conversation, creating it on first contact.
func (s *SQLStore) LoadOrCreate(ctx context.Context, userID int64) (*UserConversation, error) {
	var conv UserConversation
	err := s.db.GetContext(ctx, &conv,
		`SELECT user_id, state, category_id FROM user_state WHERE user_id = $1`, userID)
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load conversation %d: %w", userID, err)
	}

	// ON CONFLICT keeps the create idempotent under a crash between
	// insert and first reply.
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_state (user_id, state, category_id) VALUES ($1, 0, NULL)
		 ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, fmt.Errorf("create conversation %d: %w", userID, err)
	}
	logger.SVCConv.Info("conversation created",
		slog.String("event", "conversation.create"),
		slog.Int64("user_id", userID),
	)
	conv = UserConversation{UserID: userID, State: StepGreeting}
	return &conv, nil
}

// Advance moves the conversation one step forward, optionally binding a category.
func (s *SQLStore) Advance(ctx context.Context, conv *UserConversation, categoryName string) error {
	conv.State++
	if categoryName != "" {
		category, err := s.gw.CategoryByName(ctx, categoryName)
		if err != nil {
			return fmt.Errorf("advance: resolve category: %w", err)
		}
		if category == nil {
			logger.SVCConv.Warn("category binding skipped",
				slog.String("event", "conversation.advance"),
				slog.Int64("user_id", conv.UserID),
				slog.String("category", categoryName),
			)
		} else {
			id := category.ID
			conv.CategoryID = &id
		}
	}
	return s.persist(ctx, conv)
}

// Retreat moves the conversation one step back, never below step 0.
func (s *SQLStore) Retreat(ctx context.Context, conv *UserConversation) error {
	if conv.State > 0 {
		conv.State--
	}
	return s.persist(ctx, conv)
}

// SetStep forces the conversation to the given step.
func (s *SQLStore) SetStep(ctx context.Context, conv *UserConversation, step int) error {
	conv.State = step
	return s.persist(ctx, conv)
}

func (s *SQLStore) persist(ctx context.Context, conv *UserConversation) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE user_state SET state = $2, category_id = $3 WHERE user_id = $1`,
		conv.UserID, conv.State, conv.CategoryID)
	if err != nil {
		return fmt.Errorf("persist conversation %d: %w", conv.UserID, err)
	}
	return nil
}
