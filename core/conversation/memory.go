package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/m3rciful/shopbot/core/catalog"
)

// MemoryStore is an in-memory Store implementation for tests and
// development. Copies are handed out so callers mutate through the
// Store methods only.
type MemoryStore struct {
	mu    sync.Mutex
	convs map[int64]UserConversation
	gw    catalog.Gateway
}

// NewMemoryStore builds an empty in-memory store resolving categories via gw.
func NewMemoryStore(gw catalog.Gateway) *MemoryStore {
	return &MemoryStore{
		convs: make(map[int64]UserConversation),
		gw:    gw,
	}
}

var _ Store = (*MemoryStore)(nil)

// Len reports the number of stored conversations.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.convs)
}

// LoadOrCreate returns the user's conversation, creating it on first contact.
func (m *MemoryStore) LoadOrCreate(_ context.Context, userID int64) (*UserConversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conv, ok := m.convs[userID]; ok {
		c := conv
		return &c, nil
	}
	conv := UserConversation{UserID: userID, State: StepGreeting}
	m.convs[userID] = conv
	return &conv, nil
}

// Advance moves the conversation one step forward, optionally binding a category.
func (m *MemoryStore) Advance(ctx context.Context, conv *UserConversation, categoryName string) error {
	conv.State++
	if categoryName != "" {
		category, err := m.gw.CategoryByName(ctx, categoryName)
		if err != nil {
			return fmt.Errorf("advance: resolve category: %w", err)
		}
		if category != nil {
			id := category.ID
			conv.CategoryID = &id
		}
	}
	return m.persist(conv)
}

// Retreat moves the conversation one step back, never below step 0.
func (m *MemoryStore) Retreat(_ context.Context, conv *UserConversation) error {
	if conv.State > 0 {
		conv.State--
	}
	return m.persist(conv)
}

// SetStep forces the conversation to the given step.
func (m *MemoryStore) SetStep(_ context.Context, conv *UserConversation, step int) error {
	conv.State = step
	return m.persist(conv)
}

func (m *MemoryStore) persist(conv *UserConversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convs[conv.UserID] = *conv
	return nil
}
