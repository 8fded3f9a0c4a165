package conversation

// Funnel steps. Any step value of StepItemDetail or more renders the
// item detail view; there is no terminal state.
const (
	StepGreeting     = 0
	StepCategoryMenu = 1
	StepItemMenu     = 2
	StepItemDetail   = 3
)

// UserConversation is the durable per-user funnel position. Created
// lazily at step 0 on first contact and never deleted.
type UserConversation struct {
	UserID     int64  `db:"user_id"`
	State      int    `db:"state"`
	CategoryID *int64 `db:"category_id"`
}
