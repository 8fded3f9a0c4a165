package catalog

// Category groups goods under a display label. The name doubles as the
// literal match token for funnel transitions, so it is unique.
type Category struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

// Goods is a single showcase item. Image holds the raw picture bytes
// loaded during seeding.
type Goods struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Image       []byte `db:"image"`
	CategoryID  int64  `db:"category_id"`
}

// StateMessage is the prompt text shown verbatim at a funnel step.
type StateMessage struct {
	ID      int64  `db:"id"`
	StateID int    `db:"state_id"`
	Message string `db:"message"`
}
