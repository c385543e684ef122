package domain

import "time"

// Revision tracks how many times a collection was replaced.
type Revision struct {
	Kind      Kind      `db:"kind"`
	Revision  int64     `db:"revision"`
	ItemCount int       `db:"item_count"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ContentChange is announced after a collection has been replaced.
type ContentChange struct {
	Kind      Kind      `json:"kind"`
	Revision  int64     `json:"revision"`
	ItemCount int       `json:"itemCount"`
	Timestamp time.Time `json:"timestamp"`
}

// RefreshStats holds statistics about a cache refresh.
type RefreshStats struct {
	Remote   int
	Fallback int
	Duration time.Duration
}
