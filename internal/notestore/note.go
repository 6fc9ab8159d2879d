package notestore

import "time"

// Quality score bounds. Every persisted note carries a score in this range.
const (
	MinScore = 80
	MaxScore = 100
)

// Note is the durable record produced by one successful pipeline run.
// ID and CreatedAt are assigned by the store on creation and never change.
// Title and Content are the only fields mutable after creation.
type Note struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Title      string    `json:"title"`
	Transcript string    `json:"transcript"`
	Summary    string    `json:"summary"`
	Content    string    `json:"content"`
	Duration   string    `json:"duration"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// UpdateFields carries the point-update payload. Nil fields are left
// untouched.
type UpdateFields struct {
	Title   *string
	Content *string
}
