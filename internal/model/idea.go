package model

import "time"

// Field limits for ideas.
const (
	IdeaTitleMaxLen       = 200
	IdeaDescriptionMaxLen = 8000
)

// Idea is a planned content item pinned to a calendar date.
type Idea struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	TargetDate  Date       `json:"target_date" db:"target_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
}

// IdeaPatch is a partial idea update. Description may be explicitly
// cleared with Set[*string](nil); Title and TargetDate may not be cleared.
type IdeaPatch struct {
	Title       Field[string]  `json:"title"`
	TargetDate  Field[Date]    `json:"target_date"`
	Description Field[*string] `json:"description"`
}
