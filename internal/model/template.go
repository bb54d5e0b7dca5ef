package model

import (
	"math"
	"time"
)

// Field limits for templates.
const (
	TemplateNameMinLen     = 3
	TemplateNameMaxLen     = 120
	TemplateBodyMinLen     = 1
	TemplateBodyMaxLen     = 500
	TemplateCategoryMaxLen = 50

	RatingMin = 1
	RatingMax = 5
)

// Template is a reusable text snippet with favorite and rating metadata.
// RatingSum and RatingCount only ever grow together, one rating at a time.
type Template struct {
	ID          string    `json:"id" db:"id"`
	SeedKey     *string   `json:"-" db:"seed_key"`
	Name        string    `json:"name" db:"name"`
	Body        string    `json:"body" db:"body"`
	Category    *string   `json:"category" db:"category"`
	Favorite    bool      `json:"favorite" db:"favorite"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	RatingSum   int       `json:"-" db:"rating_sum"`
	RatingCount int       `json:"rating_count" db:"rating_count"`
}

// Rating returns the average rating rounded to two decimals, or nil when
// the template has not been rated.
func (t Template) Rating() *float64 {
	if t.RatingCount == 0 {
		return nil
	}
	avg := math.Round(float64(t.RatingSum)/float64(t.RatingCount)*100) / 100
	return &avg
}

// Score is the sort key for listings: the unrounded average, 0 if unrated.
func (t Template) Score() float64 {
	if t.RatingCount == 0 {
		return 0
	}
	return float64(t.RatingSum) / float64(t.RatingCount)
}

// TemplatePatch is a partial template update.
type TemplatePatch struct {
	Name     Field[string]  `json:"name"`
	Body     Field[string]  `json:"body"`
	Category Field[*string] `json:"category"`
	Favorite Field[bool]    `json:"favorite"`
}
