// Package models defines the domain types for Memora.
package models

import "time"

// Category classifies a memo. The set is fixed; anything else is invalid input.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryStudy    Category = "study"
	CategoryIdea     Category = "idea"
	CategoryOther    Category = "other"
)

// Categories returns all valid categories in display order.
func Categories() []Category {
	return []Category{CategoryPersonal, CategoryWork, CategoryStudy, CategoryIdea, CategoryOther}
}

// CategoryValues returns the valid categories as []interface{} for use with
// ozzo-validation's In rule.
func CategoryValues() []interface{} {
	cats := Categories()
	out := make([]interface{}, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryStudy, CategoryIdea, CategoryOther:
		return true
	}
	return false
}

// Memo represents a stored memo.
type Memo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	Tags      []string  `json:"tags"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemoListItem is a lightweight representation returned by list operations.
type MemoListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryCount is one row of the per-category stats.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}
