package api

import (
	"github.com/soren/memora/internal/memoservice"
	"github.com/soren/memora/internal/models"
	"github.com/soren/memora/internal/store"
)

// CreateMemoRequest is the request body for creating a memo (aliased from the
// domain layer, which owns validation).
type CreateMemoRequest = memoservice.CreateMemoInput

// UpdateMemoRequest is the request body for updating a memo.
type UpdateMemoRequest = memoservice.UpdateMemoInput

// MemoDetail is the full memo response type.
type MemoDetail = models.Memo

// MemoListResponse wraps paginated memo listings.
type MemoListResponse struct {
	Memos []models.MemoListItem `json:"memos" validate:"required"`
	Total int                   `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []store.SearchResult `json:"results" validate:"required"`
}

// StatsResponse wraps per-category memo counts.
type StatsResponse struct {
	Categories []models.CategoryCount `json:"categories" validate:"required"`
	Total      int                    `json:"total" example:"42" validate:"required"`
}

// SummarizeRequest is the request body for POST /summarize.
type SummarizeRequest struct {
	Content string `json:"content" example:"Long memo text..." validate:"required"`
}

// SummarizeResponse carries the ephemeral AI-generated summary.
type SummarizeResponse struct {
	Summary string `json:"summary" example:"A short digest." validate:"required"`
}
