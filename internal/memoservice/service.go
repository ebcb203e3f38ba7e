// Package memoservice implements the memo domain logic on top of the store
// and the summarization provider.
package memoservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/soren/memora/internal/apperr"
	"github.com/soren/memora/internal/checksum"
	"github.com/soren/memora/internal/models"
	"github.com/soren/memora/internal/store"
	"github.com/soren/memora/internal/summarizer"
	"github.com/soren/memora/internal/tags"
)

// EventFunc is called after each successful mutation.
// kind is one of "created", "updated", "deleted".
type EventFunc func(kind, id string)

// Service coordinates store and summarizer operations.
type Service struct {
	db     store.MemoStore
	sum    summarizer.Summarizer
	events EventFunc
}

// NewService creates a new memo service. events may be nil.
func NewService(db store.MemoStore, sum summarizer.Summarizer, events EventFunc) *Service {
	return &Service{db: db, sum: sum, events: events}
}

// CreateMemoInput is the input for creating a memo.
type CreateMemoInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// Validate checks required fields and the fixed category set.
func (in CreateMemoInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Category, validation.Required, validation.In(models.CategoryValues()...)),
	)
}

// UpdateMemoInput is the input for updating a memo. All fields are replaced.
type UpdateMemoInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// Validate checks required fields and the fixed category set.
func (in UpdateMemoInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Category, validation.Required, validation.In(models.CategoryValues()...)),
	)
}

// CreateMemo validates input, merges inline hashtags into the tag set, and
// stores a new memo.
func (s *Service) CreateMemo(_ context.Context, in CreateMemoInput) (*models.Memo, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err)
	}
	now := time.Now().UTC()
	m := models.Memo{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Category:  models.Category(in.Category),
		Tags:      tags.Merge(in.Tags, in.Content),
		Checksum:  checksum.Sum([]byte(in.Content)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Insert(m); err != nil {
		return nil, err
	}
	s.publish("created", m.ID)
	return &m, nil
}

// GetMemo returns a single memo by id.
func (s *Service) GetMemo(_ context.Context, id string) (*models.Memo, error) {
	return s.db.Get(id)
}

// UpdateMemo replaces a memo's fields with optimistic concurrency: when
// ifMatch is non-empty it must equal the stored content checksum.
func (s *Service) UpdateMemo(_ context.Context, id string, in UpdateMemoInput, ifMatch string) (*models.Memo, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err)
	}
	existing, err := s.db.Get(id)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && ifMatch != existing.Checksum {
		return nil, apperr.ErrConflict
	}
	m := models.Memo{
		ID:        id,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Category:  models.Category(in.Category),
		Tags:      tags.Merge(in.Tags, in.Content),
		Checksum:  checksum.Sum([]byte(in.Content)),
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.db.Update(m); err != nil {
		return nil, err
	}
	s.publish("updated", id)
	return &m, nil
}

// DeleteMemo removes a memo permanently.
func (s *Service) DeleteMemo(_ context.Context, id string) error {
	if err := s.db.Delete(id); err != nil {
		return err
	}
	s.publish("deleted", id)
	return nil
}

// ListMemos returns paginated memos with optional category/tag filters.
func (s *Service) ListMemos(_ context.Context, opts store.ListOptions) ([]models.MemoListItem, int, error) {
	return s.db.List(opts)
}

// Search delegates full-text search to the store.
func (s *Service) Search(_ context.Context, query string, limit int) ([]store.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Stats returns memo counts per category.
func (s *Service) Stats(_ context.Context) ([]models.CategoryCount, error) {
	return s.db.Stats()
}

// Summarize produces an ephemeral summary of the given content. The result is
// never persisted.
func (s *Service) Summarize(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: content is required", apperr.ErrInvalidInput)
	}
	return s.sum.Summarize(ctx, content)
}

func (s *Service) publish(kind, id string) {
	if s.events != nil {
		s.events(kind, id)
	}
}
