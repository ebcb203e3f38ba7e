package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/soren/memora/internal/apperr"
	"github.com/soren/memora/internal/memoservice"
	"github.com/soren/memora/internal/store"
	"github.com/soren/memora/internal/summarizer"
)

const maxBodyBytes = 1 << 20 // 1 MB; memos are short

// Handler holds API route handlers.
type Handler struct {
	svc *memoservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *memoservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListMemos handles GET /api/memos.
//
//	@Summary		List memos with optional pagination and filtering
//	@Tags			memos
//	@Produce		json
//	@Param			limit		query		int		false	"Page size"
//	@Param			offset		query		int		false	"Page offset"
//	@Param			category	query		string	false	"Filter by category"	Enums(personal, work, study, idea, other)
//	@Param			tag			query		string	false	"Filter by tag"
//	@Param			sort		query		string	false	"Sort field"	Enums(updated_at, created_at, title)
//	@Success		200			{object}	MemoListResponse
//	@Security		BearerAuth
//	@Router			/memos [get]
func (h *Handler) ListMemos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListMemos(r.Context(), store.ListOptions{
		Limit:    limit,
		Offset:   offset,
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("list memos failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, MemoListResponse{Memos: items, Total: total})
}

// GetMemo handles GET /api/memos/{id}.
//
//	@Summary		Get a single memo by id
//	@Tags			memos
//	@Produce		json
//	@Param			id	path		string	true	"Memo id"
//	@Success		200	{object}	MemoDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memos/{id} [get]
func (h *Handler) GetMemo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	memo, err := h.svc.GetMemo(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get memo failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, memo)
}

// CreateMemo handles POST /api/memos.
//
//	@Summary		Create a new memo
//	@Tags			memos
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateMemoRequest	true	"Memo to create"
//	@Success		201		{object}	MemoDetail
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memos [post]
func (h *Handler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CreateMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	memo, err := h.svc.CreateMemo(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("create memo failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, memo)
}

// UpdateMemo handles PUT /api/memos/{id}.
//
//	@Summary		Update a memo with optimistic concurrency
//	@Tags			memos
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string				true	"Memo id"
//	@Param			If-Match	header	string				false	"Content checksum for optimistic concurrency"
//	@Param			body		body	UpdateMemoRequest	true	"Updated memo"
//	@Success		200			{object}	MemoDetail
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memos/{id} [put]
func (h *Handler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	id := chi.URLParam(r, "id")

	var req UpdateMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	ifMatch := r.Header.Get("If-Match")
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch = strings.Trim(ifMatch, `"`)

	memo, err := h.svc.UpdateMemo(r.Context(), id, req, ifMatch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
		default:
			slog.Error("update memo failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, memo)
}

// DeleteMemo handles DELETE /api/memos/{id}.
//
//	@Summary		Delete a memo
//	@Tags			memos
//	@Param			id	path	string	true	"Memo id"
//	@Success		204	"Memo deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/memos/{id} [delete]
func (h *Handler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteMemo(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete memo failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across memos
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if results == nil {
		results = []store.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Stats handles GET /api/stats.
//
//	@Summary		Memo counts per category
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	StatsResponse
//	@Security		BearerAuth
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Stats(r.Context())
	if err != nil {
		slog.Error("stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	writeJSON(w, http.StatusOK, StatsResponse{Categories: counts, Total: total})
}

// Summarize handles POST /api/summarize.
//
//	@Summary		Generate an AI summary of memo content
//	@Tags			summarize
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SummarizeRequest	true	"Content to summarize"
//	@Success		200		{object}	SummarizeResponse
//	@Failure		400		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/summarize [post]
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	summary, err := h.svc.Summarize(r.Context(), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		case errors.Is(err, summarizer.ErrNotConfigured):
			writeJSON(w, http.StatusInternalServerError, errorBody("summarization is not configured"))
		default:
			slog.Error("summarize failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		}
		return
	}
	writeJSON(w, http.StatusOK, SummarizeResponse{Summary: summary})
}
