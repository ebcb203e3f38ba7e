package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soren/memora/internal/memoservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *memoservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Memos CRUD.
	r.Get("/memos", h.ListMemos)
	r.Post("/memos", h.CreateMemo)
	r.Get("/memos/{id}", h.GetMemo)
	r.Put("/memos/{id}", h.UpdateMemo)
	r.Delete("/memos/{id}", h.DeleteMemo)

	// Search and stats.
	r.Get("/search", h.Search)
	r.Get("/stats", h.Stats)

	// AI summarization.
	r.Post("/summarize", h.Summarize)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
