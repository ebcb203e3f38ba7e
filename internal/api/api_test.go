package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soren/memora/internal/memoservice"
	"github.com/soren/memora/internal/summarizer"
	"github.com/soren/memora/internal/testutil"
)

// testEnv sets up a temp SQLite store, a fake summarizer, and the API router.
// authToken="" means disabled auth mode.
func testEnv(t *testing.T, authToken string) (*testutil.FakeSummarizer, http.Handler) {
	t.Helper()
	db := testutil.TestDB(t)
	fake := &testutil.FakeSummarizer{Summary: "a short digest"}
	svc := memoservice.NewService(db, fake, nil)
	router := NewRouter(svc, authToken != "", authToken, nil)
	return fake, router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createMemo(t *testing.T, router http.Handler, title, content, category string, tags []string) MemoDetail {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/memos", map[string]any{
		"title": title, "content": content, "category": category, "tags": tags,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var memo MemoDetail
	if err := json.Unmarshal(w.Body.Bytes(), &memo); err != nil {
		t.Fatal(err)
	}
	return memo
}

func TestCreateAndGetMemo(t *testing.T) {
	_, router := testEnv(t, "")

	created := createMemo(t, router, "Groceries", "milk, eggs, bread", "personal", []string{"shopping"})
	if created.ID == "" {
		t.Fatal("created memo has no id")
	}
	if created.CreatedAt.IsZero() || !created.UpdatedAt.Equal(created.CreatedAt) {
		t.Errorf("timestamps: created=%v updated=%v", created.CreatedAt, created.UpdatedAt)
	}

	w := doJSON(t, router, http.MethodGet, "/memos/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var memo MemoDetail
	_ = json.Unmarshal(w.Body.Bytes(), &memo)
	if memo.Title != "Groceries" {
		t.Errorf("title = %q", memo.Title)
	}
	if memo.Category != "personal" {
		t.Errorf("category = %q", memo.Category)
	}
	if len(memo.Tags) != 1 || memo.Tags[0] != "shopping" {
		t.Errorf("tags = %v", memo.Tags)
	}
}

func TestCreateMemo_InvalidCategory(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/memos", map[string]any{
		"title": "x", "content": "y", "category": "errands",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid category = %d, want 400", w.Code)
	}
}

func TestCreateMemo_MissingFields(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/memos", map[string]any{
		"content": "body only", "category": "work",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing title = %d, want 400", w.Code)
	}
}

func TestCreateMemo_InlineHashtagsMerged(t *testing.T) {
	_, router := testEnv(t, "")

	memo := createMemo(t, router, "Standup", "notes #project-x and #Project-X again", "work", []string{"Meetings"})
	want := []string{"meetings", "project-x"}
	if len(memo.Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", memo.Tags, want)
	}
	for i, tag := range want {
		if memo.Tags[i] != tag {
			t.Errorf("tags[%d] = %q, want %q", i, memo.Tags[i], tag)
		}
	}
}

func TestUpdateWithOptimisticLocking(t *testing.T) {
	_, router := testEnv(t, "")

	created := createMemo(t, router, "Draft", "v1", "idea", nil)

	// Update with correct checksum.
	update := map[string]any{"title": "Draft", "content": "v2", "category": "idea"}
	body, _ := json.Marshal(update)
	req := httptest.NewRequest(http.MethodPut, "/memos/"+created.ID, bytes.NewReader(body))
	req.Header.Set("If-Match", created.Checksum)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update with correct checksum = %d, body = %s", w.Code, w.Body.String())
	}
	var updated MemoDetail
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Errorf("updated_at %v before created_at %v", updated.UpdatedAt, updated.CreatedAt)
	}

	// Update with stale checksum → 409.
	req = httptest.NewRequest(http.MethodPut, "/memos/"+created.ID, bytes.NewReader(body))
	req.Header.Set("If-Match", created.Checksum) // stale now
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("update with stale checksum = %d, want 409", w.Code)
	}
}

func TestUpdateMemo_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPut, "/memos/no-such-id", map[string]any{
		"title": "x", "content": "y", "category": "other",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing = %d, want 404", w.Code)
	}
}

func TestDeleteMemo(t *testing.T) {
	_, router := testEnv(t, "")

	created := createMemo(t, router, "Bye", "gone", "other", nil)

	w := doJSON(t, router, http.MethodDelete, "/memos/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}

	// GET should now 404.
	w = doJSON(t, router, http.MethodGet, "/memos/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}

	// Second delete should also 404.
	w = doJSON(t, router, http.MethodDelete, "/memos/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
}

func TestListMemos_CategoryFilter(t *testing.T) {
	_, router := testEnv(t, "")

	createMemo(t, router, "A", "a", "work", nil)
	createMemo(t, router, "B", "b", "work", nil)
	createMemo(t, router, "C", "c", "idea", nil)

	w := doJSON(t, router, http.MethodGet, "/memos?category=work", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp MemoListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 || len(resp.Memos) != 2 {
		t.Errorf("total = %d, len = %d, want 2", resp.Total, len(resp.Memos))
	}
}

func TestListMemos_TagFilter(t *testing.T) {
	_, router := testEnv(t, "")

	createMemo(t, router, "A", "a", "work", []string{"alpha"})
	createMemo(t, router, "B", "b", "work", []string{"beta"})

	w := doJSON(t, router, http.MethodGet, "/memos?tag=alpha", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp MemoListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Memos) != 1 || resp.Memos[0].Title != "A" {
		t.Errorf("tag filter returned %+v", resp.Memos)
	}
}

func TestListMemos_UnknownSort(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/memos?sort=bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown sort = %d, want 400", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	createMemo(t, router, "Find me", "uniquetoken here", "study", nil)

	w := doJSON(t, router, http.MethodGet, "/search?q=uniquetoken", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 {
		t.Errorf("search results = %d, want 1", len(resp.Results))
	}
}

func TestSearchMissingQuery(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("search no query = %d, want 400", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	createMemo(t, router, "A", "a", "work", nil)
	createMemo(t, router, "B", "b", "work", nil)

	w := doJSON(t, router, http.MethodGet, "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats = %d", w.Code)
	}
	var resp StatsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
	if len(resp.Categories) != 5 {
		t.Errorf("categories = %d, want all 5", len(resp.Categories))
	}
}

// Summarize endpoint tests.

func TestSummarize_Success(t *testing.T) {
	fake, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/summarize", map[string]string{"content": "long memo text"})
	if w.Code != http.StatusOK {
		t.Fatalf("summarize = %d, body = %s", w.Code, w.Body.String())
	}
	var resp SummarizeResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Summary == "" {
		t.Error("summary is empty")
	}
	if fake.Calls != 1 {
		t.Errorf("provider calls = %d, want 1", fake.Calls)
	}
}

func TestSummarize_MissingContent(t *testing.T) {
	fake, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/summarize", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("summarize no content = %d, want 400", w.Code)
	}
	var resp errResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error == "" {
		t.Error("error body is empty")
	}
	if fake.Calls != 0 {
		t.Errorf("provider calls = %d, want 0", fake.Calls)
	}
}

func TestSummarize_NotConfigured(t *testing.T) {
	db := testutil.TestDB(t)
	svc := memoservice.NewService(db, summarizer.New("", "", "", 0), nil)
	router := NewRouter(svc, false, "", nil)

	w := doJSON(t, router, http.MethodPost, "/summarize", map[string]string{"content": "text"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("summarize without credential = %d, want 500", w.Code)
	}
}

func TestSummarize_ProviderFailure(t *testing.T) {
	db := testutil.TestDB(t)
	fake := &testutil.FakeSummarizer{Err: errors.New("upstream exploded")}
	svc := memoservice.NewService(db, fake, nil)
	router := NewRouter(svc, false, "", nil)

	w := doJSON(t, router, http.MethodPost, "/summarize", map[string]string{"content": "text"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("summarize provider failure = %d, want 500", w.Code)
	}
	var resp errResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error == "" {
		t.Error("error body should carry the underlying message")
	}
}

// Auth middleware tests.

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	body, _ := json.Marshal(map[string]any{"title": "x", "content": "y", "category": "work"})
	req := httptest.NewRequest(http.MethodPost, "/memos", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Errorf("authed create = %d, want 201", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	w := doJSON(t, router, http.MethodGet, "/memos", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/memos", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/memos", nil)
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

// SSE endpoint auth tests.

func testEnvWithSSE(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()
	db := testutil.TestDB(t)
	svc := memoservice.NewService(db, &testutil.FakeSummarizer{}, nil)

	// Minimal SSE handler stub — writes headers and blocks until context done.
	sseHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})

	return NewRouter(svc, authEnabled, token, sseHandler)
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	router := testEnvWithSSE(t, true, "secret")

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router := testEnvWithSSE(t, true, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}
