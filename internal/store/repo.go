package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/soren/memora/internal/apperr"
	"github.com/soren/memora/internal/models"
)

// ListOptions controls pagination, filtering, and ordering of List.
type ListOptions struct {
	Limit    int
	Offset   int
	Category string
	Tag      string
	Sort     string // "updated_at" (default), "created_at", "title"
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Insert stores a new memo and its FTS entry within a transaction.
func (db *DB) Insert(m models.Memo) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(m.Tags)
	_, err = tx.Exec(`
		INSERT INTO memos (id, title, content, category, tags, checksum, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Title, m.Content, string(m.Category), string(tagsJSON), m.Checksum, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperr.ErrAlreadyExists
		}
		return fmt.Errorf("store: insert memo: %w", err)
	}

	if err := ftsUpsert(tx, m); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns a single memo by id.
func (db *DB) Get(id string) (*models.Memo, error) {
	row := db.conn.QueryRow(`
		SELECT id, title, content, category, tags, checksum, created_at, updated_at
		FROM memos WHERE id = ?
	`, id)
	m, err := scanMemo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get memo: %w", err)
	}
	return m, nil
}

// Update replaces a memo's mutable fields and refreshes its FTS entry.
func (db *DB) Update(m models.Memo) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	tagsJSON, _ := json.Marshal(m.Tags)
	res, err := tx.Exec(`
		UPDATE memos
		SET title = ?, content = ?, category = ?, tags = ?, checksum = ?, updated_at = ?
		WHERE id = ?
	`, m.Title, m.Content, string(m.Category), string(tagsJSON), m.Checksum, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("store: update memo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}

	if err := ftsUpsert(tx, m); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a memo and its FTS entry.
func (db *DB) Delete(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`DELETE FROM memos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete memo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	ftsDelete(tx, id)
	return tx.Commit()
}

// List returns paginated memo summaries with optional category and tag filters.
func (db *DB) List(opts ListOptions) ([]models.MemoListItem, int, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	where := []string{"1=1"}
	var args []any
	if opts.Category != "" {
		where = append(where, "category = ?")
		args = append(args, opts.Category)
	}
	if opts.Tag != "" {
		// Tags are stored as a JSON array of lowercase strings.
		where = append(where, "tags LIKE ?")
		args = append(args, `%"`+strings.ToLower(opts.Tag)+`"%`)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM memos WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count memos: %w", err)
	}

	order := "updated_at DESC"
	switch opts.Sort {
	case "", "updated_at":
	case "created_at":
		order = "created_at DESC"
	case "title":
		order = "title COLLATE NOCASE ASC"
	default:
		return nil, 0, fmt.Errorf("store: %w: unknown sort %q", apperr.ErrInvalidInput, opts.Sort)
	}

	query := fmt.Sprintf(`
		SELECT id, title, category, tags, updated_at
		FROM memos WHERE %s ORDER BY %s LIMIT ? OFFSET ?
	`, cond, order)
	rows, err := db.conn.Query(query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list memos: %w", err)
	}
	defer rows.Close()

	items := []models.MemoListItem{}
	for rows.Next() {
		var it models.MemoListItem
		var tagsJSON string
		if err := rows.Scan(&it.ID, &it.Title, &it.Category, &tagsJSON, &it.UpdatedAt); err != nil {
			return nil, 0, err
		}
		it.Tags = decodeTags(tagsJSON)
		items = append(items, it)
	}
	return items, total, rows.Err()
}

// Stats returns memo counts grouped by category.
func (db *DB) Stats() ([]models.CategoryCount, error) {
	rows, err := db.conn.Query(`SELECT category, COUNT(*) FROM memos GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("store: stats: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Category]int)
	for rows.Next() {
		var c models.Category
		var n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, err
		}
		counts[c] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Emit every category, zero counts included, in display order.
	out := make([]models.CategoryCount, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		out = append(out, models.CategoryCount{Category: c, Count: counts[c]})
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemo(row rowScanner) (*models.Memo, error) {
	var m models.Memo
	var tagsJSON string
	if err := row.Scan(&m.ID, &m.Title, &m.Content, &m.Category, &tagsJSON, &m.Checksum, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Tags = decodeTags(tagsJSON)
	return &m, nil
}

func decodeTags(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
