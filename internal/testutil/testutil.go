// Package testutil provides shared test helpers for setting up memo stores.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/soren/memora/internal/store"
)

// TestDB creates a temporary SQLite memo store that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "memora-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// FakeSummarizer is a canned Summarizer for handler and service tests.
type FakeSummarizer struct {
	Summary string
	Err     error
	Calls   int
}

func (f *FakeSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	f.Calls++
	if f.Err != nil {
		return "", f.Err
	}
	return f.Summary, nil
}
