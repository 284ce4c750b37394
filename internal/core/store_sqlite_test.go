//go:build sqlite

package core

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteRunStore(t *testing.T) {
	store := NewSQLiteRunStore(filepath.Join(t.TempDir(), "runs.db"))
	t.Cleanup(func() { _ = store.Close() })
	exerciseRunStore(t, store)
}

func TestSQLiteRunStoreRequiresInit(t *testing.T) {
	store := NewSQLiteRunStore(filepath.Join(t.TempDir(), "runs.db"))
	if _, err := store.List(context.Background()); err == nil {
		t.Fatal("expected an error before Init")
	}
}

func TestSQLiteRunStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	first, err := NewRunStore("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if err := first.Save(ctx, testRun("kept", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := CloseIfSupported(first); err != nil {
		t.Fatal(err)
	}

	second := NewSQLiteRunStore(path)
	t.Cleanup(func() { _ = second.Close() })
	if err := second.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := second.Get(ctx, "kept"); !ok || err != nil {
		t.Fatalf("Get after reopen = %v, %v", ok, err)
	}
}
