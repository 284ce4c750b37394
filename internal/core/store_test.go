package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tesim/internal/state"
)

func testRun(id string, created time.Time) state.RunRecord {
	return state.RunRecord{
		ID:        id,
		Kind:      state.RunScenario,
		Name:      "collision",
		CreatedAt: created,
		Passed:    true,
		Engines: []state.EngineResult{
			{Engine: "contiguous", Size: 10, Steps: 4, FinalLength: 15, ActiveTEs: []int{2}},
		},
	}
}

// exerciseRunStore checks the RunStore contract against any implementation.
func exerciseRunStore(t *testing.T, store RunStore) {
	t.Helper()
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	later := testRun("b-222", base.Add(time.Hour))
	earlier := testRun("a-111", base)
	for _, r := range []state.RunRecord{later, earlier} {
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save(%s): %v", r.ID, err)
		}
	}

	runs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "a-111" || runs[1].ID != "b-222" {
		t.Fatalf("List() = %+v, want a-111 then b-222", runs)
	}

	got, ok, err := store.Get(ctx, "a-111")
	if err != nil || !ok {
		t.Fatalf("Get(a-111) = %v, %v", ok, err)
	}
	if got.Name != "collision" || !got.CreatedAt.Equal(base) || len(got.Engines) != 1 || got.Engines[0].FinalLength != 15 {
		t.Errorf("Get(a-111) = %+v", got)
	}

	earlier.Passed = false
	earlier.Notes = []string{"rerun"}
	if err := store.Save(ctx, earlier); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	got, _, _ = store.Get(ctx, "a-111")
	if got.Passed || len(got.Notes) != 1 {
		t.Errorf("update not stored: %+v", got)
	}
	if runs, _ := store.List(ctx); len(runs) != 2 {
		t.Errorf("update duplicated the run: %d runs", len(runs))
	}

	if err := store.Delete(ctx, "b-222"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "b-222"); ok {
		t.Error("deleted run still present")
	}
	if _, ok, err := store.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v", ok, err)
	}
}

func TestInMemoryRunStore(t *testing.T) {
	exerciseRunStore(t, NewInMemoryRunStore())
}

func TestInMemoryRunStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRunStore()
	run := testRun("id", time.Now())
	if err := store.Save(ctx, run); err != nil {
		t.Fatal(err)
	}
	run.Engines[0].ActiveTEs[0] = 99
	got, _, _ := store.Get(ctx, "id")
	if got.Engines[0].ActiveTEs[0] != 2 {
		t.Fatal("store shares memory with the caller")
	}
}

func TestFileRunStore(t *testing.T) {
	exerciseRunStore(t, NewFileRunStore(filepath.Join(t.TempDir(), "runs.json")))
}

func TestFileRunStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.json")
	if err := NewFileRunStore(path).Save(ctx, testRun("persisted", time.Now())); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := NewFileRunStore(path).Get(ctx, "persisted"); !ok || err != nil {
		t.Fatalf("Get after reopen = %v, %v", ok, err)
	}
}

func TestFindRun(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRunStore()
	now := time.Now()
	for _, id := range []string{"abc-1", "abd-2", "xyz-3"} {
		if err := store.Save(ctx, testRun(id, now)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		query   string
		wantID  string
		wantErr error
	}{
		{"xyz-3", "xyz-3", nil},
		{"abc", "abc-1", nil},
		{"ab", "", ErrAmbiguousRun},
		{"nope", "", ErrRunNotFound},
		{"", "", ErrRunNotFound},
	}
	for _, tt := range tests {
		run, err := FindRun(ctx, store, tt.query)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FindRun(%q) err = %v, want %v", tt.query, err, tt.wantErr)
			}
			continue
		}
		if err != nil || run.ID != tt.wantID {
			t.Errorf("FindRun(%q) = %s, %v, want %s", tt.query, run.ID, err, tt.wantID)
		}
	}
}

func TestNewRunStore(t *testing.T) {
	dir := t.TempDir()
	if s, err := NewRunStore("memory", ""); err != nil {
		t.Errorf("memory: %v", err)
	} else if _, ok := s.(*InMemoryRunStore); !ok {
		t.Errorf("memory: got %T", s)
	}
	s, err := NewRunStore("file", filepath.Join(dir, "r.json"))
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if fs, ok := s.(*FileRunStore); !ok || fs.File != filepath.Join(dir, "r.json") {
		t.Errorf("file: got %#v", s)
	}
	s, err = NewRunStore("", "")
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if fs, ok := s.(*FileRunStore); !ok || fs.File != DefaultRunFile {
		t.Errorf("default: got %#v", s)
	}
	if _, err := NewRunStore("postgres", ""); err == nil {
		t.Error("expected an error for an unknown store")
	}
	if err := CloseIfSupported(NewInMemoryRunStore()); err != nil {
		t.Errorf("CloseIfSupported(memory) = %v", err)
	}
}
