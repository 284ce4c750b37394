package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"tesim/internal/state"
)

// ErrRunNotFound is returned when no stored run matches an id or prefix.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when an id prefix matches more than one run.
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

// RunStore keeps run reports. Genome state itself is never persisted.
type RunStore interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, run state.RunRecord) error
	Get(ctx context.Context, id string) (state.RunRecord, bool, error)
	// List returns every run, oldest first.
	List(ctx context.Context) ([]state.RunRecord, error)
	Delete(ctx context.Context, id string) error
}

// NewRunStore builds the store named by kind. path is the JSON file for the
// file store and the database for the sqlite store.
func NewRunStore(kind, path string) (RunStore, error) {
	switch kind {
	case "memory":
		return NewInMemoryRunStore(), nil
	case "", "file":
		if path == "" {
			path = DefaultRunFile
		}
		return NewFileRunStore(path), nil
	case "sqlite":
		if path == "" {
			path = DefaultRunDB
		}
		return newSQLiteRunStore(path)
	default:
		return nil, fmt.Errorf("unsupported run store: %s", kind)
	}
}

// CloseIfSupported closes stores that hold resources.
func CloseIfSupported(store RunStore) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}

// FindRun looks a run up by full id, falling back to a unique id prefix.
func FindRun(ctx context.Context, store RunStore, idOrPrefix string) (state.RunRecord, error) {
	run, ok, err := store.Get(ctx, idOrPrefix)
	if err != nil {
		return state.RunRecord{}, err
	}
	if ok {
		return run, nil
	}
	runs, err := store.List(ctx)
	if err != nil {
		return state.RunRecord{}, err
	}
	var found []state.RunRecord
	for _, r := range runs {
		if idOrPrefix != "" && strings.HasPrefix(r.ID, idOrPrefix) {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return state.RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return found[0], nil
	default:
		return state.RunRecord{}, fmt.Errorf("%w: %s matches %d runs", ErrAmbiguousRun, idOrPrefix, len(found))
	}
}

const (
	DefaultRunFile = ".tesim_runs.json"
	DefaultRunDB   = ".tesim_runs.db"
)

// FileRunStore keeps all runs in one JSON file.
type FileRunStore struct {
	File string

	mu sync.Mutex
}

func NewFileRunStore(file string) *FileRunStore {
	return &FileRunStore{File: file}
}

func (fs *FileRunStore) Init(_ context.Context) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, err := fs.load()
	return err
}

func (fs *FileRunStore) Save(_ context.Context, run state.RunRecord) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	runs, err := fs.load()
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(runs, func(r state.RunRecord) bool { return r.ID == run.ID }); i >= 0 {
		runs[i] = run
	} else {
		runs = append(runs, run)
	}
	return fs.store(runs)
}

func (fs *FileRunStore) Get(_ context.Context, id string) (state.RunRecord, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	runs, err := fs.load()
	if err != nil {
		return state.RunRecord{}, false, err
	}
	for _, r := range runs {
		if r.ID == id {
			return r, true, nil
		}
	}
	return state.RunRecord{}, false, nil
}

func (fs *FileRunStore) List(_ context.Context) ([]state.RunRecord, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	runs, err := fs.load()
	if err != nil {
		return nil, err
	}
	sortRuns(runs)
	return runs, nil
}

func (fs *FileRunStore) Delete(_ context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	runs, err := fs.load()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(runs, func(r state.RunRecord) bool { return r.ID == id })
	return fs.store(kept)
}

// load reads the file; a missing or empty file is an empty store.
func (fs *FileRunStore) load() ([]state.RunRecord, error) {
	var runs []state.RunRecord
	f, err := os.Open(fs.File)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&runs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", fs.File, err)
	}
	return runs, nil
}

func (fs *FileRunStore) store(runs []state.RunRecord) error {
	f, err := os.Create(fs.File)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(runs)
}

// InMemoryRunStore implements RunStore without disk I/O.
type InMemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]state.RunRecord
}

func NewInMemoryRunStore() *InMemoryRunStore {
	return &InMemoryRunStore{runs: make(map[string]state.RunRecord)}
}

func (ms *InMemoryRunStore) Init(_ context.Context) error { return nil }

func (ms *InMemoryRunStore) Save(_ context.Context, run state.RunRecord) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.runs[run.ID] = copyRun(run)
	return nil
}

func (ms *InMemoryRunStore) Get(_ context.Context, id string) (state.RunRecord, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	run, ok := ms.runs[id]
	if !ok {
		return state.RunRecord{}, false, nil
	}
	return copyRun(run), true, nil
}

func (ms *InMemoryRunStore) List(_ context.Context) ([]state.RunRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	runs := make([]state.RunRecord, 0, len(ms.runs))
	for _, r := range ms.runs {
		runs = append(runs, copyRun(r))
	}
	sortRuns(runs)
	return runs, nil
}

func (ms *InMemoryRunStore) Delete(_ context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.runs, id)
	return nil
}

// copyRun returns a copy that shares no slices with run.
func copyRun(run state.RunRecord) state.RunRecord {
	out := run
	out.Notes = slices.Clone(run.Notes)
	out.Engines = slices.Clone(run.Engines)
	for i := range out.Engines {
		out.Engines[i].ActiveTEs = slices.Clone(out.Engines[i].ActiveTEs)
	}
	return out
}

func sortRuns(runs []state.RunRecord) {
	slices.SortStableFunc(runs, func(a, b state.RunRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
