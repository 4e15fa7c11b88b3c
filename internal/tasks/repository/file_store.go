package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/tasks/domain"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileStore keeps every task in one JSON document. Reads are served from
// memory; each write rewrites the whole file.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	tasks []domain.Task
	log   *zap.Logger
}

// NewFileStore loads path, creating it with an empty list when missing.
func NewFileStore(path string, log *zap.Logger) (*FileStore, error) {
	s := &FileStore{path: path, log: log}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create task dir: %w", err)
		}
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		s.tasks = []domain.Task{}
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		return s, nil
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Path() string {
	return s.path
}

// Reload replaces the in-memory copy with the file contents. The file is
// read under the write lock so a reload cannot interleave with a save.
func (s *FileStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.tasks = []domain.Task{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read tasks: %w", err)
	}

	tasks := []domain.Task{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &tasks); err != nil {
			return fmt.Errorf("decode tasks: %w", err)
		}
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	s.tasks = tasks
	return nil
}

func (s *FileStore) List(_ context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *FileStore) Get(_ context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		t := s.tasks[i]
		return &t, nil
	}
	return nil, domain.ErrTaskNotFound
}

// Create appends t. A numeric ID that is already taken is bumped by one
// until it is free.
func (s *FileStore) Create(_ context.Context, t domain.Task) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.indexLocked(t.ID) >= 0 {
		n, err := strconv.ParseInt(t.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("task id %q already exists", t.ID)
		}
		t.ID = strconv.FormatInt(n+1, 10)
	}

	s.tasks = append(s.tasks, t)
	if err := s.persistLocked(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return nil, err
	}
	return &t, nil
}

// Update applies fn to the stored task and persists the result. Returning
// an error from fn leaves the store untouched.
func (s *FileStore) Update(_ context.Context, id string, fn func(*domain.Task) error) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, domain.ErrTaskNotFound
	}

	prev := s.tasks[i]
	next := prev
	if err := fn(&next); err != nil {
		return nil, err
	}

	s.tasks[i] = next
	if err := s.persistLocked(); err != nil {
		s.tasks[i] = prev
		return nil, err
	}
	return &next, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return domain.ErrTaskNotFound
	}

	prev := s.tasks
	next := make([]domain.Task, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)

	s.tasks = next
	if err := s.persistLocked(); err != nil {
		s.tasks = prev
		return err
	}
	return nil
}

func (s *FileStore) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes to a temp file in the same directory and renames it
// over the target so readers never see a partial document.
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace tasks file: %w", err)
	}
	return nil
}

// Watch reloads the store whenever the file is changed from outside the
// process. It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file because a rename
// replaces the inode and would drop a file-level watch.
func (s *FileStore) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.log.Warn("task file reload failed", zap.String("path", s.path), zap.Error(err))
				continue
			}
			s.log.Debug("task file reloaded", zap.String("op", ev.Op.String()))

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("task file watcher error", zap.Error(err))
		}
	}
}
