// Package storage keeps the task list as a single JSON blob under one key in
// a small key-value store.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"taskdash/internal/config"
	"taskdash/internal/task"
)

var (
	ErrCorrupt        = errors.New("stored tasks are corrupt")
	ErrUnknownBackend = errors.New("unknown storage backend")

	errNullRecord = errors.New("null record")
)

// KV is the local-storage surface: string values under string keys.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Close() error
}

// Open returns the backend named by cfg.
func Open(cfg config.Storage) (KV, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.BackendFile:
		dir, err := OpenDir(cfg.Path)
		if err != nil {
			return nil, err
		}
		return dir, nil
	case config.BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

// Tasks persists a whole task list under Key.
type Tasks struct {
	KV  KV
	Key string
}

func NewTasks(kv KV, key string) *Tasks {
	if key == "" {
		key = config.DefaultStorageKey
	}
	return &Tasks{KV: kv, Key: key}
}

// Load returns the stored list, or an empty list if nothing is stored yet.
func (t *Tasks) Load() ([]task.Task, error) {
	raw, ok, err := t.KV.Get(t.Key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", t.Key, err)
	}
	if !ok {
		return []task.Task{}, nil
	}
	return Decode(raw)
}

func (t *Tasks) Save(tasks []task.Task) error {
	raw, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := t.KV.Set(t.Key, raw); err != nil {
		return fmt.Errorf("write %q: %w", t.Key, err)
	}
	return nil
}

// Encode renders tasks as a JSON array; an empty or nil list is "[]".
func Encode(tasks []task.Task) (string, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(data), nil
}

// Decode parses a JSON array of tasks. A JSON null decodes to an empty list.
// Only a blob that is not an array is corrupt. Records are read one by one:
// an unknown priority or status falls back to its default, and a record that
// cannot be read at all is dropped. Both cases are logged.
func Decode(raw string) ([]task.Task, error) {
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	tasks := make([]task.Task, 0, len(records))
	for i, rec := range records {
		t, err := decodeRecord(rec)
		if err != nil {
			slog.Warn("skipping unreadable task", "index", i, "error", err)
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

type record struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     string  `json:"dueDate"`
}

func decodeRecord(rec json.RawMessage) (task.Task, error) {
	if string(bytes.TrimSpace(rec)) == "null" {
		return task.Task{}, errNullRecord
	}
	var r record
	if err := json.Unmarshal(rec, &r); err != nil {
		return task.Task{}, err
	}
	t := task.Blank()
	t.ID = r.ID
	t.Title = r.Title
	t.Description = r.Description
	t.DueDate = r.DueDate
	if r.Priority != nil {
		if p, err := task.ParsePriority(*r.Priority); err == nil {
			t.Priority = p
		} else {
			slog.Warn("unknown priority, using default", "id", r.ID, "priority", *r.Priority)
		}
	}
	if r.Status != nil {
		if st, err := task.ParseStatus(*r.Status); err == nil {
			t.Status = st
		} else {
			slog.Warn("unknown status, using default", "id", r.ID, "status", *r.Status)
		}
	}
	return t, nil
}
