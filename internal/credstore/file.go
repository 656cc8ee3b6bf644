package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

const (
	filePerm = 0o600
	dirPerm  = 0o700
)

// File stores the record as JSON on disk. Reads and writes hold mu, which
// serializes callers inside the process, and an exclusive flock on
// "<path>.lock", which serializes clients sharing one home directory.
type File struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFile returns a file-backed store at path. The file is created lazily.
func NewFile(path string) *File {
	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

func (f *File) withLock(fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), dirPerm); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", f.lock.Path(), err)
	}
	defer func() {
		if err := f.lock.Unlock(); err != nil {
			slog.Error("Failed to release store lock", "lockPath", f.lock.Path(), "error", err)
		}
	}()
	return fn()
}

func (f *File) Get() (*Record, error) {
	var rec Record
	err := f.withLock(func() error {
		data, err := os.ReadFile(f.path)
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoRecord
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", f.path, err)
		}
		if len(data) == 0 {
			return ErrNoRecord
		}
		if err = json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decode %s: %w", f.path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (f *File) Set(rec *Record) error {
	if rec == nil {
		return f.Clear()
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	return f.withLock(func() error {
		// Write-then-rename: readers see the old record or the new one.
		tmp := f.path + ".tmp"
		if err := os.WriteFile(tmp, data, filePerm); err != nil {
			return fmt.Errorf("write %s: %w", tmp, err)
		}
		if err := os.Rename(tmp, f.path); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("replace %s: %w", f.path, err)
		}
		slog.Debug("Session record saved", "path", f.path)
		return nil
	})
}

func (f *File) Clear() error {
	return f.withLock(func() error {
		err := os.Remove(f.path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", f.path, err)
		}
		slog.Debug("Session record cleared", "path", f.path)
		return nil
	})
}
