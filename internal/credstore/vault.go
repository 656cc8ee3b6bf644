package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/tobischo/gokeepasslib/v3"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/kdbx"
)

const (
	// CustomDataKeyServerURL holds the server URL in the KDBX metadata.
	CustomDataKeyServerURL = "GFGMServerURL"
	// CustomDataKeySession holds the JSON-encoded session record.
	CustomDataKeySession = "GFGMSession" //nolint:gosec // key name, not a secret

	vaultRootGroup = "GFGM"
)

// ErrVaultPassword is returned when the vault cannot be decrypted.
var ErrVaultPassword = errors.New("vault password is wrong or the file is corrupt")

// Vault keeps the session record inside a password-protected KDBX file.
// The record lives in the database metadata custom data, so the file stays
// a valid KeePass database that other tools can open. Like File, it holds
// mu against callers in this process and a flock against other processes.
type Vault struct {
	path     string
	password string
	mu       sync.Mutex
	lock     *flock.Flock
}

// NewVault returns a KDBX-backed store. The file is created on first Set.
func NewVault(path, password string) (*Vault, error) {
	if password == "" {
		return nil, errors.New("vault password must not be empty")
	}
	return &Vault{
		path:     path,
		password: password,
		lock:     flock.New(path + ".lock"),
	}, nil
}

func (v *Vault) withLock(fn func() error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(v.path), dirPerm); err != nil {
		return fmt.Errorf("create vault directory: %w", err)
	}
	if err := v.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", v.lock.Path(), err)
	}
	defer func() {
		if err := v.lock.Unlock(); err != nil {
			slog.Error("Failed to release vault lock", "lockPath", v.lock.Path(), "error", err)
		}
	}()
	return fn()
}

func (v *Vault) Get() (*Record, error) {
	var rec *Record
	err := v.withLock(func() error {
		db, err := v.open()
		if err != nil {
			return err
		}
		rec, err = loadRecord(db)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (v *Vault) Set(rec *Record) error {
	if rec == nil {
		return v.Clear()
	}
	return v.withLock(func() error {
		db, err := v.open()
		if errors.Is(err, ErrNoRecord) {
			db = kdbx.NewDatabase(v.password, "GFGM", vaultRootGroup)
		} else if err != nil {
			return err
		}
		if err = saveRecord(db, rec); err != nil {
			return err
		}
		return v.save(db)
	})
}

func (v *Vault) Clear() error {
	return v.withLock(func() error {
		db, err := v.open()
		if errors.Is(err, ErrNoRecord) {
			return nil
		}
		if err != nil {
			return err
		}
		if err = saveRecord(db, nil); err != nil {
			return err
		}
		return v.save(db)
	})
}

// open decodes the vault file. A missing file maps to ErrNoRecord.
func (v *Vault) open() (*gokeepasslib.Database, error) {
	db, err := kdbx.OpenFile(v.path, v.password)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, ErrNoRecord
	case errors.Is(err, kdbx.ErrBadCredentials):
		return nil, fmt.Errorf("%w: %s", ErrVaultPassword, v.path)
	case err != nil:
		return nil, fmt.Errorf("open vault: %w", err)
	}
	return db, nil
}

func (v *Vault) save(db *gokeepasslib.Database) error {
	if err := kdbx.SaveFile(db, v.path, filePerm); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}
	slog.Debug("Vault saved", "path", v.path)
	return nil
}

// loadRecord extracts the session record from the metadata custom data.
func loadRecord(db *gokeepasslib.Database) (*Record, error) {
	raw, _ := kdbx.CustomValue(db, CustomDataKeySession)
	if raw == "" {
		return nil, ErrNoRecord
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode vault session: %w", err)
	}
	if rec.ServerURL == "" {
		rec.ServerURL, _ = kdbx.CustomValue(db, CustomDataKeyServerURL)
	}
	return &rec, nil
}

// saveRecord writes rec into the metadata custom data; nil removes it.
// The root group modification time is bumped only on a real change.
func saveRecord(db *gokeepasslib.Database, rec *Record) error {
	var changes []bool
	track := func(changed bool, err error) error {
		changes = append(changes, changed)
		return err
	}

	if rec == nil {
		if err := track(kdbx.RemoveCustomValue(db, CustomDataKeySession)); err != nil {
			return err
		}
		if err := track(kdbx.RemoveCustomValue(db, CustomDataKeyServerURL)); err != nil {
			return err
		}
	} else {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode vault session: %w", err)
		}
		if err = track(kdbx.SetCustomValue(db, CustomDataKeySession, string(data))); err != nil {
			return err
		}
		if rec.ServerURL != "" {
			err = track(kdbx.SetCustomValue(db, CustomDataKeyServerURL, rec.ServerURL))
		} else {
			err = track(kdbx.RemoveCustomValue(db, CustomDataKeyServerURL))
		}
		if err != nil {
			return err
		}
	}

	if slices.Contains(changes, true) {
		kdbx.TouchRoot(db, time.Now())
	}
	return nil
}
