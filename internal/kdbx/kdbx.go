// Package kdbx reads and writes KeePass KDBX files.
package kdbx

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tobischo/gokeepasslib/v3"
	"github.com/tobischo/gokeepasslib/v3/wrappers"
)

// ErrBadCredentials is returned when a file cannot be decrypted with the given password.
var ErrBadCredentials = errors.New("kdbx: wrong password or corrupt file")

// NewDatabase builds an empty database with a single root group.
func NewDatabase(password, generator, rootGroup string) *gokeepasslib.Database {
	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(password)
	db.Content = gokeepasslib.NewContent()
	db.Content.Meta.CustomData = []gokeepasslib.CustomData{}
	db.Content.Meta.Generator = generator

	root := gokeepasslib.NewGroup()
	root.Name = rootGroup
	db.Content.Root = &gokeepasslib.RootData{
		Groups: []gokeepasslib.Group{root},
	}
	return db
}

// OpenFile decrypts the file at filePath. A missing file yields an error
// matching os.ErrNotExist.
func OpenFile(filePath, password string) (*gokeepasslib.Database, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filePath, err)
	}
	defer file.Close()

	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(password)
	if err = gokeepasslib.NewDecoder(file).Decode(db); err != nil {
		slog.Warn("KDBX decode failed", "path", filePath, "error", err)
		return nil, fmt.Errorf("%w: %s", ErrBadCredentials, filePath)
	}
	if err = db.UnlockProtectedEntries(); err != nil {
		return nil, fmt.Errorf("unlock protected entries: %w", err)
	}
	return db, nil
}

// SaveFile encodes db next to filePath and renames it into place.
func SaveFile(db *gokeepasslib.Database, filePath string, perm os.FileMode) error {
	if db == nil {
		return errors.New("kdbx: database is nil")
	}
	if db.Credentials == nil {
		return errors.New("kdbx: database has no credentials")
	}
	if err := db.LockProtectedEntries(); err != nil {
		slog.Warn("Failed to lock protected entries before save", "error", err)
	}
	defer func() {
		if err := db.UnlockProtectedEntries(); err != nil {
			slog.Warn("Failed to unlock protected entries after save", "error", err)
		}
	}()

	tmp := filePath + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if err = gokeepasslib.NewEncoder(file).Encode(db); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", filePath, err)
	}
	if err = file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, filePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", filePath, err)
	}
	return nil
}

// CustomValue returns the metadata custom data value stored under key.
func CustomValue(db *gokeepasslib.Database, key string) (string, bool) {
	if db == nil || db.Content == nil || db.Content.Meta == nil {
		return "", false
	}
	for _, item := range db.Content.Meta.CustomData {
		if item.Key == key {
			return item.Value, true
		}
	}
	return "", false
}

// SetCustomValue stores value under key and reports whether the metadata changed.
func SetCustomValue(db *gokeepasslib.Database, key, value string) (bool, error) {
	meta, err := metadata(db)
	if err != nil {
		return false, err
	}
	for i := range meta.CustomData {
		if meta.CustomData[i].Key == key {
			if meta.CustomData[i].Value == value {
				return false, nil
			}
			meta.CustomData[i].Value = value
			return true, nil
		}
	}
	meta.CustomData = append(meta.CustomData, gokeepasslib.CustomData{Key: key, Value: value})
	return true, nil
}

// RemoveCustomValue deletes key and reports whether it was present.
func RemoveCustomValue(db *gokeepasslib.Database, key string) (bool, error) {
	meta, err := metadata(db)
	if err != nil {
		return false, err
	}
	out := make([]gokeepasslib.CustomData, 0, len(meta.CustomData))
	for _, item := range meta.CustomData {
		if item.Key != key {
			out = append(out, item)
		}
	}
	removed := len(out) != len(meta.CustomData)
	meta.CustomData = out
	return removed, nil
}

// TouchRoot bumps the modification time of the first root group.
func TouchRoot(db *gokeepasslib.Database, now time.Time) {
	if db == nil || db.Content == nil || db.Content.Root == nil || len(db.Content.Root.Groups) == 0 {
		slog.Warn("KDBX database has no root group to touch")
		return
	}
	ts := wrappers.TimeWrapper{Time: now.UTC()}
	db.Content.Root.Groups[0].Times.LastModificationTime = &ts
}

func metadata(db *gokeepasslib.Database) (*gokeepasslib.MetaData, error) {
	if db == nil || db.Content == nil || db.Content.Meta == nil {
		return nil, errors.New("kdbx: metadata is not initialized")
	}
	return db.Content.Meta, nil
}
