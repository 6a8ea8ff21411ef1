// Package storage keeps submitted files outside the database. Records hold only the returned reference.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStore persists one uploaded file and returns an opaque reference to it
type FileStore interface {
	Store(ctx context.Context, name string, content io.Reader, size int64) (string, error)
	// Delete removes the file behind a reference returned by Store. A missing file is not an error.
	Delete(ctx context.Context, ref string) error
}

var ErrForeignRef = errors.New("file reference does not belong to this store")

// objectKey builds a collision-free key that keeps the original base name readable
func objectKey(name string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
	if base == "" || base == "." || base == "_" {
		base = "file"
	}
	return now.UTC().Format("2006/01/02") + "/" + uuid.NewString() + "-" + base
}
