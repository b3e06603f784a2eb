// Package storage provides core.Storage implementations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Skryldev/image-acquire/core"
	apperrors "github.com/Skryldev/image-acquire/errors"
)

// Local stores images on the local filesystem: camera captures under a
// pictures directory, compressed finalizer output under a separate cache
// directory the host may wipe at will.
type Local struct {
	picturesDir string
	cacheDir    string
	permissions os.FileMode
}

// NewLocal creates a Local storage provider.  Both directories are created
// if missing.
func NewLocal(picturesDir, cacheDir string, perm os.FileMode) (*Local, error) {
	if perm == 0 {
		perm = 0o644
	}
	for _, dir := range []string{picturesDir, cacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("local storage: mkdir %s: %w", dir, err)
		}
	}
	return &Local{picturesDir: picturesDir, cacheDir: cacheDir, permissions: perm}, nil
}

// Allocate creates a new empty writable image file under the pictures
// directory and returns its locator.  Display-name collisions get a numeric
// suffix rather than overwriting an existing capture.
func (l *Local) Allocate(ctx context.Context, displayName, mimeType string) (core.Locator, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.Wrap(apperrors.CategoryStorage, "local.allocate", err)
	}
	if displayName == "" {
		return "", apperrors.New(apperrors.CategoryStorage, "local.allocate", apperrors.ErrEmptyInput)
	}

	name := displayName + extensionFor(mimeType)
	path := filepath.Join(l.picturesDir, filepath.Clean(name))
	for i := 1; ; i++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, l.permissions)
		if err == nil {
			f.Close()
			return core.Locator(path), nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", apperrors.Wrap(apperrors.CategoryStorage, "local.allocate.open",
				fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err))
		}
		path = filepath.Join(l.picturesDir,
			fmt.Sprintf("%s_%d%s", displayName, i, extensionFor(mimeType)))
	}
}

func (l *Local) Open(ctx context.Context, loc core.Locator) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryStorage, "local.open", err)
	}
	f, err := os.Open(string(loc))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.New(apperrors.CategoryStorage, "local.open",
				fmt.Errorf("locator not found: %s", loc))
		}
		return nil, apperrors.Wrap(apperrors.CategoryStorage, "local.open", err)
	}
	return f, nil
}

func (l *Local) CreateEphemeral(ctx context.Context, name string) (core.Locator, io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, apperrors.Wrap(apperrors.CategoryStorage, "local.ephemeral", err)
	}
	path := filepath.Join(l.cacheDir, filepath.Clean(name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, l.permissions)
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.CategoryStorage, "local.ephemeral.open", err)
	}
	return core.Locator(path), f, nil
}

func (l *Local) RemoveEphemeral(ctx context.Context, loc core.Locator) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.remove", err)
	}
	// Refuse to delete anything outside the cache directory.
	rel, err := filepath.Rel(l.cacheDir, string(loc))
	if err != nil || strings.HasPrefix(rel, "..") {
		return apperrors.New(apperrors.CategoryStorage, "local.remove", apperrors.ErrNotEphemeral)
	}
	if err := os.Remove(string(loc)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.remove", err)
	}
	return nil
}

// extensionFor maps a MIME type to a filename extension.
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg", "":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return ""
}
