package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Skryldev/image-acquire/core"
	apperrors "github.com/Skryldev/image-acquire/errors"
)

// Memory is an in-process core.Storage used by tests and examples, and by
// hosts that proxy resources through their own content layer.  Safe for
// concurrent use.
type Memory struct {
	mu      sync.Mutex
	objects map[core.Locator]*bytes.Buffer
	seq     int

	// FailAllocations makes Allocate report ErrStorageUnavailable, simulating
	// a missing or read-only media store.
	FailAllocations bool
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[core.Locator]*bytes.Buffer)}
}

// Seed stores data under the given locator, for test setup.
func (m *Memory) Seed(loc core.Locator, data []byte) {
	m.mu.Lock()
	m.objects[loc] = bytes.NewBuffer(data)
	m.mu.Unlock()
}

func (m *Memory) Allocate(ctx context.Context, displayName, mimeType string) (core.Locator, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.Wrap(apperrors.CategoryStorage, "memory.allocate", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAllocations {
		return "", apperrors.New(apperrors.CategoryStorage, "memory.allocate", apperrors.ErrStorageUnavailable)
	}
	m.seq++
	loc := core.Locator(fmt.Sprintf("mem://pictures/%d/%s", m.seq, displayName))
	m.objects[loc] = &bytes.Buffer{}
	return loc, nil
}

func (m *Memory) Open(ctx context.Context, loc core.Locator) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryStorage, "memory.open", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	buf, ok := m.objects[loc]
	if !ok {
		return nil, apperrors.New(apperrors.CategoryStorage, "memory.open",
			fmt.Errorf("locator not found: %s", loc))
	}
	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}

func (m *Memory) CreateEphemeral(ctx context.Context, name string) (core.Locator, io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, apperrors.Wrap(apperrors.CategoryStorage, "memory.ephemeral", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	loc := core.Locator(fmt.Sprintf("mem://cache/%d/%s", m.seq, name))
	buf := &bytes.Buffer{}
	m.objects[loc] = buf
	return loc, nopWriteCloser{buf}, nil
}

func (m *Memory) RemoveEphemeral(ctx context.Context, loc core.Locator) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "memory.remove", err)
	}
	if !strings.HasPrefix(string(loc), "mem://cache/") {
		return apperrors.New(apperrors.CategoryStorage, "memory.remove", apperrors.ErrNotEphemeral)
	}
	m.mu.Lock()
	delete(m.objects, loc)
	m.mu.Unlock()
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
