// Package alloc models the process-wide allocator hook a host application
// may install to control where this module's key and scratch buffers come
// from. It has no bearing on correctness; embedders that never call
// Configure get the default, make()-backed behavior.
package alloc

import (
	"errors"
	"sync/atomic"
)

// ErrAlreadyLocked is returned by Configure once any Token has been
// constructed: the hook triple is process-wide state, fixed at
// initialization. Changing it mid-lifetime is refused outright instead of
// accepting a silently-partial reconfiguration.
var ErrAlreadyLocked = errors.New("alloc: hooks already locked")

// Hooks is the {malloc, realloc, free} triple. Alloc must return a slice
// of exactly size len, zeroed. Realloc must return a slice of exactly size
// len, preserving the overlapping prefix of buf. Free releases buf; it may
// be a no-op under garbage collection.
type Hooks struct {
	Alloc   func(size int) []byte
	Realloc func(buf []byte, size int) []byte
	Free    func(buf []byte)
}

var defaultHooks = Hooks{
	Alloc: func(size int) []byte {
		return make([]byte, size)
	},
	Realloc: func(buf []byte, size int) []byte {
		grown := make([]byte, size)
		copy(grown, buf)
		return grown
	},
	Free: func(buf []byte) {},
}

var (
	current = defaultHooks
	locked  atomic.Bool
)

// Configure installs h as the process-wide allocator hooks. All three
// fields must be non-nil, or none: a partially specified triple is
// rejected, and an empty triple restores the default hooks. Configure
// must be called before any Token is constructed;
// Lock is called by jwt.New on first use, after which Configure fails with
// ErrAlreadyLocked.
func Configure(h Hooks) error {
	if locked.Load() {
		return ErrAlreadyLocked
	}
	if h.Alloc == nil && h.Realloc == nil && h.Free == nil {
		current = defaultHooks
		return nil
	}
	if h.Alloc == nil || h.Realloc == nil || h.Free == nil {
		return errors.New("alloc: all three hooks must be set, or none")
	}
	current = h
	return nil
}

// Get returns the currently installed hooks.
func Get() Hooks {
	return current
}

// Lock freezes the current hooks against further Configure calls. Package
// jwt calls this from New so that the first Token constructed in a process
// pins the allocator for the remainder of its lifetime.
func Lock() {
	locked.Store(true)
}
