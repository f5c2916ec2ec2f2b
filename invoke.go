// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package nativebridge

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// StringFunc is a native function taking no arguments and returning a
// NUL-terminated string, declared in C as
//
//	const char *Symbol(void);
//
// The result is copied into Go memory before Call returns. If Free is set,
// the native side allocated the string and the export named by Free
// (void Free(char *)) is called on it after the copy.
type StringFunc struct {
	Symbol string
	Free   string

	bound atomic.Pointer[stringBinding]
}

type stringBinding struct {
	lib  *Library
	fn   uintptr
	free uintptr
}

// Resolve binds f to its exports in lib. A missing export returns a
// *LinkError and leaves f unresolved.
func (f *StringFunc) Resolve(lib *Library) error {
	fn, err := lib.Symbol(f.Symbol)
	if err != nil {
		return err
	}
	b := &stringBinding{lib: lib, fn: fn}
	if f.Free != "" {
		if b.free, err = lib.Symbol(f.Free); err != nil {
			return err
		}
	}
	f.bound.Store(b)
	return nil
}

func (f *StringFunc) linkedTo(lib *Library) bool {
	b := f.bound.Load()
	return b != nil && b.lib == lib
}

// Call invokes the native function synchronously. It returns ErrNotLinked
// if f has not been resolved. Call is safe for concurrent use.
func (f *StringFunc) Call() (string, error) {
	b := f.bound.Load()
	if b == nil {
		return "", fmt.Errorf("%s: %w", f.Symbol, ErrNotLinked)
	}
	ptr := b.lib.linker.Call(b.fn)
	if ptr == 0 {
		return "", fmt.Errorf("%s: %w", f.Symbol, ErrNullString)
	}
	s := goString(ptr)
	if b.free != 0 {
		b.lib.linker.Call(b.free, ptr)
	}
	return s, nil
}

// goString copies a C string into a Go string.
func goString(ptr uintptr) string {
	p := unsafe.Pointer(ptr)
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}

// Func is a native function bound to the Go function type T, for example
//
//	var version = nativebridge.NewFunc[func() int32]("native_lib_version")
//
// The argument and return types of T are the contract; purego converts
// them at the boundary and the compiler checks every call site.
type Func[T any] struct {
	Symbol string

	mu     sync.RWMutex
	fn     T
	linked bool
}

// NewFunc declares a typed binding for symbol.
func NewFunc[T any](symbol string) *Func[T] {
	return &Func[T]{Symbol: symbol}
}

// Resolve binds f to its export in lib. T must be a func type purego can
// call; otherwise Resolve returns a *LinkError.
func (f *Func[T]) Resolve(lib *Library) (err error) {
	addr, err := lib.Symbol(f.Symbol)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() {
		// purego panics on signatures it cannot bind.
		if r := recover(); r != nil {
			err = &LinkError{Library: lib.name, Symbol: f.Symbol, Err: fmt.Errorf("cannot bind %T: %v", f.fn, r)}
		}
	}()
	registerFunc(&f.fn, addr)
	f.linked = true
	return nil
}

// Get returns the bound function, or ErrNotLinked before Resolve.
func (f *Func[T]) Get() (T, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.linked {
		var zero T
		return zero, fmt.Errorf("%s: %w", f.Symbol, ErrNotLinked)
	}
	return f.fn, nil
}
