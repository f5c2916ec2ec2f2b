// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package nativebridge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"unsafe"
)

const helloFromCpp = "Hello from C++"

var jniHello = JNISymbol("com.example.my.androidstudiojavagradle.MainActivity", "stringFromJNI")

type nativeFunc func(args ...uintptr) uintptr

// fakeLinker stands in for the dynamic linker. Libraries are keyed by file
// name, symbol addresses index into fns.
type fakeLinker struct {
	mu      sync.Mutex
	exports map[string]map[string]nativeFunc
	handles map[uintptr]string
	fns     []nativeFunc
	opens   int
	calls   int
}

func newFakeLinker() *fakeLinker {
	return &fakeLinker{
		exports: make(map[string]map[string]nativeFunc),
		handles: make(map[uintptr]string),
	}
}

func (l *fakeLinker) export(file, symbol string, fn nativeFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.exports[file] == nil {
		l.exports[file] = make(map[string]nativeFunc)
	}
	l.exports[file][symbol] = fn
}

func (l *fakeLinker) Open(path string) (uintptr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	file := filepath.Base(path)
	if _, ok := l.exports[file]; !ok {
		return 0, errors.New("invalid ELF header")
	}
	l.opens++
	h := uintptr(len(l.handles) + 1)
	l.handles[h] = file
	return h, nil
}

func (l *fakeLinker) Lookup(handle uintptr, symbol string) (uintptr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn, ok := l.exports[l.handles[handle]][symbol]
	if !ok {
		return 0, fmt.Errorf("undefined symbol: %s", symbol)
	}
	l.fns = append(l.fns, fn)
	return uintptr(len(l.fns)), nil
}

func (l *fakeLinker) Call(fn uintptr, args ...uintptr) uintptr {
	l.mu.Lock()
	l.calls++
	f := l.fns[fn-1]
	l.mu.Unlock()
	return f(args...)
}

func (l *fakeLinker) openCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opens
}

func (l *fakeLinker) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// staticString returns a native function returning a fixed C string.
func staticString(s string) nativeFunc {
	buf := append([]byte(s), 0)
	return func(...uintptr) uintptr {
		return uintptr(unsafe.Pointer(&buf[0]))
	}
}

// heapStrings hands out fresh C strings and tracks which are still live.
type heapStrings struct {
	mu    sync.Mutex
	live  map[uintptr][]byte
	freed int
}

func newHeapStrings() *heapStrings {
	return &heapStrings{live: make(map[uintptr][]byte)}
}

func (h *heapStrings) alloc(s string) nativeFunc {
	return func(...uintptr) uintptr {
		buf := append([]byte(s), 0)
		p := uintptr(unsafe.Pointer(&buf[0]))
		h.mu.Lock()
		h.live[p] = buf
		h.mu.Unlock()
		return p
	}
}

func (h *heapStrings) free(args ...uintptr) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.live[args[0]]; ok {
		delete(h.live, args[0])
		h.freed++
	}
	return 0
}

// nativeLib sets up a fake native_lib exporting the JNI hello function and
// returns the linker plus a directory containing the library file.
func nativeLib(t *testing.T) (*fakeLinker, string) {
	t.Helper()
	dir := t.TempDir()
	writeLib(t, dir, "native_lib")
	l := newFakeLinker()
	l.export(MapLibraryName("native_lib"), jniHello, staticString(helloFromCpp))
	return l, dir
}

func writeLib(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, MapLibraryName(name))
	if err := os.WriteFile(p, []byte("not really a library"), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func newTestRegistry(t *testing.T, l Linker, searchPaths ...string) *Registry {
	t.Helper()
	t.Setenv(EnvLibraryPath, "")
	return NewRegistry(&Options{
		BaseDir:     t.TempDir(),
		SearchPaths: searchPaths,
		CacheDir:    t.TempDir(),
		Linker:      l,
	})
}
