// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package nativebridge

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// State is the load state of a library in a Registry.
type State int32

const (
	StateUnloaded State = iota
	StateLoaded
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateLoadFailed:
		return "load-failed"
	default:
		return "unknown"
	}
}

// Linker is the dynamic linker used by a Registry. The default is the
// platform loader (dlopen/dlsym, or LoadLibraryEx/GetProcAddress on Windows).
type Linker interface {
	// Open maps the shared library at path and returns its handle.
	Open(path string) (uintptr, error)
	// Lookup returns the address of an exported symbol.
	Lookup(handle uintptr, symbol string) (uintptr, error)
	// Call invokes fn with the C calling convention and returns its first result register.
	Call(fn uintptr, args ...uintptr) uintptr
}

// Options configures a Registry. All fields are optional.
type Options struct {
	BaseDir      string      // Directory searched after SearchPaths and the environment list. Defaults to the working directory.
	SearchPaths  []string    // Directories searched first, in order.
	SystemSearch bool        // Let the dynamic linker search system paths when no candidate file is found. The file is then not format-checked; a wrong-architecture library is classified from the linker's error.
	CacheDir     string      // Where LoadFS extracts bundled libraries. Defaults to <user cache>/nativebridge.
	Linker       Linker      // Defaults to the platform dynamic linker.
	Logger       *log.Logger // Overrides the Debug logger.
	Debug        bool        // Log load activity to stderr.
}

// Registry owns the process-wide load state of native libraries. Create one
// at process initialization and pass it to the components that call into
// native code.
type Registry struct {
	baseDir      string
	searchPaths  []string
	systemSearch bool
	cacheDir     string
	linker       Linker
	log          *log.Logger

	mu   sync.Mutex
	libs map[string]*entry
}

type entry struct {
	once  sync.Once
	state atomic.Int32
	lib   *Library
	err   error
}

// NewRegistry creates an empty registry. opts may be nil.
func NewRegistry(opts *Options) *Registry {
	r := &Registry{libs: make(map[string]*entry)}
	resolveOpts(r, opts)
	return r
}

func resolveOpts(r *Registry, opts *Options) {
	debug := false
	if opts != nil {
		r.baseDir = opts.BaseDir
		r.searchPaths = opts.SearchPaths
		r.systemSearch = opts.SystemSearch
		r.cacheDir = opts.CacheDir
		r.linker = opts.Linker
		r.log = opts.Logger
		debug = opts.Debug
	}
	if r.baseDir == "" {
		r.baseDir, _ = os.Getwd()
	}
	if r.cacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			r.cacheDir = filepath.Join(dir, "nativebridge")
		} else {
			r.cacheDir = filepath.Join(os.TempDir(), "nativebridge")
		}
	}
	if r.linker == nil {
		r.linker = systemLinker{}
	}
	if r.log == nil {
		if debug {
			r.log = log.New(os.Stderr, "nativebridge: ", log.Ltime|log.Lmicroseconds)
		} else {
			r.log = log.New(io.Discard, "", 0)
		}
	}
}

// Load maps the named library into the process. name is a library
// identifier such as "native_lib" (see MapLibraryName) or a path.
//
// Load is idempotent: once a library has loaded, later calls return the same
// *Library without touching the dynamic linker. Concurrent first calls map
// the library exactly once. A failed load is final for the registry's
// lifetime and returns the same *LoadError on every call.
func (r *Registry) Load(name string) (*Library, error) {
	return r.load(name, func() (string, error) {
		return r.locate(name)
	})
}

func (r *Registry) load(name string, locate func() (string, error)) (*Library, error) {
	e := r.entry(name)
	e.once.Do(func() {
		e.lib, e.err = r.open(name, locate)
		if e.err != nil {
			r.log.Printf("load %s failed: %v", name, e.err)
			e.state.Store(int32(StateLoadFailed))
			return
		}
		r.log.Printf("loaded %s from %s", name, e.lib.path)
		e.state.Store(int32(StateLoaded))
	})
	return e.lib, e.err
}

func (r *Registry) entry(name string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.libs[name]
	if !ok {
		e = &entry{}
		r.libs[name] = e
	}
	return e
}

func (r *Registry) open(name string, locate func() (string, error)) (*Library, error) {
	path, err := locate()
	if err != nil {
		return nil, &LoadError{Name: name, Err: err}
	}
	r.log.Printf("opening %s at %s", name, path)
	handle, err := r.linker.Open(path)
	if err != nil {
		if !errors.Is(err, ErrIncompatible) && !errors.Is(err, ErrMapFailed) {
			err = fmt.Errorf("%w: %v", ErrMapFailed, err)
		}
		return nil, &LoadError{Name: name, Path: path, Err: err}
	}
	return &Library{name: name, path: path, handle: handle, linker: r.linker}, nil
}

// State reports the load state of name.
func (r *Registry) State(name string) State {
	r.mu.Lock()
	e, ok := r.libs[name]
	r.mu.Unlock()
	if !ok {
		return StateUnloaded
	}
	return State(e.state.Load())
}

// Library returns a previously loaded library, or an error wrapping
// ErrNotLoaded if name is not in StateLoaded.
func (r *Registry) Library(name string) (*Library, error) {
	r.mu.Lock()
	e, ok := r.libs[name]
	r.mu.Unlock()
	if !ok || State(e.state.Load()) != StateLoaded {
		return nil, fmt.Errorf("%s: %w", name, ErrNotLoaded)
	}
	return e.lib, nil
}

// Invoke calls fn inside the loaded library named library. It fails with
// ErrNotLoaded before a successful Load and with a *LinkError if the export
// is missing; in both cases no native code runs.
func (r *Registry) Invoke(library string, fn *StringFunc) (string, error) {
	lib, err := r.Library(library)
	if err != nil {
		return "", err
	}
	if !fn.linkedTo(lib) {
		if err := fn.Resolve(lib); err != nil {
			return "", err
		}
	}
	return fn.Call()
}
