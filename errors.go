// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package nativebridge

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that no candidate file exists for a library name.
	ErrNotFound = errors.New("library not found")
	// ErrIncompatible reports a file that is not a shared library for this OS/architecture.
	ErrIncompatible = errors.New("incompatible library binary")
	// ErrMapFailed reports that the dynamic linker refused to map the library.
	ErrMapFailed = errors.New("library could not be mapped")
	// ErrNotLoaded is returned when a library is used before a successful Load.
	ErrNotLoaded = errors.New("library not loaded")
	// ErrNotLinked is returned when a binding is called before Resolve succeeded.
	ErrNotLinked = errors.New("native function not linked")
	// ErrNullString is returned when a native string function returns NULL.
	ErrNullString = errors.New("native function returned a NULL string")
	// ErrUnsupported is returned on platforms without a dynamic linker binding.
	ErrUnsupported = errors.New("dynamic loading not supported on this platform")
)

// LoadError describes a library that could not be loaded. Err is one of
// ErrNotFound, ErrIncompatible or ErrMapFailed, possibly wrapping the
// platform error.
type LoadError struct {
	Name string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("load %s from %s: %v", e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LinkError describes a declared function that has no matching export.
type LinkError struct {
	Library string
	Symbol  string
	Err     error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %s in %s: %v", e.Symbol, e.Library, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }
