// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package nativebridge

import "fmt"

// Library is a shared library mapped into the process by a Registry. It stays
// mapped for the lifetime of the process.
type Library struct {
	name   string
	path   string
	handle uintptr
	linker Linker
}

// Name returns the identifier the library was loaded under.
func (l *Library) Name() string { return l.name }

// Path returns the file the library was mapped from.
func (l *Library) Path() string { return l.path }

// Handle returns the platform handle (dlopen handle or HMODULE).
func (l *Library) Handle() uintptr { return l.handle }

// Symbol returns the address of an exported symbol.
func (l *Library) Symbol(name string) (uintptr, error) {
	sym, err := l.linker.Lookup(l.handle, name)
	if err != nil {
		return 0, &LinkError{Library: l.name, Symbol: name, Err: err}
	}
	if sym == 0 {
		return 0, &LinkError{Library: l.name, Symbol: name, Err: fmt.Errorf("symbol %q resolved to NULL", name)}
	}
	return sym, nil
}

// Binding is a declared native function that can be resolved against a library.
type Binding interface {
	Resolve(lib *Library) error
}

// Link resolves every binding against l, stopping at the first failure.
// Call it right after Load so that a missing export surfaces at startup
// rather than at the first call.
func (l *Library) Link(bindings ...Binding) error {
	for _, b := range bindings {
		if err := b.Resolve(l); err != nil {
			return err
		}
	}
	return nil
}
