// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

//go:build darwin || freebsd || linux || netbsd

package nativebridge

import (
	"fmt"
	"path/filepath"

	"github.com/ebitengine/purego"
)

// systemLinker loads libraries with dlopen through purego, so no cgo is
// needed on the Go side.
type systemLinker struct{}

func (systemLinker) Open(path string) (uintptr, error) {
	if filepath.IsAbs(path) {
		if err := checkFormat(path); err != nil {
			return 0, err
		}
	}
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, classifyDlerror(err)
	}
	if handle == 0 {
		return 0, fmt.Errorf("%w: dlopen returned a nil handle", ErrMapFailed)
	}
	return handle, nil
}

func (systemLinker) Lookup(handle uintptr, symbol string) (uintptr, error) {
	sym, err := purego.Dlsym(handle, symbol)
	if err != nil {
		return 0, err
	}
	if sym == 0 {
		return 0, fmt.Errorf("symbol %q resolved to NULL", symbol)
	}
	return sym, nil
}

func (systemLinker) Call(fn uintptr, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(fn, args...)
	return r1
}

// registerFunc registers the given function at the address
func registerFunc(fptr any, addr uintptr) {
	purego.RegisterFunc(fptr, addr)
}
