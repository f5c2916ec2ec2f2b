// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

//go:build windows

package nativebridge

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

// systemLinker loads DLLs with LoadLibraryEx. Dependencies of an absolute
// path are resolved from the DLL's own directory first.
type systemLinker struct{}

func (systemLinker) Open(path string) (uintptr, error) {
	var flags uintptr = windows.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS
	if filepath.IsAbs(path) {
		if err := checkFormat(path); err != nil {
			return 0, err
		}
		flags |= windows.LOAD_LIBRARY_SEARCH_DLL_LOAD_DIR
	}
	h, err := windows.LoadLibraryEx(path, 0, flags)
	if err != nil {
		if errors.Is(err, windows.ERROR_BAD_EXE_FORMAT) {
			return 0, fmt.Errorf("%w: %v", ErrIncompatible, err)
		}
		return 0, fmt.Errorf("%w: %v", ErrMapFailed, err)
	}
	return uintptr(h), nil
}

func (systemLinker) Lookup(handle uintptr, symbol string) (uintptr, error) {
	sym, err := windows.GetProcAddress(windows.Handle(handle), symbol)
	if err != nil {
		return 0, err
	}
	if sym == 0 {
		return 0, fmt.Errorf("symbol %q not found in DLL", symbol)
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
