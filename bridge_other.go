// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

//go:build !(darwin || freebsd || linux || netbsd || windows)

package nativebridge

type systemLinker struct{}

func (systemLinker) Open(string) (uintptr, error) { return 0, ErrUnsupported }

func (systemLinker) Lookup(uintptr, string) (uintptr, error) { return 0, ErrUnsupported }

func (systemLinker) Call(uintptr, ...uintptr) uintptr { panic(ErrUnsupported) }

func registerFunc(any, uintptr) { panic(ErrUnsupported) }
