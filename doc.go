// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Package nativebridge loads compiled shared libraries into a Go process and
// calls the functions they export, without cgo on the Go side.
//
// A Registry maps each library once per process. Declared functions are
// resolved right after loading, so a missing export is reported at startup,
// and calls are plain synchronous C calls whose string results are copied
// into Go memory.
//
// Basic usage:
//
//	import "github.com/YindSoft/nativebridge"
//
//	reg := nativebridge.NewRegistry(&nativebridge.Options{BaseDir: "lib"})
//
//	// Maps libnative_lib.so / libnative_lib.dylib / native_lib.dll.
//	lib, err := reg.Load("native_lib")
//	if err != nil { ... } // *LoadError: ErrNotFound, ErrIncompatible or ErrMapFailed
//
//	// const char *Java_..._stringFromJNI(void)
//	hello := &nativebridge.StringFunc{
//	    Symbol: nativebridge.JNISymbol("com.example.my.androidstudiojavagradle.MainActivity", "stringFromJNI"),
//	}
//	if err := lib.Link(hello); err != nil { ... } // *LinkError
//
//	s, err := hello.Call() // "Hello from C++"
//
// Typed bindings use a Go func type as the contract:
//
//	version := nativebridge.NewFunc[func() int32]("native_lib_version")
//	_ = lib.Link(version)
//	fn, _ := version.Get()
//	v := fn()
//
// Strings allocated by the native side are handed back to it after the copy
// when StringFunc.Free names the release function.
//
// Bundled libraries (embed.FS or any fs.FS) are extracted to a cache
// directory and loaded with [Registry.LoadFS]:
//
//	//go:embed lib
//	var libFiles embed.FS
//	lib, err := reg.LoadFS("native_lib", libFiles, "lib")
//
// The native_lib directory holds the C side of the demo contract. Build it
// with:
//
//	cc -shared -fPIC -o libnative_lib.so native_lib/native_lib.c
//
// Libraries are looked up in Options.SearchPaths, the directories listed in
// NATIVEBRIDGE_LIBRARY_PATH, Options.BaseDir, the working directory and the
// executable's directory. Settings can also come from a bridge.toml file, see
// [LoadConfig].
package nativebridge
