// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

//go:build darwin || linux

package nativebridge

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildNativeLib compiles native_lib/native_lib.c into a temporary directory.
func buildNativeLib(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping native build in short mode")
	}
	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	if _, err := exec.LookPath(cc); err != nil {
		t.Skipf("no C compiler: %v", err)
	}
	dir := t.TempDir()
	out := filepath.Join(dir, MapLibraryName("native_lib"))
	cmd := exec.Command(cc, "-shared", "-fPIC", "-o", out, filepath.Join("native_lib", "native_lib.c"))
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("building native_lib: %v\n%s", err, b)
	}
	return dir
}

func TestNativeLib(t *testing.T) {
	dir := buildNativeLib(t)
	t.Setenv(EnvLibraryPath, "")
	reg := NewRegistry(&Options{BaseDir: dir, CacheDir: t.TempDir()})

	lib, err := reg.Load("native_lib")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if again, _ := reg.Load("native_lib"); again != lib {
		t.Error("second Load returned a different library")
	}

	hello := DefaultConfig().Contract.StringFunc()
	greeting := &StringFunc{Symbol: "native_lib_greeting", Free: "native_lib_free"}
	version := NewFunc[func() int32]("native_lib_version")
	if err := lib.Link(hello, greeting, version); err != nil {
		t.Fatalf("Link: %v", err)
	}

	for i := 0; i < 3; i++ {
		if got, err := hello.Call(); err != nil || got != helloFromCpp {
			t.Errorf("stringFromJNI = %q, %v", got, err)
		}
		if got, err := greeting.Call(); err != nil || got != helloFromCpp {
			t.Errorf("native_lib_greeting = %q, %v", got, err)
		}
	}

	fn, err := version.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v := fn(); v != 1 {
		t.Errorf("native_lib_version = %d, want 1", v)
	}

	var linkErr *LinkError
	if err := lib.Link(&StringFunc{Symbol: "Java_com_example_Missing_call"}); !errors.As(err, &linkErr) {
		t.Errorf("missing export err = %v, want *LinkError", err)
	}
}

func TestSystemLinkerRejectsNonLibrary(t *testing.T) {
	dir := t.TempDir()
	writeLib(t, dir, "native_lib")
	t.Setenv(EnvLibraryPath, "")
	reg := NewRegistry(&Options{BaseDir: dir})

	_, err := reg.Load("native_lib")
	if !errors.Is(err, ErrIncompatible) {
		t.Fatalf("err = %v, want ErrIncompatible", err)
	}
	if got := reg.State("native_lib"); got != StateLoadFailed {
		t.Errorf("State = %v, want %v", got, StateLoadFailed)
	}
}
