// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package nativebridge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMapLibraryName(t *testing.T) {
	tests := []struct {
		goos string
		name string
		want string
	}{
		{"linux", "native_lib", "libnative_lib.so"},
		{"android", "native_lib", "libnative_lib.so"},
		{"freebsd", "native_lib", "libnative_lib.so"},
		{"darwin", "native_lib", "libnative_lib.dylib"},
		{"ios", "native_lib", "libnative_lib.dylib"},
		{"windows", "native_lib", "native_lib.dll"},
		{"linux", "libfoo.so", "libfoo.so"},
		{"linux", "libfoo.so.1", "libfoo.so.1"},
		{"windows", "foo.dll", "foo.dll"},
		{"linux", "./native_lib", "./native_lib"},
	}
	for _, tt := range tests {
		if got := mapLibraryName(tt.goos, tt.name); got != tt.want {
			t.Errorf("mapLibraryName(%q, %q) = %q, want %q", tt.goos, tt.name, got, tt.want)
		}
	}
}

func TestLocateSearchOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeLib(t, first, "native_lib")
	writeLib(t, second, "native_lib")

	reg := newTestRegistry(t, newFakeLinker(), first, second)
	got, err := reg.locate("native_lib")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if want := filepath.Join(first, MapLibraryName("native_lib")); got != want {
		t.Errorf("locate = %q, want %q", got, want)
	}
}

func TestLocateEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeLib(t, dir, "native_lib")

	reg := newTestRegistry(t, newFakeLinker())
	t.Setenv(EnvLibraryPath, filepath.Join(t.TempDir(), "empty")+string(filepath.ListSeparator)+dir)

	got, err := reg.locate("native_lib")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if want := filepath.Join(dir, MapLibraryName("native_lib")); got != want {
		t.Errorf("locate = %q, want %q", got, want)
	}
}

func TestLocateBaseDir(t *testing.T) {
	dir := t.TempDir()
	writeLib(t, dir, "native_lib")
	t.Setenv(EnvLibraryPath, "")

	reg := NewRegistry(&Options{BaseDir: dir, Linker: newFakeLinker()})
	got, err := reg.locate("native_lib")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if want := filepath.Join(dir, MapLibraryName("native_lib")); got != want {
		t.Errorf("locate = %q, want %q", got, want)
	}
}

func TestLocateExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := writeLib(t, dir, "native_lib")
	reg := newTestRegistry(t, newFakeLinker())

	got, err := reg.locate(path)
	if err != nil || got != path {
		t.Errorf("locate(%q) = %q, %v", path, got, err)
	}
	if _, err := reg.locate(filepath.Join(dir, "missing", "libx.so")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing explicit path err = %v, want ErrNotFound", err)
	}
}

func TestLocateSystemSearch(t *testing.T) {
	t.Setenv(EnvLibraryPath, "")
	reg := NewRegistry(&Options{BaseDir: t.TempDir(), SystemSearch: true, Linker: newFakeLinker()})

	got, err := reg.locate("does_not_exist")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != MapLibraryName("does_not_exist") {
		t.Errorf("locate = %q, want the bare file name", got)
	}
}

func TestLocateDirectoryIsNotALibrary(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, MapLibraryName("native_lib")), 0o755); err != nil {
		t.Fatal(err)
	}
	reg := newTestRegistry(t, newFakeLinker(), dir)
	if _, err := reg.locate("native_lib"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
