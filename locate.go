// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package nativebridge

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvLibraryPath lists extra directories to search, separated by the
// platform list separator.
const EnvLibraryPath = "NATIVEBRIDGE_LIBRARY_PATH"

// MapLibraryName returns the platform file name for a library identifier:
// "native_lib" becomes libnative_lib.so, libnative_lib.dylib or
// native_lib.dll. Names that already have a platform extension or contain
// a path separator are returned unchanged.
func MapLibraryName(name string) string {
	return mapLibraryName(runtime.GOOS, name)
}

func mapLibraryName(goos, name string) string {
	if isPathLike(name) {
		return name
	}
	switch goos {
	case "darwin", "ios":
		return "lib" + name + ".dylib"
	case "windows":
		return name + ".dll"
	default:
		return "lib" + name + ".so"
	}
}

func isPathLike(name string) bool {
	if strings.ContainsAny(name, `/\`) {
		return true
	}
	switch filepath.Ext(name) {
	case ".so", ".dylib", ".dll":
		return true
	}
	return strings.Contains(name, ".so.")
}

// searchDirs returns the directories probed for a library, in order.
func (r *Registry) searchDirs() []string {
	dirs := append([]string(nil), r.searchPaths...)
	if env := os.Getenv(EnvLibraryPath); env != "" {
		for _, d := range filepath.SplitList(env) {
			if d != "" {
				dirs = append(dirs, d)
			}
		}
	}
	dirs = append(dirs, r.baseDir)
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, exeDir, filepath.Join(exeDir, "..", "lib"))
		if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
			dirs = append(dirs,
				filepath.Join(exeDir, "Frameworks"),
				filepath.Join(exeDir, "..", "Frameworks"),
			)
		}
	}
	return dirs
}

// locate finds the file backing a library identifier.
func (r *Registry) locate(name string) (string, error) {
	file := MapLibraryName(name)
	if strings.ContainsAny(file, `/\`) {
		if isRegular(file) {
			return absPath(file), nil
		}
		return "", ErrNotFound
	}

	for _, dir := range r.searchDirs() {
		candidate := filepath.Join(dir, file)
		if isRegular(candidate) {
			return absPath(candidate), nil
		}
	}

	if r.systemSearch {
		// Let the system find it.
		return file, nil
	}
	return "", ErrNotFound
}

func isRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
