// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package nativebridge

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type bundledFile struct {
	rel  string
	data []byte
}

// LoadFS loads a library bundled inside the application, for example in an
// embed.FS. Every file under dir is extracted next to the library so that
// its own dependencies resolve, then the library is loaded as with Load.
//
// Extraction goes to a directory under Options.CacheDir named after a hash of
// the bundled files, so an unchanged bundle is extracted once and a changed
// one never reuses stale files.
//
// Example with embed.FS:
//
//	//go:embed lib
//	var libFiles embed.FS
//	lib, err := reg.LoadFS("native_lib", libFiles, "lib")
func (r *Registry) LoadFS(name string, fsys fs.FS, dir string) (*Library, error) {
	return r.load(name, func() (string, error) {
		return r.extract(name, fsys, dir)
	})
}

func (r *Registry) extract(name string, fsys fs.FS, dir string) (string, error) {
	dir = path.Clean(strings.TrimLeft(strings.ReplaceAll(dir, "\\", "/"), "/"))
	file := path.Base(strings.ReplaceAll(MapLibraryName(name), "\\", "/"))
	if _, err := fs.Stat(fsys, path.Join(dir, file)); err != nil {
		return "", fmt.Errorf("%w: %s not bundled in %s", ErrNotFound, file, dir)
	}

	var files []bundledFile
	h := sha256.New()
	// WalkDir visits in lexical order, which keeps the hash stable.
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, readErr := fs.ReadFile(fsys, p)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", p, readErr)
		}
		rel := p
		if dir != "." {
			rel = strings.TrimPrefix(p, dir+"/")
		}
		fmt.Fprintf(h, "%s\x00%d\x00", rel, len(data))
		h.Write(data)
		files = append(files, bundledFile{rel: rel, data: data})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: walking bundle: %v", ErrMapFailed, err)
	}

	target := filepath.Join(r.cacheDir, hex.EncodeToString(h.Sum(nil)))
	libPath := filepath.Join(target, file)
	if isRegular(libPath) {
		r.log.Printf("using extracted %s at %s", name, target)
		return libPath, nil
	}

	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMapFailed, err)
	}
	tmp, err := os.MkdirTemp(r.cacheDir, ".extract-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMapFailed, err)
	}
	for _, f := range files {
		dst := filepath.Join(tmp, filepath.FromSlash(f.rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			os.RemoveAll(tmp)
			return "", fmt.Errorf("%w: %v", ErrMapFailed, err)
		}
		if err := os.WriteFile(dst, f.data, 0o755); err != nil {
			os.RemoveAll(tmp)
			return "", fmt.Errorf("%w: %v", ErrMapFailed, err)
		}
	}
	if err := installBundle(tmp, target, libPath); err != nil {
		return "", err
	}
	r.log.Printf("extracted %d bundled files for %s to %s", len(files), name, target)
	return libPath, nil
}

// installBundle moves an extracted bundle from tmp to target. If target
// already holds the library, another process extracted the same bundle
// first and tmp is discarded.
func installBundle(tmp, target, libPath string) error {
	if err := os.Rename(tmp, target); err != nil {
		os.RemoveAll(tmp)
		if !isRegular(libPath) {
			return fmt.Errorf("%w: %v", ErrMapFailed, err)
		}
	}
	return nil
}
