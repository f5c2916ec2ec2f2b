// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package nativebridge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is the config file name LoadConfig callers look for.
const DefaultConfigFile = "bridge.toml"

// Config is the bridge.toml file: which library to load and which native
// function to call in it.
type Config struct {
	Library  LibraryConfig  `toml:"library"`
	Contract ContractConfig `toml:"contract"`
}

type LibraryConfig struct {
	Name         string   `toml:"name"`
	BaseDir      string   `toml:"base_dir"`
	SearchPaths  []string `toml:"search_paths"`
	SystemSearch bool     `toml:"system_search"`
	CacheDir     string   `toml:"cache_dir"`
	Debug        bool     `toml:"debug"`
}

// ContractConfig names the native string function. Symbol, when set, is the
// export name; otherwise it is derived from Class and Method with JNISymbol.
type ContractConfig struct {
	Class  string `toml:"class"`
	Method string `toml:"method"`
	Symbol string `toml:"symbol"`
	Free   string `toml:"free"`
}

// DefaultConfig returns the configuration of the bundled native_lib.
func DefaultConfig() Config {
	return Config{
		Library: LibraryConfig{
			Name: "native_lib",
		},
		Contract: ContractConfig{
			Class:  "com.example.my.androidstudiojavagradle.MainActivity",
			Method: "stringFromJNI",
		},
	}
}

// LoadConfig reads a TOML config file over DefaultConfig. A missing file is
// not an error and yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if config.Library.Name == "" {
		return config, fmt.Errorf("%s: library.name is empty", path)
	}
	if config.Contract.Symbol == "" && (config.Contract.Class == "" || config.Contract.Method == "") {
		return config, fmt.Errorf("%s: contract needs a symbol, or a class and a method", path)
	}
	return config, nil
}

// Options converts the library section to registry options.
func (c Config) Options() *Options {
	return &Options{
		BaseDir:      c.Library.BaseDir,
		SearchPaths:  c.Library.SearchPaths,
		SystemSearch: c.Library.SystemSearch,
		CacheDir:     c.Library.CacheDir,
		Debug:        c.Library.Debug,
	}
}

// ExportName returns the export the contract refers to.
func (c ContractConfig) ExportName() string {
	if c.Symbol != "" {
		return c.Symbol
	}
	return JNISymbol(c.Class, c.Method)
}

// StringFunc returns an unresolved binding for the contract.
func (c ContractConfig) StringFunc() *StringFunc {
	return &StringFunc{Symbol: c.ExportName(), Free: c.Free}
}
