// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Shows the string returned by native_lib in a window. Build the library
// first (see native_lib/native_lib.c), then run from the repository root or
// from example/.
package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/YindSoft/nativebridge"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	screenWidth  = 480
	screenHeight = 320
)

type Game struct {
	label string
}

func findConfig() string {
	// Look for bridge.toml in current dir, then parent (for running from example/).
	if _, err := os.Stat(nativebridge.DefaultConfigFile); err == nil {
		return nativebridge.DefaultConfigFile
	}
	if _, err := os.Stat(filepath.Join("..", nativebridge.DefaultConfigFile)); err == nil {
		return filepath.Join("..", nativebridge.DefaultConfigFile)
	}
	return nativebridge.DefaultConfigFile
}

func newGame(reg *nativebridge.Registry, cfg nativebridge.Config) (*Game, error) {
	lib, err := reg.Load(cfg.Library.Name)
	if err != nil {
		return nil, err
	}

	hello := cfg.Contract.StringFunc()
	if err := lib.Link(hello); err != nil {
		return nil, err
	}

	text, err := hello.Call()
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", hello.Symbol, err)
	}
	log.Printf("%s returned %q", hello.Symbol, text)
	return &Game{label: text}, nil
}

func (g *Game) Update() error {
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 40, 255})
	ebitenutil.DebugPrintAt(screen, g.label, 16, 16)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	logFile, err := os.Create("logs.log")
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	configPath := findConfig()
	cfg, err := nativebridge.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	opts := cfg.Options()
	if cfg.Library.BaseDir == "" {
		opts.BaseDir = filepath.Dir(configPath)
	}
	opts.Logger = log.Default()

	// The bridge is a startup dependency: no library, no window.
	game, err := newGame(nativebridge.NewRegistry(opts), cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("nativebridge - native_lib demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("run: %v", err)
	}
}
