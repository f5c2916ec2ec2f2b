// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Example of LoadFS: native_lib is embedded in the executable (no library
// next to it on disk).
package main

import (
	"embed"
	"fmt"
	"log"
	"os"

	"github.com/YindSoft/nativebridge"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

//go:embed lib
var libFiles embed.FS

const (
	screenWidth  = 480
	screenHeight = 320
)

type Game struct {
	reg     *nativebridge.Registry
	hello   *nativebridge.StringFunc
	version int32
	label   string
	counter int
}

func newGame() (*Game, error) {
	reg := nativebridge.NewRegistry(&nativebridge.Options{Logger: log.Default()})

	lib, err := reg.LoadFS("native_lib", libFiles, "lib")
	if err != nil {
		return nil, fmt.Errorf("LoadFS: %w", err)
	}

	cfg := nativebridge.DefaultConfig()
	hello := &nativebridge.StringFunc{Symbol: "native_lib_greeting", Free: "native_lib_free"}
	version := nativebridge.NewFunc[func() int32]("native_lib_version")
	if err := lib.Link(cfg.Contract.StringFunc(), hello, version); err != nil {
		return nil, err
	}

	fn, err := version.Get()
	if err != nil {
		return nil, err
	}
	log.Printf("native_lib %s, version %d", lib.Path(), fn())

	return &Game{reg: reg, hello: hello, version: fn()}, nil
}

func (g *Game) Update() error {
	g.counter++
	// Re-read once a second; every call returns a fresh Go-owned copy.
	if g.counter%60 == 1 {
		label, err := g.reg.Invoke("native_lib", g.hello)
		if err != nil {
			return err
		}
		g.label = label
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nnative_lib v%d  FPS: %.1f", g.label, g.version, ebiten.ActualFPS()))
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

	game, err := newGame()
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("nativebridge - embedded library example")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("run: %v", err)
	}
}
