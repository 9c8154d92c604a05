package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decker502/zsurvive/pkg/app"
	"github.com/decker502/zsurvive/pkg/embedded"
	"github.com/decker502/zsurvive/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	configPath := flag.String("config", "", "Audio config file (default: embedded data/config/audio.yaml, hot-reloaded when on disk)")
	backend := flag.String("backend", app.BackendEbiten, "Audio backend: ebiten, beep or headless")
	flag.Parse()

	embedded.Init(assetsFS, dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Backend:    *backend,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(scenes.ScreenWidth, scenes.ScreenHeight)
	ebiten.SetWindowTitle("Z Survive")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil {
		fmt.Fprintf(os.Stderr, "Game exited with error: %v\n", err)
		os.Exit(1)
	}
}
