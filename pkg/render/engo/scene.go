// pkg/render/engo/scene.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-voidengine/pkg/config"
)

// Scene shows the engine's frames in a window and feeds keys back.
type Scene struct {
	presenter *Presenter
	keys      KeyHandler
	width     int
	height    int
	onExit    func()
}

// NewScene creates a scene for a width x height framebuffer. onExit runs
// when the window closes.
func NewScene(presenter *Presenter, keys KeyHandler, width, height int, onExit func()) *Scene {
	return &Scene{
		presenter: presenter,
		keys:      keys,
		width:     width,
		height:    height,
		onExit:    onExit,
	}
}

// Type returns the scene type (required by Engo)
func (scene *Scene) Type() string {
	return "VoidEngineScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *Scene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *Scene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.Black)
	SetupInputBindings()

	world.AddSystem(&common.RenderSystem{})
	world.AddSystem(NewDisplaySystem(scene.presenter, scene.width, scene.height))
	world.AddSystem(NewInputSystem(scene.keys, engo.Exit))
}

// Exit is called when the window closes.
func (scene *Scene) Exit() {
	if scene.onExit != nil {
		scene.onExit()
	}
}

// RunOptions builds the engo window options from the engine configuration.
func RunOptions(cfg *config.EngineConfig) engo.RunOptions {
	return engo.RunOptions{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  true,
	}
}

// Run opens the window and blocks until it closes. It must be called from
// the main goroutine.
func Run(cfg *config.EngineConfig, presenter *Presenter, keys KeyHandler, onExit func()) {
	scene := NewScene(presenter, keys, cfg.Window.Width, cfg.Window.Height, onExit)
	engo.Run(RunOptions(cfg), scene)
}

// Close asks a running window to exit. It is safe to call from any goroutine.
func Close() {
	engo.Exit()
}
