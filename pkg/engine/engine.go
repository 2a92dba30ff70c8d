// pkg/engine/engine.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/opd-ai/go-voidengine/pkg/config"
	"github.com/opd-ai/go-voidengine/pkg/entity"
	"github.com/opd-ai/go-voidengine/pkg/event"
	"github.com/opd-ai/go-voidengine/pkg/logging"
	"github.com/opd-ai/go-voidengine/pkg/render"
)

// ErrAlreadyStarted is returned when Start or RunTicks is called on an
// engine that has already run.
var ErrAlreadyStarted = errors.New("engine: already started")

// State is the scheduler lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateRunning
	StateTerminated
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Engine drives a world through fixed-cadence ticks: update every entity,
// composite the sprites, present the frame, then wait out the tick.
// The world, compositor, and framebuffer are only touched from the
// goroutine running Start, RunTicks, or Step.
type Engine struct {
	Config *config.EngineConfig
	World  *entity.World

	compositor  *render.Compositor
	framebuffer *render.Framebuffer
	presenter   render.Presenter
	pacer       Pacer
	logger      *logging.Logger
	bus         *event.Bus

	runID  string
	logCtx context.Context
	state  atomic.Int32
	tick   atomic.Uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithPresenter sets where frames are shown. The default discards them.
func WithPresenter(p render.Presenter) Option {
	return func(e *Engine) {
		e.presenter = p
	}
}

// WithPacer replaces the sleep-based tick pacing.
func WithPacer(p Pacer) Option {
	return func(e *Engine) {
		e.pacer = p
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithEventBus shares an event bus with other subsystems.
func WithEventBus(b *event.Bus) Option {
	return func(e *Engine) {
		e.bus = b
	}
}

// New creates an engine for world. A nil cfg uses DefaultConfig and a nil
// world starts empty.
func New(cfg *config.EngineConfig, world *entity.World, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if world == nil {
		world = entity.NewWorld()
	}
	renderOpts, err := render.OptionsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure compositor: %w", err)
	}

	e := &Engine{
		Config:      cfg,
		World:       world,
		compositor:  render.NewCompositor(renderOpts),
		framebuffer: render.NewFramebuffer(cfg.Window.Width, cfg.Window.Height),
		pacer:       SleepPacer{},
		runID:       logging.NewRunID(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewLogger()
	}
	if e.bus == nil {
		e.bus = event.NewEventBus()
	}
	if e.presenter == nil {
		e.presenter = render.NewNullPresenter(e.logger)
	}
	e.logCtx = logging.WithRunID(context.Background(), e.runID)
	return e, nil
}

// Start initializes the world and runs ticks until ctx is cancelled.
// Cancellation is a normal stop and returns nil.
func (e *Engine) Start(ctx context.Context) error {
	return e.run(ctx, -1)
}

// RunTicks is Start limited to n ticks.
func (e *Engine) RunTicks(ctx context.Context, n int) error {
	if n < 0 {
		n = 0
	}
	return e.run(ctx, n)
}

func (e *Engine) run(ctx context.Context, limit int) error {
	if !e.state.CompareAndSwap(int32(StateUninitialized), int32(StateRunning)) {
		return ErrAlreadyStarted
	}
	ctx = logging.WithRunID(ctx, e.runID)

	if opener, ok := e.presenter.(render.Opener); ok {
		if err := opener.Open(); err != nil {
			e.state.Store(int32(StateTerminated))
			return logging.WrapError(err, "failed to open presenter for run %s", e.runID)
		}
	}
	defer e.shutdown(ctx)

	e.World.InitializeAll()
	e.bus.Publish(&event.BaseEvent{EventType: event.EngineStarted, Source: e})
	e.logger.Info(ctx, "Engine started",
		"entities", e.World.Len(),
		"tick_duration", e.Config.TickDuration(),
		"framebuffer_width", e.framebuffer.Width(),
		"framebuffer_height", e.framebuffer.Height(),
		"mode", e.compositor.Options().Mode.String(),
	)

	for i := 0; limit < 0 || i < limit; i++ {
		if ctx.Err() != nil {
			return nil
		}
		e.Step()

		if err := e.pacer.Wait(ctx, e.Config.TickDuration()); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			e.logger.Debug(ctx, "Tick pacing interrupted", "tick", e.Tick(), "error", err)
		}
	}
	return nil
}

// Step runs one iteration without pacing: update every entity, render,
// then present. It does not initialize the world.
func (e *Engine) Step() {
	e.World.TickAll()
	e.compositor.Render(e.framebuffer, e.World.Entities())
	tick := e.tick.Add(1)

	if err := e.presenter.Present(e.framebuffer); err != nil {
		e.logger.Warn(e.logCtx, "Present failed", "tick", tick, "error", err)
	}
}

func (e *Engine) shutdown(ctx context.Context) {
	e.state.Store(int32(StateTerminated))

	if closer, ok := e.presenter.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			e.logger.Warn(ctx, "Failed to close presenter", "error", err)
		}
	}
	e.bus.Publish(&event.BaseEvent{EventType: event.EngineStopped, Source: e})
	e.logger.Info(ctx, "Engine stopped", "ticks", e.Tick())
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Tick returns the number of completed iterations.
func (e *Engine) Tick() uint64 {
	return e.tick.Load()
}

// Framebuffer returns the frame the compositor draws into.
func (e *Engine) Framebuffer() *render.Framebuffer {
	return e.framebuffer
}

// EventBus returns the bus engine lifecycle and collision events go to.
func (e *Engine) EventBus() *event.Bus {
	return e.bus
}

// RunID identifies this engine run; it is attached to every log line as run_id.
func (e *Engine) RunID() string {
	return e.runID
}
