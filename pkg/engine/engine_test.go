// pkg/engine/engine_test.go
package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opd-ai/go-voidengine/pkg/asset"
	"github.com/opd-ai/go-voidengine/pkg/component"
	"github.com/opd-ai/go-voidengine/pkg/config"
	"github.com/opd-ai/go-voidengine/pkg/entity"
	"github.com/opd-ai/go-voidengine/pkg/event"
	"github.com/opd-ai/go-voidengine/pkg/logging"
	"github.com/opd-ai/go-voidengine/pkg/physics"
	"github.com/opd-ai/go-voidengine/pkg/render"
)

// fakePacer records waits and can cancel the run or fail.
type fakePacer struct {
	waits    []time.Duration
	cancelAt int
	cancel   context.CancelFunc
	err      error
}

func (p *fakePacer) Wait(ctx context.Context, d time.Duration) error {
	p.waits = append(p.waits, d)
	if p.cancel != nil && len(p.waits) == p.cancelAt {
		p.cancel()
		return ctx.Err()
	}
	return p.err
}

// fakePresenter records frames and lifecycle calls.
type fakePresenter struct {
	opened  int
	closed  int
	openErr error
	err     error
	frames  []*render.Framebuffer
	onFrame func(*render.Framebuffer)
}

func (p *fakePresenter) Open() error {
	p.opened++
	return p.openErr
}

func (p *fakePresenter) Close() error {
	p.closed++
	return nil
}

func (p *fakePresenter) Present(fb *render.Framebuffer) error {
	p.frames = append(p.frames, fb.Clone())
	if p.onFrame != nil {
		p.onFrame(fb)
	}
	return p.err
}

func testConfig() *config.EngineConfig {
	cfg := config.DefaultConfig()
	cfg.Window.Width = 32
	cfg.Window.Height = 16
	return cfg
}

func newTestEngine(t *testing.T, world *entity.World, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	e, err := New(testConfig(), world, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestNew_Defaults(t *testing.T) {
	e, err := New(nil, nil, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if e.State() != StateUninitialized {
		t.Errorf("State() = %v, want uninitialized", e.State())
	}
	if e.Framebuffer().Width() != 800 || e.Framebuffer().Height() != 600 {
		t.Errorf("framebuffer = %dx%d, want 800x600", e.Framebuffer().Width(), e.Framebuffer().Height())
	}
	if len(e.RunID()) != 36 {
		t.Errorf("RunID() = %q, want a UUID", e.RunID())
	}
	if e.World == nil || e.EventBus() == nil {
		t.Error("world and event bus must be created")
	}
}

func TestNew_InvalidRenderConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Render.ColorKey = "not-a-color"

	if _, err := New(cfg, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestEngine_RunTicks_Lifecycle(t *testing.T) {
	bus := event.NewEventBus()
	var events []event.Type
	for _, typ := range []event.Type{event.EngineStarted, event.EngineStopped} {
		bus.Subscribe(typ, func(ev event.Event) { events = append(events, ev.GetType()) })
	}
	pacer := &fakePacer{}
	presenter := &fakePresenter{}
	e := newTestEngine(t, nil, WithPacer(pacer), WithPresenter(presenter), WithEventBus(bus))

	if err := e.RunTicks(context.Background(), 3); err != nil {
		t.Fatalf("RunTicks() error = %v", err)
	}

	if e.State() != StateTerminated {
		t.Errorf("State() = %v, want terminated", e.State())
	}
	if e.Tick() != 3 || len(presenter.frames) != 3 {
		t.Errorf("ticks = %d, frames = %d; want 3 and 3", e.Tick(), len(presenter.frames))
	}
	if presenter.opened != 1 || presenter.closed != 1 {
		t.Errorf("opened = %d, closed = %d; want 1 and 1", presenter.opened, presenter.closed)
	}
	if len(pacer.waits) != 3 || pacer.waits[0] != 4*time.Millisecond {
		t.Errorf("waits = %v, want three 4ms waits", pacer.waits)
	}
	if len(events) != 2 || events[0] != event.EngineStarted || events[1] != event.EngineStopped {
		t.Errorf("events = %v, want [started stopped]", events)
	}

	if err := e.RunTicks(context.Background(), 1); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second RunTicks() error = %v, want ErrAlreadyStarted", err)
	}
	if err := e.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Start() after run error = %v, want ErrAlreadyStarted", err)
	}
}

func TestEngine_Start_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pacer := &fakePacer{cancelAt: 5, cancel: cancel}
	e := newTestEngine(t, nil, WithPacer(pacer))

	if err := e.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if e.Tick() != 5 {
		t.Errorf("Tick() = %d, want 5", e.Tick())
	}
	if e.State() != StateTerminated {
		t.Errorf("State() = %v, want terminated", e.State())
	}
}

func TestEngine_Start_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newTestEngine(t, nil, WithPacer(&fakePacer{}))

	if err := e.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if e.Tick() != 0 {
		t.Errorf("Tick() = %d, want 0", e.Tick())
	}
}

func TestEngine_RecoversFromPacingAndPresentErrors(t *testing.T) {
	pacer := &fakePacer{err: errors.New("interrupted")}
	presenter := &fakePresenter{err: errors.New("display lost")}
	e := newTestEngine(t, nil, WithPacer(pacer), WithPresenter(presenter))

	if err := e.RunTicks(context.Background(), 4); err != nil {
		t.Fatalf("RunTicks() error = %v", err)
	}
	if e.Tick() != 4 {
		t.Errorf("Tick() = %d, want 4", e.Tick())
	}
}

func TestEngine_OpenFailure(t *testing.T) {
	openErr := errors.New("no display")
	presenter := &fakePresenter{openErr: openErr}
	world := entity.NewWorld()
	e := newTestEngine(t, world, WithPacer(&fakePacer{}), WithPresenter(presenter))

	err := e.RunTicks(context.Background(), 2)
	if !errors.Is(err, openErr) {
		t.Fatalf("RunTicks() error = %v, want wrapped %v", err, openErr)
	}
	if e.Tick() != 0 || presenter.closed != 0 {
		t.Errorf("ticks = %d, closed = %d; want nothing run", e.Tick(), presenter.closed)
	}
	if e.State() != StateTerminated {
		t.Errorf("State() = %v, want terminated", e.State())
	}
}

func TestEngine_PresentsAfterUpdateAndRender(t *testing.T) {
	world := entity.NewWorld()
	mover := world.Spawn()
	ctrl := component.NewController(1)
	grid, err := asset.GridFromRows([][]uint32{{0xFFFFFFFF}})
	if err != nil {
		t.Fatal(err)
	}
	sprite := &component.Sprite{Grid: grid}
	for _, c := range []entity.Component{ctrl, sprite} {
		if err := mover.AddComponent(c); err != nil {
			t.Fatal(err)
		}
	}
	ctrl.SetIntent(component.Right, true)

	presenter := &fakePresenter{}
	e := newTestEngine(t, world, WithPacer(&fakePacer{}), WithPresenter(presenter))
	presenter.onFrame = func(fb *render.Framebuffer) {
		if fb != e.Framebuffer() {
			t.Error("presenter received a different framebuffer")
		}
	}

	if err := e.RunTicks(context.Background(), 2); err != nil {
		t.Fatalf("RunTicks() error = %v", err)
	}

	for i, frame := range presenter.frames {
		x := i + 1
		if got := frame.At(x, 0); got != 0xFFFFFFFF {
			t.Errorf("frame %d: pixel (%d,0) = %#x, want sprite after tick %d's movement", i, x, got, i+1)
		}
		if got := frame.At(x-1, 0); got != 0xFF000000 {
			t.Errorf("frame %d: pixel (%d,0) = %#x, want cleared background", i, x-1, got)
		}
	}
}

func TestEngine_CollisionRollbackEndToEnd(t *testing.T) {
	bus := event.NewEventBus()
	collisions := 0
	bus.Subscribe(event.EntityCollision, func(event.Event) { collisions++ })

	world := entity.NewWorld()
	e1, err := world.CreateEntity(1)
	if err != nil {
		t.Fatal(err)
	}
	e1.SetPosition(100, 100)
	ctrl := component.NewController(4)
	for _, c := range []entity.Component{ctrl, component.NewCollider(8, 8, world, bus)} {
		if err := e1.AddComponent(c); err != nil {
			t.Fatal(err)
		}
	}
	e2, err := world.CreateEntity(2)
	if err != nil {
		t.Fatal(err)
	}
	e2.SetPosition(104, 100)
	if err := e2.AddComponent(component.NewCollider(8, 8, world, bus)); err != nil {
		t.Fatal(err)
	}
	ctrl.SetIntent(component.Right, true)

	e := newTestEngine(t, world, WithPacer(&fakePacer{}), WithEventBus(bus))
	if err := e.RunTicks(context.Background(), 1); err != nil {
		t.Fatalf("RunTicks() error = %v", err)
	}

	if e1.Position != (physics.Vector2D{X: 100, Y: 100}) {
		t.Errorf("E1 at %+v, want rolled back to (100,100)", e1.Position)
	}
	if collisions == 0 {
		t.Error("expected a collision event")
	}
}

func TestEngine_StepWithoutStart(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Step()
	if e.Tick() != 1 || e.State() != StateUninitialized {
		t.Errorf("Tick() = %d, State() = %v; want 1, uninitialized", e.Tick(), e.State())
	}
}

func TestSleepPacer_Wait(t *testing.T) {
	var p SleepPacer

	start := time.Now()
	if err := p.Wait(context.Background(), 5*time.Millisecond); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("Wait() returned after %v, want at least 5ms", elapsed)
	}

	if err := p.Wait(context.Background(), 0); err != nil {
		t.Errorf("Wait(0) error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Wait(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() on cancelled ctx error = %v, want context.Canceled", err)
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateUninitialized: "uninitialized",
		StateRunning:       "running",
		StateTerminated:    "terminated",
		State(7):           "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
