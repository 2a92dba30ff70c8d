// pkg/input/router.go
package input

import (
	"context"
	"sync"
	"time"

	"github.com/opd-ai/go-voidengine/pkg/component"
	"github.com/opd-ai/go-voidengine/pkg/entity"
	"github.com/opd-ai/go-voidengine/pkg/logging"
)

// DefaultHoldWindow is how long a Press keeps a direction held. It spans
// the initial delay of a typical terminal key repeat.
const DefaultHoldWindow = 150 * time.Millisecond

// SetIntent sets a direction on the entity's first controller. It reports
// false when the entity has no controller.
func SetIntent(e *entity.Entity, dir component.Direction, down bool) bool {
	ctrl, ok := component.ControllerOf(e)
	if !ok {
		return false
	}
	ctrl.SetIntent(dir, down)
	return true
}

// Router delivers key events to every controller of every entity.
// It is safe for concurrent use.
type Router struct {
	roster entity.Roster
	keymap Keymap
	hold   time.Duration
	logger *logging.Logger

	mu     sync.Mutex
	timers map[component.Direction]*time.Timer
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithKeymap replaces the default key bindings.
func WithKeymap(k Keymap) RouterOption {
	return func(r *Router) {
		r.keymap = k
	}
}

// WithHoldWindow sets how long Press keeps a direction held.
func WithHoldWindow(d time.Duration) RouterOption {
	return func(r *Router) {
		r.hold = d
	}
}

// WithLogger sets the router's logger.
func WithLogger(l *logging.Logger) RouterOption {
	return func(r *Router) {
		r.logger = l
	}
}

// NewRouter creates a router over the entities of roster.
func NewRouter(roster entity.Roster, opts ...RouterOption) *Router {
	r := &Router{
		roster: roster,
		keymap: DefaultKeymap(),
		hold:   DefaultHoldWindow,
		logger: logging.Discard(),
		timers: make(map[component.Direction]*time.Timer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleKey applies a key-down or key-up event. It reports whether the
// key is bound.
func (r *Router) HandleKey(key string, down bool) bool {
	dir, ok := r.keymap.Lookup(key)
	if !ok {
		r.logger.Debug(context.Background(), "Unbound key", "key", key)
		return false
	}
	r.broadcast(dir, down)
	return true
}

// Press holds the key's direction for the hold window. Repeated presses
// re-arm the window, so a key repeating faster than the window stays held.
// It is meant for sources that never report key-up.
func (r *Router) Press(key string) bool {
	dir, ok := r.keymap.Lookup(key)
	if !ok {
		r.logger.Debug(context.Background(), "Unbound key", "key", key)
		return false
	}
	r.broadcast(dir, true)

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, exists := r.timers[dir]; exists && t.Stop() {
		t.Reset(r.hold)
		return true
	}
	var t *time.Timer
	t = time.AfterFunc(r.hold, func() {
		r.mu.Lock()
		if r.timers[dir] != t {
			// Superseded by a later press or cancelled.
			r.mu.Unlock()
			return
		}
		delete(r.timers, dir)
		r.mu.Unlock()
		r.broadcast(dir, false)
	})
	r.timers[dir] = t
	return true
}

// ReleaseAll clears every held direction and cancels pending releases.
func (r *Router) ReleaseAll() {
	r.mu.Lock()
	for dir, t := range r.timers {
		t.Stop()
		delete(r.timers, dir)
	}
	r.mu.Unlock()

	for _, e := range r.roster.Entities() {
		for _, ctrl := range component.ControllersOf(e) {
			ctrl.Release()
		}
	}
}

func (r *Router) broadcast(dir component.Direction, down bool) {
	for _, e := range r.roster.Entities() {
		for _, ctrl := range component.ControllersOf(e) {
			ctrl.SetIntent(dir, down)
		}
	}
}
