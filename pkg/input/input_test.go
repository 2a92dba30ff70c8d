// pkg/input/input_test.go
package input

import (
	"testing"
	"time"

	"github.com/opd-ai/go-voidengine/pkg/component"
	"github.com/opd-ai/go-voidengine/pkg/entity"
)

func newControlledWorld(t *testing.T, controllers ...int) (*entity.World, [][]*component.Controller) {
	t.Helper()
	w := entity.NewWorld()
	var all [][]*component.Controller
	for _, n := range controllers {
		e := w.Spawn()
		var ctrls []*component.Controller
		for i := 0; i < n; i++ {
			c := component.NewController(1)
			if err := e.AddComponent(c); err != nil {
				t.Fatal(err)
			}
			ctrls = append(ctrls, c)
		}
		all = append(all, ctrls)
	}
	return w, all
}

func TestKeymap_Lookup(t *testing.T) {
	tests := []struct {
		key    string
		want   component.Direction
		wantOK bool
	}{
		{"left", component.Left, true},
		{"A", component.Left, true},
		{"right", component.Right, true},
		{"d", component.Right, true},
		{"UP", component.Up, true},
		{"w", component.Up, true},
		{"down", component.Down, true},
		{"s", component.Down, true},
		{"space", 0, false},
	}

	km := DefaultKeymap()
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := km.Lookup(tt.key)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSetIntent(t *testing.T) {
	w, ctrls := newControlledWorld(t, 2, 0)
	entities := w.Entities()

	if !SetIntent(entities[0], component.Up, true) {
		t.Fatal("SetIntent() = false for an entity with a controller")
	}
	if !ctrls[0][0].Intent(component.Up) {
		t.Error("first controller did not receive the intent")
	}
	if ctrls[0][1].Intent(component.Up) {
		t.Error("second controller should be untouched")
	}
	if SetIntent(entities[1], component.Up, true) {
		t.Error("SetIntent() = true for an entity without a controller")
	}
}

func TestRouter_HandleKey_Broadcasts(t *testing.T) {
	w, ctrls := newControlledWorld(t, 1, 2, 0)
	r := NewRouter(w)

	if !r.HandleKey("d", true) {
		t.Fatal("HandleKey(d) = false")
	}
	for i, group := range ctrls {
		for j, c := range group {
			if !c.Intent(component.Right) {
				t.Errorf("controller %d/%d missed key-down", i, j)
			}
		}
	}

	r.HandleKey("right", false)
	for i, group := range ctrls {
		for j, c := range group {
			if c.Intent(component.Right) {
				t.Errorf("controller %d/%d missed key-up", i, j)
			}
		}
	}

	if r.HandleKey("q", true) {
		t.Error("HandleKey(q) = true for an unbound key")
	}
}

func TestRouter_Press_ReleasesAfterHold(t *testing.T) {
	w, ctrls := newControlledWorld(t, 1)
	r := NewRouter(w, WithHoldWindow(20*time.Millisecond))
	c := ctrls[0][0]

	if !r.Press("left") {
		t.Fatal("Press(left) = false")
	}
	if !c.Intent(component.Left) {
		t.Fatal("Press did not hold the direction")
	}

	deadline := time.Now().Add(time.Second)
	for c.Intent(component.Left) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Intent(component.Left) {
		t.Error("direction still held after the hold window")
	}
}

func TestRouter_Press_RepeatKeepsHeld(t *testing.T) {
	w, ctrls := newControlledWorld(t, 1)
	r := NewRouter(w, WithHoldWindow(200*time.Millisecond))
	c := ctrls[0][0]

	for i := 0; i < 5; i++ {
		r.Press("w")
		time.Sleep(10 * time.Millisecond)
	}
	if !c.Intent(component.Up) {
		t.Error("repeated presses should keep the direction held")
	}

	r.ReleaseAll()
	if c.Intent(component.Up) {
		t.Error("ReleaseAll left the direction held")
	}
	r.mu.Lock()
	pending := len(r.timers)
	r.mu.Unlock()
	if pending != 0 {
		t.Errorf("%d release timers still pending", pending)
	}
}

func TestRouter_WithKeymap(t *testing.T) {
	w, ctrls := newControlledWorld(t, 1)
	r := NewRouter(w, WithKeymap(Keymap{"j": component.Down}))

	if r.HandleKey("s", true) {
		t.Error("default binding should be replaced")
	}
	r.HandleKey("J", true)
	if !ctrls[0][0].Intent(component.Down) {
		t.Error("custom binding not applied")
	}
}
