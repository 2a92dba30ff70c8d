// pkg/render/terminal.go
package render

import (
	"fmt"
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// halfBlock draws the upper framebuffer row in the foreground and the
// lower one in the background.
const halfBlock = '▀'

// TerminalPresenter shows the framebuffer in a terminal. Each cell covers
// two sampled rows; the sampling step shrinks the framebuffer to fit.
type TerminalPresenter struct {
	screen tcell.Screen
	keys   KeySink
	quit   func()

	opened bool
	once   sync.Once
	done   chan struct{}
}

// NewTerminalPresenter creates a presenter drawing to screen. A nil screen
// is replaced by the real terminal on Open. Key presses go to keys, and
// Esc or Ctrl-C call quit. Either may be nil.
func NewTerminalPresenter(screen tcell.Screen, keys KeySink, quit func()) *TerminalPresenter {
	return &TerminalPresenter{
		screen: screen,
		keys:   keys,
		quit:   quit,
		done:   make(chan struct{}),
	}
}

// Open initializes the screen and starts reading key events.
func (p *TerminalPresenter) Open() error {
	if p.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to create terminal screen: %w", err)
		}
		p.screen = screen
	}
	if err := p.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal screen: %w", err)
	}
	p.screen.HideCursor()
	p.screen.Clear()

	p.opened = true
	go p.pollEvents()
	return nil
}

func (p *TerminalPresenter) pollEvents() {
	defer close(p.done)
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return
		}
		p.handleEvent(ev)
	}
}

func (p *TerminalPresenter) handleEvent(ev tcell.Event) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return
	}
	if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC {
		if p.quit != nil {
			p.quit()
		}
		return
	}
	if name := keyName(key); name != "" && p.keys != nil {
		p.keys.Press(name)
	}
}

// keyName maps a terminal key to a logical key name.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyRune:
		return string(unicode.ToLower(ev.Rune()))
	}
	return ""
}

// Present implements Presenter.
func (p *TerminalPresenter) Present(fb *Framebuffer) error {
	if p.screen == nil {
		return fmt.Errorf("terminal presenter not opened")
	}
	cols, rows := p.screen.Size()
	if fb == nil || cols <= 0 || rows <= 0 {
		return nil
	}
	step := cellStep(fb.Width(), fb.Height(), cols, rows)

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			x := cx * step
			upper := fb.At(x, 2*cy*step)
			lower := fb.At(x, (2*cy+1)*step)
			style := tcell.StyleDefault.
				Foreground(terminalColor(upper)).
				Background(terminalColor(lower))
			p.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	p.screen.Show()
	return nil
}

// Close restores the terminal and waits for the event reader to stop.
func (p *TerminalPresenter) Close() error {
	p.once.Do(func() {
		if !p.opened {
			return
		}
		p.screen.Fini()
		<-p.done
	})
	return nil
}

// cellStep returns the smallest whole number of framebuffer pixels per
// cell that fits width x height into cols x 2*rows.
func cellStep(width, height, cols, rows int) int {
	step := 1
	if s := (width + cols - 1) / cols; s > step {
		step = s
	}
	if s := (height + 2*rows - 1) / (2 * rows); s > step {
		step = s
	}
	return step
}

// terminalColor blends a packed ARGB pixel over black.
func terminalColor(c uint32) tcell.Color {
	a := (c >> 24) & 0xFF
	r := ((c >> 16) & 0xFF) * a / 0xFF
	g := ((c >> 8) & 0xFF) * a / 0xFF
	b := (c & 0xFF) * a / 0xFF
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
