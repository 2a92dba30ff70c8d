// pkg/render/renderer_test.go
package render

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/opd-ai/go-voidengine/pkg/logging"
)

func TestNullPresenter_Present_LogsFrame(t *testing.T) {
	var buf bytes.Buffer
	p := NewNullPresenter(logging.NewLoggerWithWriter(&buf, slog.LevelDebug))

	if err := p.Present(NewFramebuffer(4, 2)); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if err := p.Present(nil); err != nil {
		t.Fatalf("Present(nil) error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Present called") {
		t.Errorf("Expected log to contain 'Present called', got: %s", output)
	}
	if !strings.Contains(output, `"width":4`) {
		t.Errorf("Expected log to contain the framebuffer width, got: %s", output)
	}
	if p.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", p.Frames())
	}
}

func TestNullPresenter_ImplementsPresenter(t *testing.T) {
	var _ Presenter = NewNullPresenter(logging.Discard())
}
