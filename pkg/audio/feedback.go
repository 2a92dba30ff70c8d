// pkg/audio/feedback.go
package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-voidengine/pkg/config"
	"github.com/opd-ai/go-voidengine/pkg/event"
	"github.com/opd-ai/go-voidengine/pkg/logging"
)

// toneDuration is the length of one collision blip.
const toneDuration = 60 * time.Millisecond

// Player queues a stream for playback.
type Player interface {
	Play(s beep.Streamer)
}

// speakerPlayer mixes streams into the system speaker.
type speakerPlayer struct {
	mixer *beep.Mixer
}

func (p *speakerPlayer) Play(s beep.Streamer) {
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Feedback plays a tone when entities collide, at most once per cooldown.
type Feedback struct {
	rate     beep.SampleRate
	freq     float64
	cooldown time.Duration
	logger   *logging.Logger
	now      func() time.Time

	mu     sync.Mutex
	player Player
	mixer  *beep.Mixer
	last   time.Time
	played int
	sub    *event.Subscription
}

// NewFeedback creates silent feedback; call Init or SetPlayer to hear it.
func NewFeedback(cfg config.AudioConfig, logger *logging.Logger) *Feedback {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &Feedback{
		rate:     beep.SampleRate(cfg.SampleRate),
		freq:     cfg.Frequency,
		cooldown: time.Duration(cfg.CooldownMillis) * time.Millisecond,
		logger:   logger,
		now:      time.Now,
	}
}

// Init opens the system speaker. On failure feedback stays silent and the
// error is returned for the caller to log.
func (f *Feedback) Init() error {
	if f.rate <= 0 {
		return fmt.Errorf("audio: invalid sample rate %d", f.rate)
	}
	if err := speaker.Init(f.rate, f.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: failed to initialize speaker: %w", err)
	}
	mixer := &beep.Mixer{}
	speaker.Play(mixer)

	f.mu.Lock()
	f.mixer = mixer
	f.player = &speakerPlayer{mixer: mixer}
	f.mu.Unlock()

	f.logger.Info(context.Background(), "Audio feedback enabled",
		"sample_rate", int(f.rate),
		"frequency", f.freq,
	)
	return nil
}

// SetPlayer routes tones to p instead of the speaker.
func (f *Feedback) SetPlayer(p Player) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.player = p
}

// Attach subscribes to collision events on bus.
func (f *Feedback) Attach(bus *event.Bus) {
	sub := bus.Subscribe(event.EntityCollision, f.OnCollision)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sub.Cancel()
	f.sub = sub
}

// OnCollision plays a tone unless one played within the cooldown.
func (f *Feedback) OnCollision(ev event.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.player == nil {
		return
	}
	now := f.now()
	if f.played > 0 && now.Sub(f.last) < f.cooldown {
		return
	}
	f.last = now
	f.played++

	if c, ok := ev.(*event.CollisionEvent); ok {
		f.logger.Debug(context.Background(), "Collision tone", "entity_a", c.EntityA, "entity_b", c.EntityB)
	}
	f.player.Play(Tone(f.freq, toneDuration, f.rate))
}

// Played returns how many tones were started.
func (f *Feedback) Played() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.played
}

// Close unsubscribes and releases the speaker.
func (f *Feedback) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sub.Cancel()
	f.sub = nil
	f.player = nil
	if f.mixer != nil {
		speaker.Lock()
		f.mixer.Clear()
		speaker.Unlock()
		speaker.Close()
		f.mixer = nil
	}
	return nil
}
