package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/gravpath/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// AlertPlayer plays the sandbox cues through a shared mixer
// Every method is a no-op until Initialize succeeds, audio is optional
type AlertPlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewAlertPlayer creates an uninitialized player
func NewAlertPlayer() *AlertPlayer {
	return &AlertPlayer{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker, safe to call twice
func (ap *AlertPlayer) Initialize() error {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	if ap.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}

	speaker.Play(ap.mixer)
	ap.initialized = true
	return nil
}

// Cleanup drops queued cues and closes the speaker
func (ap *AlertPlayer) Cleanup() {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	if !ap.initialized {
		return
	}

	speaker.Lock()
	ap.mixer.Clear()
	speaker.Unlock()

	speaker.Close()
	ap.initialized = false
}

// SetMuted toggles output without closing the device
func (ap *AlertPlayer) SetMuted(muted bool) {
	ap.mu.Lock()
	ap.muted = muted
	ap.mu.Unlock()
}

// Muted reports the mute state
func (ap *AlertPlayer) Muted() bool {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return ap.muted
}

// PlayCrash queues the falling two-tone crash alert
func (ap *AlertPlayer) PlayCrash() {
	ap.play(CrashSound)
}

// PlayWarning queues the short impact ping
func (ap *AlertPlayer) PlayWarning() {
	ap.play(WarningSound)
}

func (ap *AlertPlayer) play(build func(beep.SampleRate) (beep.Streamer, error)) {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	if !ap.initialized || ap.muted {
		return
	}

	s, err := build(sampleRate)
	if err != nil {
		return
	}

	speaker.Lock()
	ap.mixer.Add(s)
	speaker.Unlock()
}

// CrashSound builds the crash alert: high note then low note
func CrashSound(rate beep.SampleRate) (beep.Streamer, error) {
	high, err := tone(rate, parameter.CrashToneHigh, parameter.CrashNoteDuration, parameter.CrashAttack, parameter.CrashRelease)
	if err != nil {
		return nil, err
	}
	low, err := tone(rate, parameter.CrashToneLow, parameter.CrashNoteDuration, parameter.CrashAttack, parameter.CrashRelease)
	if err != nil {
		return nil, err
	}
	return newVolume(beep.Seq(high, low), parameter.CrashVolume), nil
}

// WarningSound builds the impact ping
func WarningSound(rate beep.SampleRate) (beep.Streamer, error) {
	ping, err := tone(rate, parameter.WarningTone, parameter.WarningDuration, parameter.WarningAttack, parameter.WarningRelease)
	if err != nil {
		return nil, err
	}
	return newVolume(ping, parameter.WarningVolume), nil
}

// tone is a shaped sine of fixed duration
func tone(rate beep.SampleRate, freq float64, duration, attack, release time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("sine %gHz: %w", freq, err)
	}
	return newEnvelope(beep.Take(rate.N(duration), sine), duration, attack, release, rate), nil
}

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := max(total-att-rel, 0)

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// math.Log2(0) is -Inf, so 0 volume becomes silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
