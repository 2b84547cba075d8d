package audio

import (
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gravpath/parameter"
)

// drain streams s to exhaustion and returns every sample
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok || n == 0 {
			return out
		}
	}
}

func TestCrashSoundLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	s, err := CrashSound(rate)
	require.NoError(t, err)

	samples := drain(s)
	assert.Equal(t, 2*rate.N(parameter.CrashNoteDuration), len(samples))
}

func TestWarningSoundEnvelope(t *testing.T) {
	rate := beep.SampleRate(44100)
	s, err := WarningSound(rate)
	require.NoError(t, err)

	samples := drain(s)
	require.Equal(t, rate.N(parameter.WarningDuration), len(samples))

	// Attack starts from silence, release ends near silence
	assert.Equal(t, 0.0, samples[0][0])
	assert.Less(t, math.Abs(samples[len(samples)-1][0]), 0.01)

	peak := 0.0
	for _, smp := range samples {
		peak = max(peak, math.Abs(smp[0]))
		assert.LessOrEqual(t, math.Abs(smp[0]), 1.0)
	}
	assert.Greater(t, peak, 0.0)
}

func TestNewVolumeSilent(t *testing.T) {
	rate := beep.SampleRate(44100)
	s, err := tone(rate, 440, parameter.WarningDuration, 0, 0)
	require.NoError(t, err)

	for _, smp := range drain(newVolume(s, 0)) {
		assert.Equal(t, 0.0, smp[0])
	}
}

// Playing without an initialized speaker must be a silent no-op
func TestAlertPlayerGracefulDegradation(t *testing.T) {
	ap := NewAlertPlayer()
	assert.NotPanics(t, func() {
		ap.PlayCrash()
		ap.PlayWarning()
		ap.SetMuted(true)
		ap.Cleanup()
	})
	assert.True(t, ap.Muted())
}
