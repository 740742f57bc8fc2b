package synth

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wavDataBytes(t *testing.T, blob []byte) []byte {
	t.Helper()
	require.GreaterOrEqual(t, len(blob), wavHeaderSize)
	dataSize := binary.LittleEndian.Uint32(blob[40:44])
	require.Equal(t, int(dataSize), len(blob)-wavHeaderSize)
	return blob[wavHeaderSize:]
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	t.Parallel()

	s := New(DefaultSampleRate)
	first := s.Synthesize("hello world")
	second := s.Synthesize("hello world")
	assert.True(t, bytes.Equal(first, second), "same text must produce byte-identical output")
}

func TestSynthesizeDurationBounds(t *testing.T) {
	t.Parallel()

	s := New(DefaultSampleRate)

	tests := []struct {
		name    string
		text    string
		wantSec float64
	}{
		{name: "single char floors at 2s", text: "a", wantSec: 2.0},
		{name: "200 chars caps at 10s", text: strings.Repeat("ab je", 40), wantSec: 10.0},
		{name: "50 chars maps to 5s", text: strings.Repeat("voice puma ", 4) + "abcdef", wantSec: 5.0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.wantSec, s.Duration(tc.text))

			blob := s.Synthesize(tc.text)
			data := wavDataBytes(t, blob)
			gotSec := float64(len(data)/2) / float64(DefaultSampleRate)
			assert.InDelta(t, tc.wantSec, gotSec, 0.01)
		})
	}
}

func TestSynthesizeWAVHeader(t *testing.T) {
	t.Parallel()

	blob := New(22050).Synthesize("header check")
	require.GreaterOrEqual(t, len(blob), wavHeaderSize)

	assert.Equal(t, "RIFF", string(blob[0:4]))
	assert.Equal(t, "WAVE", string(blob[8:12]))
	assert.Equal(t, "fmt ", string(blob[12:16]))
	assert.Equal(t, "data", string(blob[36:40]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(blob[20:22]), "PCM format")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(blob[22:24]), "mono")
	assert.Equal(t, uint32(22050), binary.LittleEndian.Uint32(blob[24:28]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(blob[34:36]))
}

func TestInterWordGapIsSilent(t *testing.T) {
	t.Parallel()

	// "hello world": 11 chars -> 2s duration, two word slots of 1s each.
	// The first 10% of the second slot (t in [1.0s, 1.1s)) must be silence,
	// the middle of each slot must carry energy.
	s := New(DefaultSampleRate)
	data := wavDataBytes(t, s.Synthesize("hello world"))

	sliceEnergy := func(fromSec, toSec float64) int64 {
		var energy int64
		from := int(fromSec * DefaultSampleRate)
		to := int(toSec * DefaultSampleRate)
		for i := from; i < to; i++ {
			v := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
			if v < 0 {
				v = -v
			}
			energy += int64(v)
		}
		return energy
	}

	assert.Zero(t, sliceEnergy(1.0, 1.09), "inter-word gap must be silent")
	assert.Positive(t, sliceEnergy(0.4, 0.6), "first word must carry energy")
	assert.Positive(t, sliceEnergy(1.4, 1.6), "second word must carry energy")
}

func TestSynthesizeNeverReturnsEmpty(t *testing.T) {
	t.Parallel()

	s := New(DefaultSampleRate)
	for _, text := range []string{"", "   ", "\t\n"} {
		blob := s.Synthesize(text)
		require.NotEmpty(t, blob, "text %q", text)
		assert.Equal(t, "RIFF", string(blob[0:4]))
		assert.Greater(t, len(blob), wavHeaderSize)
	}
}

func TestBaseFrequencyRange(t *testing.T) {
	t.Parallel()

	for _, w := range []string{"a", "hello", "world", "zzzzzzzz"} {
		f := baseFrequency(w)
		assert.GreaterOrEqual(t, f, 120.0)
		assert.Less(t, f, 220.0)
	}
}
