// Package synth generates deterministic placeholder speech audio. It is the
// fallback path taken whenever no vendor credential is configured or the
// vendor synthesis call fails: the same text at the same sample rate always
// produces byte-identical WAV output, so callers (and tests) can rely on it.
package synth

import (
	"math"
	"strings"
)

const (
	// DefaultSampleRate matches the typical browser audio context rate.
	DefaultSampleRate = 44100

	minDurationSec = 2.0
	maxDurationSec = 10.0

	secondsPerChar = 0.1

	// Fraction of each word slot rendered as an inter-word pause.
	wordGapFraction = 0.1

	vibratoRateHz = 5.0
	vibratoDepth  = 8.0

	masterAmplitude = 0.15
)

// Synthesizer renders text into a synthetic spoken-word waveform.
type Synthesizer struct {
	sampleRate int
}

// New returns a synthesizer at the given sample rate, falling back to
// DefaultSampleRate for non-positive values.
func New(sampleRate int) *Synthesizer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Synthesizer{sampleRate: sampleRate}
}

// SampleRate returns the configured output sample rate.
func (s *Synthesizer) SampleRate() int {
	return s.sampleRate
}

// Duration returns the audio duration in seconds for the given text:
// 0.1s per character, clamped to [2s, 10s].
func (s *Synthesizer) Duration(text string) float64 {
	d := float64(len(text)) * secondsPerChar
	if d < minDurationSec {
		return minDurationSec
	}
	if d > maxDurationSec {
		return maxDurationSec
	}
	return d
}

// Synthesize renders the trimmed text into a complete WAV blob. It never
// returns an empty slice: when the text has no renderable content the result
// is a short silent placeholder so callers always receive playable bytes.
func (s *Synthesizer) Synthesize(text string) []byte {
	text = strings.TrimSpace(text)
	samples := s.render(text)
	if len(samples) == 0 {
		return Placeholder(s.sampleRate)
	}
	return EncodeWAV(samples, s.sampleRate)
}

// render computes the raw mono sample array for the text.
func (s *Synthesizer) render(text string) []float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	duration := s.Duration(text)
	wordCount := float64(len(words))
	totalSamples := int(duration * float64(s.sampleRate))
	samples := make([]float64, totalSamples)

	freqs := make([]float64, len(words))
	for i, w := range words {
		freqs[i] = baseFrequency(w)
	}

	for i := 0; i < totalSamples; i++ {
		t := float64(i) / float64(s.sampleRate)
		progress := t / duration
		wordPos := progress * wordCount
		wordIndex := int(wordPos)
		if wordIndex >= len(words) {
			wordIndex = len(words) - 1
		}
		wordProgress := wordPos - math.Floor(wordPos)

		// Inter-word pause at the start of every word after the first.
		if wordProgress < wordGapFraction && wordIndex > 0 {
			continue
		}

		freq := freqs[wordIndex] + vibratoDepth*math.Sin(2*math.Pi*vibratoRateHz*t)

		sample := math.Sin(2*math.Pi*freq*t) +
			0.4*math.Sin(2*math.Pi*freq*2.5*t) +
			0.2*math.Sin(2*math.Pi*freq*3.8*t)

		// Half-sine envelope over the word, scaled into [0.2, 1.0].
		envelope := 0.2 + 0.8*math.Sin(math.Pi*wordProgress)

		samples[i] = sample * envelope * masterAmplitude
	}

	return samples
}

// baseFrequency derives the per-word fundamental: 120 Hz plus the sum of
// the word's byte values modulo 100.
func baseFrequency(word string) float64 {
	sum := 0
	for _, b := range []byte(word) {
		sum += int(b)
	}
	return 120 + float64(sum%100)
}

// Placeholder returns a minimal non-empty WAV blob (250ms of silence) used
// when synthesis has nothing to render.
func Placeholder(sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return EncodeWAV(make([]float64, sampleRate/4), sampleRate)
}
