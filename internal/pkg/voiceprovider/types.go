package voiceprovider

import "errors"

// MaxTextLength is the vendor's per-request character cap.
const MaxTextLength = 5000

// Validation failures are the only errors GenerateSpeech propagates;
// every vendor-side failure resolves to the synthetic fallback instead.
var (
	ErrTextEmpty   = errors.New("voiceprovider: text is empty")
	ErrTextTooLong = errors.New("voiceprovider: text exceeds 5000 characters")
)

// Voice describes one selectable voice model. Instances are immutable once
// fetched; the client caches the catalog for the session.
type Voice struct {
	ID          string            `json:"voice_id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// VoiceSettings are the tunable synthesis parameters. Numeric fields are
// clamped to [0, 1] before any request leaves the client.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings returns the vendor-recommended defaults.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.75,
		Style:           0.0,
		UseSpeakerBoost: true,
	}
}

// Clamped returns a copy with every numeric field forced into [0, 1].
func (s VoiceSettings) Clamped() VoiceSettings {
	s.Stability = clamp01(s.Stability)
	s.SimilarityBoost = clamp01(s.SimilarityBoost)
	s.Style = clamp01(s.Style)
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Subscription mirrors the vendor's subscription summary.
type Subscription struct {
	Tier           string `json:"tier"`
	CharacterCount int    `json:"character_count"`
	CharacterLimit int    `json:"character_limit"`
	Status         string `json:"status"`
}

// Audio is a completed synthesis result. Synthetic marks fallback output;
// callers cannot otherwise distinguish it from vendor audio.
type Audio struct {
	Data      []byte
	MIMEType  string
	Synthetic bool
}

// FallbackReason categorizes why a vendor call resolved to the fallback
// value. It is logged, never surfaced as an error.
type FallbackReason string

const (
	FallbackNone          FallbackReason = ""
	FallbackNotConfigured FallbackReason = "not_configured"
	FallbackAuth          FallbackReason = "auth_failure"
	FallbackRateLimited   FallbackReason = "rate_limited"
	FallbackNetwork       FallbackReason = "network_error"
	FallbackVendorError   FallbackReason = "vendor_error"
	FallbackEmptyResponse FallbackReason = "empty_response"
)
