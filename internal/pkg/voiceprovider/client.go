// Package voiceprovider wraps the ElevenLabs text-to-speech API. Every
// operation is usable in a fully offline posture: without a credential (or
// whenever the vendor fails) listings resolve to a builtin catalog and
// synthesis resolves to deterministic synthetic audio, with identical call
// signatures in both postures. Only input validation ever reaches callers
// as an error.
package voiceprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/VoxFoxApp/VoxFox/internal/pkg/cache"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/env"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/synth"
)

const (
	defaultAPIBaseURL = "https://api.elevenlabs.io"
	defaultModelID    = "eleven_monolingual_v1"

	metadataTimeout  = 10 * time.Second
	synthesisTimeout = 30 * time.Second

	voicesCacheKey = "voiceprovider:voices"
	voicesCacheTTL = time.Hour
)

// Client talks to the vendor TTS API with the synthetic synthesizer as its
// fallback path.
type Client struct {
	APIKey     string
	APIBaseURL string
	ModelID    string

	// CacheVoices enables the redis-backed catalog cache. Disabled in tests.
	CacheVoices bool

	MetadataClient  *http.Client
	SynthesisClient *http.Client

	synth *synth.Synthesizer
}

// NewClient creates a client with explicit credentials and default timeouts.
func NewClient(apiKey, baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultAPIBaseURL
	}
	return &Client{
		APIKey:          strings.TrimSpace(apiKey),
		APIBaseURL:      strings.TrimRight(baseURL, "/"),
		ModelID:         defaultModelID,
		MetadataClient:  &http.Client{Timeout: metadataTimeout},
		SynthesisClient: &http.Client{Timeout: synthesisTimeout},
		synth:           synth.New(synth.DefaultSampleRate),
	}
}

// NewClientFromEnv builds the client from environment configuration. The
// presence of ELEVENLABS_API_KEY is the sole switch between live and demo
// behavior.
func NewClientFromEnv() *Client {
	c := NewClient(
		env.GetEnv("ELEVENLABS_API_KEY", ""),
		env.GetEnv("ELEVENLABS_API_BASE_URL", defaultAPIBaseURL),
	)
	c.CacheVoices = true
	return c
}

// IsConfigured reports whether a vendor credential is present. It is the
// only way callers can distinguish live from synthetic output.
func (c *Client) IsConfigured() bool {
	return c.APIKey != ""
}

// ListVoices returns the available voice catalog. It never fails: without a
// credential, or on any vendor error, it returns the builtin demo catalog.
func (c *Client) ListVoices(ctx context.Context) []Voice {
	if !c.IsConfigured() {
		return BuiltinVoices()
	}

	if c.CacheVoices {
		if cached, err := cache.Get(voicesCacheKey); err == nil && cached != "" {
			var voices []Voice
			if err := json.Unmarshal([]byte(cached), &voices); err == nil && len(voices) > 0 {
				return voices
			}
		}
	}

	voices, reason := c.fetchVoices(ctx)
	if reason != FallbackNone {
		log.Printf("voiceprovider: voice listing fell back to builtin catalog (%s)", reason)
		return BuiltinVoices()
	}

	if c.CacheVoices {
		if data, err := json.Marshal(voices); err == nil {
			if err := cache.Set(voicesCacheKey, data, voicesCacheTTL); err != nil {
				log.Printf("voiceprovider: failed to cache voice catalog: %v", err)
			}
		}
	}
	return voices
}

func (c *Client) fetchVoices(ctx context.Context) ([]Voice, FallbackReason) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/v1/voices", nil)
	if err != nil {
		return nil, FallbackVendorError
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.MetadataClient.Do(req)
	if err != nil {
		return nil, FallbackNetwork
	}
	defer resp.Body.Close()

	if reason := statusFallback(resp.StatusCode); reason != FallbackNone {
		return nil, reason
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	var out struct {
		Voices []Voice `json:"voices"`
	}
	if err := json.Unmarshal(body, &out); err != nil || len(out.Voices) == 0 {
		return nil, FallbackEmptyResponse
	}
	return out.Voices, FallbackNone
}

// ValidateText reports the validation error GenerateSpeech would return for
// the given text without touching the vendor. Callers can refuse a request
// before reserving a quota unit.
func ValidateText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrTextEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// GenerateSpeech synthesizes the text with the given voice. Validation
// failures (empty text, text over 5000 characters) are the only errors the
// caller ever sees; vendor failures resolve to synthetic audio.
func (c *Client) GenerateSpeech(ctx context.Context, text, voiceID string, settings VoiceSettings) (*Audio, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(text)

	if !c.IsConfigured() {
		return c.synthetic(trimmed), nil
	}

	audio, reason := c.synthesize(ctx, trimmed, voiceID, settings.Clamped())
	if reason != FallbackNone {
		log.Printf("voiceprovider: synthesis for voice %s fell back to synthetic audio (%s)", voiceID, reason)
		return c.synthetic(trimmed), nil
	}
	return audio, nil
}

func (c *Client) synthesize(ctx context.Context, text, voiceID string, settings VoiceSettings) (*Audio, FallbackReason) {
	payload := struct {
		Text          string        `json:"text"`
		ModelID       string        `json:"model_id"`
		VoiceSettings VoiceSettings `json:"voice_settings"`
	}{
		Text:          text,
		ModelID:       c.ModelID,
		VoiceSettings: settings,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, FallbackVendorError
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.APIBaseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, FallbackVendorError
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.SynthesisClient.Do(req)
	if err != nil {
		return nil, FallbackNetwork
	}
	defer resp.Body.Close()

	if reason := statusFallback(resp.StatusCode); reason != FallbackNone {
		return nil, reason
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil || len(data) == 0 {
		return nil, FallbackEmptyResponse
	}
	return &Audio{Data: data, MIMEType: "audio/mpeg"}, FallbackNone
}

// GetVoiceSettings fetches the stored settings for a voice, resolving to
// defaults without a credential or on any vendor failure. It never fails.
func (c *Client) GetVoiceSettings(ctx context.Context, voiceID string) VoiceSettings {
	if !c.IsConfigured() {
		return DefaultVoiceSettings()
	}

	url := fmt.Sprintf("%s/v1/voices/%s/settings", c.APIBaseURL, voiceID)
	var settings VoiceSettings
	if reason := c.getJSON(ctx, url, &settings); reason != FallbackNone {
		log.Printf("voiceprovider: voice settings for %s fell back to defaults (%s)", voiceID, reason)
		return DefaultVoiceSettings()
	}
	return settings.Clamped()
}

// GetUserSubscription fetches the vendor subscription summary, resolving to
// a free-tier default without a credential or on failure. It never fails.
func (c *Client) GetUserSubscription(ctx context.Context) Subscription {
	free := Subscription{Tier: "free", CharacterLimit: 10000, Status: "active"}
	if !c.IsConfigured() {
		return free
	}

	var sub Subscription
	if reason := c.getJSON(ctx, c.APIBaseURL+"/v1/user/subscription", &sub); reason != FallbackNone {
		log.Printf("voiceprovider: subscription lookup fell back to default (%s)", reason)
		return free
	}
	return sub
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) FallbackReason {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FallbackVendorError
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.MetadataClient.Do(req)
	if err != nil {
		return FallbackNetwork
	}
	defer resp.Body.Close()

	if reason := statusFallback(resp.StatusCode); reason != FallbackNone {
		return reason
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(body, out); err != nil {
		return FallbackEmptyResponse
	}
	return FallbackNone
}

func (c *Client) synthetic(text string) *Audio {
	data := c.synth.Synthesize(text)
	return &Audio{Data: data, MIMEType: "audio/wav", Synthetic: true}
}

func statusFallback(status int) FallbackReason {
	switch {
	case status >= 200 && status < 300:
		return FallbackNone
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return FallbackAuth
	case status == http.StatusTooManyRequests:
		return FallbackRateLimited
	default:
		return FallbackVendorError
	}
}
