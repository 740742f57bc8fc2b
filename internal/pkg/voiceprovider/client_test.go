package voiceprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(apiKey, baseURL string) *Client {
	c := NewClient(apiKey, baseURL)
	c.CacheVoices = false
	return c
}

func TestGenerateSpeechValidation(t *testing.T) {
	t.Parallel()

	var vendorCalled atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vendorCalled.Store(true)
	}))
	defer srv.Close()

	c := newTestClient("test-key", srv.URL)

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "empty text", text: "", wantErr: ErrTextEmpty},
		{name: "whitespace only", text: "  \t\n ", wantErr: ErrTextEmpty},
		{name: "over 5000 chars", text: strings.Repeat("a", 5001), wantErr: ErrTextTooLong},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			audio, err := c.GenerateSpeech(context.Background(), tc.text, "demo-rachel", DefaultVoiceSettings())
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, audio)
		})
	}

	assert.False(t, vendorCalled.Load(), "validation failures must never reach the network")
}

func TestValidateText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "empty", text: "", wantErr: ErrTextEmpty},
		{name: "whitespace only", text: " \n\t", wantErr: ErrTextEmpty},
		{name: "at the cap", text: strings.Repeat("x", MaxTextLength), wantErr: nil},
		{name: "one over the cap", text: strings.Repeat("x", MaxTextLength+1), wantErr: ErrTextTooLong},
		{name: "cap counts runes not bytes", text: strings.Repeat("ä", MaxTextLength), wantErr: nil},
		{name: "ordinary text", text: "hello world", wantErr: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateText(tc.text)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestGenerateSpeechUnconfiguredIsSynthetic(t *testing.T) {
	t.Parallel()

	c := newTestClient("", "")
	audio, err := c.GenerateSpeech(context.Background(), "hello world", "demo-rachel", DefaultVoiceSettings())
	require.NoError(t, err)
	require.NotNil(t, audio)
	assert.True(t, audio.Synthetic)
	assert.Equal(t, "audio/wav", audio.MIMEType)
	assert.Equal(t, "RIFF", string(audio.Data[0:4]))
}

func TestGenerateSpeechReturnsVendorBytes(t *testing.T) {
	t.Parallel()

	vendorAudio := []byte{0xFF, 0xFB, 0x90, 0x44, 0x01, 0x02}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voice-42", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))

		var body struct {
			Text          string        `json:"text"`
			ModelID       string        `json:"model_id"`
			VoiceSettings VoiceSettings `json:"voice_settings"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body.Text)
		assert.NotEmpty(t, body.ModelID)
		// Out-of-range settings must arrive clamped.
		assert.Equal(t, 1.0, body.VoiceSettings.Stability)
		assert.Equal(t, 0.0, body.VoiceSettings.Style)

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(vendorAudio)
	}))
	defer srv.Close()

	c := newTestClient("test-key", srv.URL)
	audio, err := c.GenerateSpeech(context.Background(), "hello", "voice-42", VoiceSettings{Stability: 3.5, SimilarityBoost: 0.75, Style: -2})
	require.NoError(t, err)
	assert.False(t, audio.Synthetic)
	assert.Equal(t, "audio/mpeg", audio.MIMEType)
	assert.Equal(t, vendorAudio, audio.Data)
}

func TestGenerateSpeechFallsBackOnVendorFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := newTestClient("test-key", srv.URL)
			audio, err := c.GenerateSpeech(context.Background(), "fallback please", "voice-1", DefaultVoiceSettings())
			require.NoError(t, err, "vendor failures must never surface")
			require.NotNil(t, audio)
			assert.True(t, audio.Synthetic)
			assert.NotEmpty(t, audio.Data)
		})
	}
}

func TestGenerateSpeechFallsBackOnTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient("test-key", srv.URL)
	c.SynthesisClient = &http.Client{Timeout: 20 * time.Millisecond}

	audio, err := c.GenerateSpeech(context.Background(), "slow vendor", "voice-1", DefaultVoiceSettings())
	require.NoError(t, err)
	assert.True(t, audio.Synthetic)
}

func TestListVoicesUnconfigured(t *testing.T) {
	t.Parallel()

	c := newTestClient("", "")
	voices := c.ListVoices(context.Background())
	assert.Len(t, voices, 11)
	assert.Equal(t, "Rachel", voices[0].Name)
}

func TestListVoicesMapsVendorRecords(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/voices", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"voices": []map[string]interface{}{
				{"voice_id": "v1", "name": "Nova", "category": "premade", "labels": map[string]string{"gender": "female"}},
				{"voice_id": "v2", "name": "Atlas", "category": "cloned"},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient("test-key", srv.URL)
	voices := c.ListVoices(context.Background())
	require.Len(t, voices, 2)
	assert.Equal(t, "v1", voices[0].ID)
	assert.Equal(t, "Nova", voices[0].Name)
	assert.Equal(t, "female", voices[0].Labels["gender"])
}

func TestListVoicesFallsBackOnFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient("bad-key", srv.URL)
	voices := c.ListVoices(context.Background())
	assert.Len(t, voices, 11, "listing must fall back to the builtin catalog, never error")
}

func TestGetVoiceSettingsFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	c := newTestClient("", "")
	assert.Equal(t, DefaultVoiceSettings(), c.GetVoiceSettings(context.Background(), "demo-rachel"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c = newTestClient("test-key", srv.URL)
	assert.Equal(t, DefaultVoiceSettings(), c.GetVoiceSettings(context.Background(), "demo-rachel"))
}

func TestGetUserSubscriptionNeverFails(t *testing.T) {
	t.Parallel()

	c := newTestClient("", "")
	sub := c.GetUserSubscription(context.Background())
	assert.Equal(t, "free", sub.Tier)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Subscription{Tier: "creator", CharacterCount: 100, CharacterLimit: 100000, Status: "active"})
	}))
	defer srv.Close()

	c = newTestClient("test-key", srv.URL)
	sub = c.GetUserSubscription(context.Background())
	assert.Equal(t, "creator", sub.Tier)
	assert.Equal(t, 100000, sub.CharacterLimit)
}
