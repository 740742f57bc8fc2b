package controllers

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoxFoxApp/VoxFox/app/models"
)

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	now := time.Date(2024, 5, 1, 12, 34, 56, 0, time.Local)
	formatted := formatTimePtr(&now)
	assert.IsType(t, "", formatted)

	expected := now.UTC().Format(time.RFC3339)
	assert.Equal(t, expected, formatted)
}

func TestHandleListPlans(t *testing.T) {
	app := fiber.New()
	app.Get("/plans", HandleListPlans)

	resp, err := app.Test(httptest.NewRequest("GET", "/plans", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"7 Days"`)
	assert.Contains(t, string(body), `999999`)
	assert.Contains(t, string(body), `"Free"`)
}

func TestGetClientIP(t *testing.T) {
	app := fiber.New()
	app.Get("/ip", func(c *fiber.Ctx) error {
		return c.SendString(GetClientIP(c))
	})

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "cloudflare header wins",
			headers: map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"},
			want:    "203.0.113.7",
		},
		{
			name:    "first forwarded entry",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2"},
			want:    "198.51.100.1",
		},
		{
			name:    "falls back to remote addr",
			headers: nil,
			want:    "0.0.0.0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ip", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(body))
		})
	}
}

// No repositories are wired up in this test binary, so reaching the quota
// reservation would panic. A clean 422 proves invalid text is refused before
// any quota state is touched.
func TestHandleGenerateVoiceRejectsInvalidTextEarly(t *testing.T) {
	app := fiber.New()
	app.Post("/generate", HandleGenerateVoice)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty text", body: `{"text":""}`},
		{name: "whitespace only", body: `{"text":"  \t "}`},
		{name: "over character cap", body: `{"text":"` + strings.Repeat("a", 5001) + `"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/generate", strings.NewReader(tc.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), "invalid_text")
		})
	}
}

func TestShouldPurgeArchive(t *testing.T) {
	tests := []struct {
		name string
		gen  models.VoiceGeneration
		want bool
	}{
		{name: "archived with key", gen: models.VoiceGeneration{Archived: true, ArchiveKey: "voices/2026/08/x.wav"}, want: true},
		{name: "never archived", gen: models.VoiceGeneration{}, want: false},
		{name: "archived flag without key", gen: models.VoiceGeneration{Archived: true}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shouldPurgeArchive(&tc.gen))
		})
	}
}

func TestHandleHealth(t *testing.T) {
	app := fiber.New()
	app.Get("/health", HandleHealth)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
