package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilenamePart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello_world", SanitizeFilenamePart("  Hello   world! "))
	assert.Equal(t, "Rachel", SanitizeFilenamePart("Rachel"))
	assert.Equal(t, "", SanitizeFilenamePart("!@#$%"))
}

func TestSniffAudioExtension(t *testing.T) {
	t.Parallel()

	wav := append([]byte("RIFF"), make([]byte, 40)...)
	assert.Equal(t, "wav", SniffAudioExtension(wav))
	assert.Equal(t, "mp3", SniffAudioExtension([]byte{0xFF, 0xFB, 0x90, 0x00}))
	assert.Equal(t, "mp3", SniffAudioExtension(nil))

	assert.Equal(t, "audio/wav", AudioMIMEType("wav"))
	assert.Equal(t, "audio/mpeg", AudioMIMEType("mp3"))
}

func TestDownloadFilename(t *testing.T) {
	t.Parallel()

	ts := time.Unix(1750000000, 0)
	name := DownloadFilename("Rachel", "Hello world, this is a long sentence", ts, "mp3")
	assert.Equal(t, "Rachel_Hello_world_this_is_1750000000.mp3", name)

	name = DownloadFilename("", "", ts, "wav")
	assert.Equal(t, "voice_audio_1750000000.wav", name)
}
