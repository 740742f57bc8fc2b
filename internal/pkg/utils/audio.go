package utils

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// SanitizeFilenamePart reduces arbitrary text to a filesystem- and
// header-safe token. Whitespace runs collapse to single underscores.
func SanitizeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	return s
}

// SniffAudioExtension inspects the payload magic bytes and returns "wav" for
// RIFF containers, "mp3" otherwise. Vendor audio arrives as MPEG frames
// while the offline synthesizer always emits RIFF.
func SniffAudioExtension(data []byte) string {
	if len(data) >= 4 && bytes.Equal(data[:4], []byte("RIFF")) {
		return "wav"
	}
	return "mp3"
}

// AudioMIMEType maps a sniffed extension to its Content-Type.
func AudioMIMEType(ext string) string {
	if ext == "wav" {
		return "audio/wav"
	}
	return "audio/mpeg"
}

// DownloadFilename builds the user-facing filename for a generation:
// voice name, a snippet of the text, and a timestamp for uniqueness.
func DownloadFilename(voiceName, text string, ts time.Time, ext string) string {
	voice := SanitizeFilenamePart(voiceName)
	if voice == "" {
		voice = "voice"
	}
	snippet := text
	if len(snippet) > 20 {
		snippet = snippet[:20]
	}
	snippet = SanitizeFilenamePart(snippet)
	if snippet == "" {
		snippet = "audio"
	}
	return fmt.Sprintf("%s_%s_%d.%s", voice, snippet, ts.Unix(), ext)
}
