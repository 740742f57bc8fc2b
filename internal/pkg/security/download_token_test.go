package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateDownloadToken(42, "abc-123", time.Minute, "s3cret")
	require.NoError(t, err)

	claims, err := VerifyDownloadToken(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "abc-123", claims.GenerationID)
}

func TestDownloadTokenRejectsTampering(t *testing.T) {
	t.Parallel()

	token, err := GenerateDownloadToken(42, "abc-123", time.Minute, "s3cret")
	require.NoError(t, err)

	_, err = VerifyDownloadToken(token, "wrong-secret")
	assert.Error(t, err)

	_, err = VerifyDownloadToken(token+"x", "s3cret")
	assert.Error(t, err)

	_, err = VerifyDownloadToken("not-a-token", "s3cret")
	assert.Error(t, err)
}

func TestDownloadTokenExpiry(t *testing.T) {
	t.Parallel()

	token, err := GenerateDownloadToken(42, "abc-123", -time.Second, "s3cret")
	require.NoError(t, err)

	_, err = VerifyDownloadToken(token, "s3cret")
	assert.ErrorContains(t, err, "expired")
}

func TestDownloadTokenRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := GenerateDownloadToken(42, "abc-123", time.Minute, "")
	assert.Error(t, err)
	_, err = VerifyDownloadToken("a.b", "")
	assert.Error(t, err)
}
