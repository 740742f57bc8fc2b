package jobqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobType(t *testing.T) {
	tests := []struct {
		name     string
		jobType  JobType
		expected string
	}{
		{"S3 Archive", JobTypeS3Archive, "s3_archive"},
		{"S3 Delete", JobTypeS3Delete, "s3_delete"},
		{"Send Mail", JobTypeSendMail, "send_mail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.jobType))
		})
	}
}

func TestS3ArchiveJobPayloadRoundTrip(t *testing.T) {
	payload := S3ArchiveJobPayload{
		GenerationID:   12,
		GenerationUUID: "gen-uuid",
		CacheKey:       "generation:audio:gen-uuid",
		Extension:      "wav",
	}

	restored, err := S3ArchiveJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload, *restored)
}

func TestS3DeleteJobPayloadRoundTrip(t *testing.T) {
	payload := S3DeleteJobPayload{
		GenerationID:   7,
		GenerationUUID: "gen-uuid",
		ObjectKey:      "audio/2026/08/gen-uuid.mp3",
	}

	restored, err := S3DeleteJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload, *restored)
}

func TestSendMailJobPayloadRoundTrip(t *testing.T) {
	payload := SendMailJobPayload{
		To:      "user@example.com",
		Subject: "Activate your account",
		Body:    "<p>Hello</p>",
	}

	restored, err := SendMailJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload, *restored)
}

func TestJobLifecycleMarkers(t *testing.T) {
	job := &Job{Status: JobStatusPending, MaxRetries: DefaultMaxRetries}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.ErrorMsg)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsRetrying()
	assert.Equal(t, JobStatusRetrying, job.Status)

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
	require.NotNil(t, job.CompletedAt)
}

func TestJobIsRetryableExhausted(t *testing.T) {
	job := &Job{Status: JobStatusFailed, RetryCount: DefaultMaxRetries, MaxRetries: DefaultMaxRetries}
	assert.False(t, job.IsRetryable())

	job = &Job{Status: JobStatusPending, RetryCount: 0, MaxRetries: DefaultMaxRetries}
	assert.False(t, job.IsRetryable())
}
