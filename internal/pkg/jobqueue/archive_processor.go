package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/VoxFoxApp/VoxFox/app/repository"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/cache"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/s3archive"
	"github.com/VoxFoxApp/VoxFox/internal/pkg/utils"
)

// processS3ArchiveJob uploads a generation's audio payload to the S3 archive.
// The payload is read from the short-lived Redis copy written at generation
// time; if that copy already expired the job fails and is retried.
func (q *Queue) processS3ArchiveJob(ctx context.Context, job *Job) error {
	payload, err := S3ArchiveJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("failed to parse S3 archive job payload: %w", err)
	}

	log.Infof("[S3Archive] Processing archive job for generation %s (ID: %d)", payload.GenerationUUID, payload.GenerationID)

	config, err := s3archive.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load S3 config: %w", err)
	}
	if !config.IsEnabled() {
		return fmt.Errorf("S3 archive is disabled")
	}

	s3Client, err := s3archive.NewClient(config)
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}

	audio, err := cache.GetBytes(payload.CacheKey)
	if err != nil {
		return fmt.Errorf("audio payload not found in cache for generation %s: %w", payload.GenerationUUID, err)
	}

	now := time.Now()
	objectKey := config.GetObjectKey(payload.GenerationUUID, "."+payload.Extension, now.Year(), int(now.Month()))

	result, err := s3Client.UploadBytes(audio, objectKey, utils.AudioMIMEType(payload.Extension))
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	repo := repository.GetGlobalFactory().GetGenerationRepository()
	gen, err := repo.GetByUUID(payload.GenerationUUID)
	if err != nil {
		return fmt.Errorf("failed to load generation record: %w", err)
	}
	gen.Archived = true
	gen.ArchiveKey = result.ObjectKey
	if err := repo.Update(gen); err != nil {
		return fmt.Errorf("failed to mark generation as archived: %w", err)
	}

	log.Infof("[S3Archive] Successfully archived generation %s to s3://%s/%s",
		payload.GenerationUUID, result.BucketName, result.ObjectKey)

	return nil
}

// EnqueueS3ArchiveJob creates and enqueues an archive job
func (q *Queue) EnqueueS3ArchiveJob(generationID uint, generationUUID, cacheKey, extension string) (*Job, error) {
	payload := S3ArchiveJobPayload{
		GenerationID:   generationID,
		GenerationUUID: generationUUID,
		CacheKey:       cacheKey,
		Extension:      extension,
	}

	return q.EnqueueJob(JobTypeS3Archive, payload.ToMap())
}

// processS3DeleteJob removes an archived object after its generation is deleted
func (q *Queue) processS3DeleteJob(ctx context.Context, job *Job) error {
	payload, err := S3DeleteJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("failed to parse S3 delete job payload: %w", err)
	}

	config, err := s3archive.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load S3 config: %w", err)
	}
	if !config.IsEnabled() {
		// Nothing to delete when the archive is off
		log.Warnf("[S3Archive] Skipping delete for generation %s: archive disabled", payload.GenerationUUID)
		return nil
	}

	s3Client, err := s3archive.NewClient(config)
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}

	if err := s3Client.DeleteObject(payload.ObjectKey); err != nil {
		return fmt.Errorf("failed to delete archived object: %w", err)
	}

	log.Infof("[S3Archive] Deleted archived object %s for generation %s", payload.ObjectKey, payload.GenerationUUID)
	return nil
}

// EnqueueS3DeleteJob creates and enqueues a delete job for an archived object
func (q *Queue) EnqueueS3DeleteJob(generationID uint, generationUUID, objectKey string) (*Job, error) {
	payload := S3DeleteJobPayload{
		GenerationID:   generationID,
		GenerationUUID: generationUUID,
		ObjectKey:      objectKey,
	}

	return q.EnqueueJob(JobTypeS3Delete, payload.ToMap())
}
