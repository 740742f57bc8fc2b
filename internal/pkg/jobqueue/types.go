package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeS3Archive JobType = "s3_archive"
	JobTypeS3Delete  JobType = "s3_delete"
	JobTypeSendMail  JobType = "send_mail"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// S3ArchiveJobPayload contains the payload for archiving a generation's audio
type S3ArchiveJobPayload struct {
	GenerationID   uint   `json:"generation_id"`
	GenerationUUID string `json:"generation_uuid"`
	CacheKey       string `json:"cache_key"` // Redis key holding the audio payload
	Extension      string `json:"extension"` // wav or mp3
}

// ToMap converts the payload to a map for storage
func (p S3ArchiveJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"generation_id":   p.GenerationID,
		"generation_uuid": p.GenerationUUID,
		"cache_key":       p.CacheKey,
		"extension":       p.Extension,
	}
}

// FromMap creates a payload from a map
func S3ArchiveJobPayloadFromMap(data map[string]interface{}) (*S3ArchiveJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload S3ArchiveJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// S3DeleteJobPayload contains the payload for deleting an archived object
type S3DeleteJobPayload struct {
	GenerationID   uint   `json:"generation_id"`
	GenerationUUID string `json:"generation_uuid"`
	ObjectKey      string `json:"object_key"`
}

// ToMap converts the payload to a map for storage
func (p S3DeleteJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"generation_id":   p.GenerationID,
		"generation_uuid": p.GenerationUUID,
		"object_key":      p.ObjectKey,
	}
}

// FromMap creates a delete payload from a map
func S3DeleteJobPayloadFromMap(data map[string]interface{}) (*S3DeleteJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload S3DeleteJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// SendMailJobPayload contains the payload for outbound transactional mail
type SendMailJobPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ToMap converts the payload to a map for storage
func (p SendMailJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"to":      p.To,
		"subject": p.Subject,
		"body":    p.Body,
	}
}

// FromMap creates a mail payload from a map
func SendMailJobPayloadFromMap(data map[string]interface{}) (*SendMailJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload SendMailJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
