package jobqueue

import (
	"context"
	"fmt"

	"github.com/VoxFoxApp/VoxFox/internal/pkg/mail"
)

// processSendMailJob delivers one transactional email via SMTP
func (q *Queue) processSendMailJob(ctx context.Context, job *Job) error {
	payload, err := SendMailJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("failed to parse mail job payload: %w", err)
	}
	if payload.To == "" {
		return fmt.Errorf("mail job has no recipient")
	}

	return mail.SendMail(payload.To, payload.Subject, payload.Body)
}

// EnqueueSendMailJob creates and enqueues an outbound mail job
func (q *Queue) EnqueueSendMailJob(to, subject, body string) (*Job, error) {
	payload := SendMailJobPayload{To: to, Subject: subject, Body: body}
	return q.EnqueueJob(JobTypeSendMail, payload.ToMap())
}
