package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// QueueSubmissions is the asynq queue for video submissions.
const QueueSubmissions = "submissions"

// TypeProcessSubmission is the task type for processing a video submission.
const TypeProcessSubmission = "submission:process"

// ProcessSubmissionPayload is the payload for submission processing tasks.
type ProcessSubmissionPayload struct {
	URL string `json:"url"`
}

// NewProcessSubmissionTask creates a submission processing task.
func NewProcessSubmissionTask(payload ProcessSubmissionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProcessSubmission, data, asynq.Queue(QueueSubmissions)), nil
}
