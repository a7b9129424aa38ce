package worker

import (
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"
)

// ErrTaskNotFound is returned when a task ID is unknown to the queue.
var ErrTaskNotFound = errors.New("task not found")

// QueueStatus summarizes the submission queue.
type QueueStatus struct {
	Pending   int `json:"pending"`
	Active    int `json:"active"`
	Scheduled int `json:"scheduled"`
	Retry     int `json:"retry"`
	Failed    int `json:"failed"`
	Completed int `json:"completed"`
}

// TaskStatus describes one queued or finished submission.
type TaskStatus struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	URL       string `json:"url,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// StatusReporter exposes queue and task introspection backed by Redis.
type StatusReporter struct {
	inspector *asynq.Inspector
}

func NewStatusReporter(inspector *asynq.Inspector) *StatusReporter {
	return &StatusReporter{inspector: inspector}
}

// QueueStatus returns counts for the submission queue.
func (r *StatusReporter) QueueStatus() (*QueueStatus, error) {
	info, err := r.inspector.GetQueueInfo(QueueSubmissions)
	if err != nil {
		return nil, err
	}
	return &QueueStatus{
		Pending:   info.Pending,
		Active:    info.Active,
		Scheduled: info.Scheduled,
		Retry:     info.Retry,
		Failed:    info.Failed,
		Completed: info.Completed,
	}, nil
}

// TaskStatus looks up a single submission task by ID.
func (r *StatusReporter) TaskStatus(taskID string) (*TaskStatus, error) {
	info, err := r.inspector.GetTaskInfo(QueueSubmissions, taskID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	status := &TaskStatus{
		ID:    info.ID,
		State: info.State.String(),
	}
	var payload ProcessSubmissionPayload
	if jsonErr := json.Unmarshal(info.Payload, &payload); jsonErr == nil {
		status.URL = payload.URL
	}
	if info.LastErr != "" {
		status.LastError = info.LastErr
	}
	return status, nil
}
