package worker

import (
	"github.com/hibiken/asynq"
)

// NewServer creates an Asynq server for processing submissions. Concurrency
// is 1: the local LLM server handles a single completion at a time, so the
// worker must not race submissions against each other.
func NewServer(redisURL string) (*asynq.Server, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}

	return asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				QueueSubmissions: 1,
			},
		},
	), nil
}

// Start starts the server with the given handlers
func Start(srv *asynq.Server, handlers map[string]asynq.HandlerFunc) error {
	mux := asynq.NewServeMux()
	for taskType, handler := range handlers {
		mux.HandleFunc(taskType, handler)
	}
	return srv.Start(mux)
}
