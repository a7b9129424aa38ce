package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/ladlehq/ladle/internal/errors"
	"github.com/ladlehq/ladle/internal/services/downloader"
	"github.com/ladlehq/ladle/internal/services/extraction"
	"github.com/ladlehq/ladle/internal/services/mealie"
	"github.com/ladlehq/ladle/internal/worker"
)

type homeData struct {
	MealieConfigured bool
	MealieBaseURL    string
}

type resultData struct {
	RecipeURL       string
	ThumbnailFailed bool
	UsedHeuristic   bool
}

type errorData struct {
	Title       string
	Message     string
	Suggestions []string
}

// HandleHome renders the submission form with the Mealie connection status.
func (s *Server) HandleHome(w http.ResponseWriter, r *http.Request) {
	data := homeData{
		MealieConfigured: s.cfg.MealieBaseURL != "" && s.cfg.MealieToken != "",
		MealieBaseURL:    s.cfg.MealieBaseURL,
	}
	s.renderPage(w, http.StatusOK, "home.html.tmpl", data)
}

// HandleSubmit processes a video URL synchronously and renders the outcome.
func (s *Server) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusUnprocessableEntity, errorData{
			Title:   "Validation Error",
			Message: "The submission form could not be read.",
		})
		return
	}

	url := strings.TrimSpace(r.PostFormValue("url"))
	if url == "" {
		s.renderError(w, http.StatusUnprocessableEntity, errorData{
			Title:   "Validation Error",
			Message: "A video URL is required.",
		})
		return
	}

	result, err := s.runner.Run(r.Context(), url)
	if err != nil {
		s.renderPipelineError(w, r, url, err)
		return
	}

	s.renderPage(w, http.StatusOK, "result.html.tmpl", resultData{
		RecipeURL:       result.Publish.URL,
		ThumbnailFailed: result.Publish.ThumbnailStatus == mealie.ThumbnailFailed,
		UsedHeuristic:   result.Source == extraction.SourceHeuristic,
	})
}

// HandleHealth reports process health. Always 200: a dead process cannot
// answer at all, and failures are surfaced via last_error rather than status
// codes so container orchestrators do not restart-loop on transient errors.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(s.tracker.Snapshot())
}

type enqueueRequest struct {
	URL string `json:"url"`
}

type enqueueResponse struct {
	TaskID string `json:"task_id"`
	URL    string `json:"url"`
}

// HandleEnqueue accepts a submission for asynchronous processing.
func (s *Server) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		http.Error(w, "URL is required", http.StatusBadRequest)
		return
	}
	if !downloader.IsSupportedURL(req.URL) {
		http.Error(w, "Unsupported video URL", http.StatusBadRequest)
		return
	}

	task, err := worker.NewProcessSubmissionTask(worker.ProcessSubmissionPayload{URL: req.URL})
	if err != nil {
		http.Error(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	info, err := s.asynqClient.EnqueueContext(r.Context(), task)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to enqueue submission",
			slog.String("url", req.URL),
			slog.Any("error", err),
		)
		http.Error(w, "Failed to enqueue task", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(enqueueResponse{
		TaskID: info.ID,
		URL:    req.URL,
	})
}

// HandleTaskStatus returns the state of one queued submission.
func (s *Server) HandleTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		http.Error(w, "task_id is required", http.StatusBadRequest)
		return
	}

	status, err := s.reporter.TaskStatus(taskID)
	if err != nil {
		if errors.Is(err, worker.ErrTaskNotFound) {
			http.Error(w, "Task not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch task status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// HandleQueueStatus returns counts for the submission queue.
func (s *Server) HandleQueueStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.reporter.QueueStatus()
	if err != nil {
		http.Error(w, "Failed to fetch queue status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// renderPipelineError maps pipeline failures onto user-facing pages.
// Download failures get the platform-specific guidance; everything else gets
// the generic error page with the recovery suggestion when one exists.
func (s *Server) renderPipelineError(w http.ResponseWriter, r *http.Request, url string, err error) {
	s.logger.ErrorContext(r.Context(), "submission failed",
		slog.String("url", url),
		slog.Any("error", err),
	)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		s.renderError(w, http.StatusInternalServerError, errorData{
			Title:   "Something Went Wrong",
			Message: "An unexpected error occurred while processing the video.",
		})
		return
	}

	data := errorData{
		Title:   "Something Went Wrong",
		Message: appErr.Message,
	}
	if appErr.Recovery != "" {
		data.Suggestions = []string{appErr.Recovery}
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		data.Title = "Validation Error"
	case apperrors.ErrorTypeDownload:
		kind := appErr.ErrorCode
		data.Title = downloader.FriendlyTitle(kind)
		data.Message = downloader.FriendlyMessage(kind)
		data.Suggestions = downloader.FriendlySuggestions(kind)
	case apperrors.ErrorTypePublish:
		data.Title = "Could Not Save to Mealie"
	}

	s.renderError(w, appErr.StatusCode, data)
}

func (s *Server) renderError(w http.ResponseWriter, status int, data errorData) {
	s.renderPage(w, status, "error.html.tmpl", data)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("failed to render template", slog.String("template", name), slog.Any("error", err))
	}
}
