package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ladlehq/ladle/internal/errors"
	"github.com/ladlehq/ladle/internal/httpclient"
)

// RemoteProvider sends audio to an OpenAI-compatible transcription endpoint,
// typically a hosted Whisper API.
type RemoteProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewRemoteProvider creates a provider for the given API base URL. The key
// may be empty for self-hosted servers without auth.
func NewRemoteProvider(baseURL, apiKey string) *RemoteProvider {
	return &RemoteProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      "whisper-1",
		httpClient: httpclient.NewInstrumentedClient(3 * time.Minute),
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio file as multipart form data and returns the
// transcript text. The form is streamed through a pipe to avoid buffering
// the whole file in memory.
func (p *RemoteProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audioFile, err := os.Open(audioPath)
	if err != nil {
		return "", errors.NewTranscriptionError("failed to open audio file", "AUDIO_FILE_ERROR", err)
	}
	defer audioFile.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		defer writer.Close()

		part, err := writer.CreateFormFile("file", "audio.mp3")
		if err != nil {
			return
		}
		if _, err := io.Copy(part, audioFile); err != nil {
			return
		}
		if err := writer.WriteField("model", p.model); err != nil {
			return
		}
	}()

	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Transcription"), "POST", p.baseURL+"/v1/audio/transcriptions", pr)
	if err != nil {
		return "", errors.NewTranscriptionError("failed to create transcription request", "REQUEST_ERROR", err)
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", errors.NewTranscriptionError("failed to call transcription API", "API_ERROR", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewTranscriptionError("failed to read transcription response", "READ_RESPONSE_ERROR", err)
	}

	if resp.StatusCode != http.StatusOK {
		appErr := errors.NewTranscriptionError(
			fmt.Sprintf("transcription API error (status %d): %s", resp.StatusCode, string(respBody)),
			"API_HTTP_ERROR", nil)
		appErr.StatusCode = resp.StatusCode
		return "", appErr
	}

	var transResp transcriptionResponse
	if err := json.Unmarshal(respBody, &transResp); err != nil {
		return "", errors.NewTranscriptionError("failed to parse transcription response", "PARSE_RESPONSE_ERROR", err)
	}

	return transResp.Text, nil
}
