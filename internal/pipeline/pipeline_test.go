package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"

	apperrors "github.com/ladlehq/ladle/internal/errors"
	"github.com/ladlehq/ladle/internal/health"
	"github.com/ladlehq/ladle/internal/recipe"
	"github.com/ladlehq/ladle/internal/services/downloader"
	"github.com/ladlehq/ladle/internal/services/extraction"
	"github.com/ladlehq/ladle/internal/services/mealie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockDownloader struct{ mock.Mock }

func (m *mockDownloader) FetchMetadata(ctx context.Context, url string) (*downloader.Metadata, error) {
	args := m.Called(ctx, url)
	if meta := args.Get(0); meta != nil {
		return meta.(*downloader.Metadata), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDownloader) DownloadAudio(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

type mockTranscriber struct{ mock.Mock }

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	args := m.Called(ctx, audioPath)
	return args.String(0), args.Error(1)
}

type mockExtractor struct{ mock.Mock }

func (m *mockExtractor) Extract(ctx context.Context, caption, transcript, platform string) *extraction.Result {
	args := m.Called(ctx, caption, transcript, platform)
	return args.Get(0).(*extraction.Result)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, c recipe.Canonical, thumbnailURL string) (*mealie.PublishResult, error) {
	args := m.Called(ctx, c, thumbnailURL)
	if res := args.Get(0); res != nil {
		return res.(*mealie.PublishResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestOrchestrator(d *mockDownloader, t *mockTranscriber, e *mockExtractor, p *mockPublisher) (*Orchestrator, *health.Tracker) {
	tracker := health.NewTracker()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrchestrator(d, t, e, p, tracker, logger), tracker
}

func TestRun_HappyPath(t *testing.T) {
	url := "https://www.tiktok.com/@chef/video/123"

	d := &mockDownloader{}
	tr := &mockTranscriber{}
	e := &mockExtractor{}
	p := &mockPublisher{}

	d.On("FetchMetadata", mock.Anything, url).Return(&downloader.Metadata{
		Description: "Best pancakes!",
		Thumbnail:   "https://cdn.example.com/t.jpg",
	}, nil)
	d.On("DownloadAudio", mock.Anything, url).Return("/tmp/audio.mp3", nil)
	tr.On("Transcribe", mock.Anything, "/tmp/audio.mp3").Return("mix flour and eggs", nil)
	e.On("Extract", mock.Anything, "Best pancakes!", "mix flour and eggs", "tiktok").Return(&extraction.Result{
		Draft: &recipe.Draft{
			Title:        "Pancakes",
			Ingredients:  []recipe.Ingredient{{Quantity: "2", Unit: "cups", Name: "flour"}, {Quantity: "3", Name: "eggs"}},
			Instructions: []string{"Mix", "Cook"},
		},
		Source: extraction.SourceLLM,
	})
	p.On("Publish", mock.Anything, mock.MatchedBy(func(c recipe.Canonical) bool {
		return c.Title == "Pancakes" &&
			len(c.Ingredients) == 2 && c.Ingredients[0].String() == "2 cups flour" &&
			len(c.Instructions) == 2 && c.Instructions[0] == "Mix" &&
			c.SourceURL == url
	}), "https://cdn.example.com/t.jpg").Return(&mealie.PublishResult{
		Slug:            "pancakes",
		URL:             "https://mealie.example.com/g/home/r/pancakes",
		ThumbnailStatus: mealie.ThumbnailSet,
	}, nil)

	o, tracker := newTestOrchestrator(d, tr, e, p)
	result, err := o.Run(context.Background(), url)

	assert.NoError(t, err)
	assert.Equal(t, "pancakes", result.Publish.Slug)
	assert.Equal(t, extraction.SourceLLM, result.Source)
	assert.Equal(t, int64(1), tracker.Processed())

	d.AssertExpectations(t)
	tr.AssertExpectations(t)
	e.AssertExpectations(t)
	p.AssertExpectations(t)
}

func TestRun_UnsupportedURL(t *testing.T) {
	d := &mockDownloader{}
	o, _ := newTestOrchestrator(d, &mockTranscriber{}, &mockExtractor{}, &mockPublisher{})

	_, err := o.Run(context.Background(), "https://vimeo.com/12345")

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	d.AssertNotCalled(t, "FetchMetadata", mock.Anything, mock.Anything)
}

func TestRun_DownloadFailureStopsPipeline(t *testing.T) {
	url := "https://www.instagram.com/p/abc/"

	d := &mockDownloader{}
	tr := &mockTranscriber{}
	e := &mockExtractor{}
	p := &mockPublisher{}

	d.On("FetchMetadata", mock.Anything, url).Return(nil,
		apperrors.NewDownloadError("failed to fetch video metadata", downloader.KindPrivateContent, nil))

	o, tracker := newTestOrchestrator(d, tr, e, p)
	_, err := o.Run(context.Background(), url)

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeDownload, apperrors.TypeOf(err))

	tr.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
	e.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	p.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)

	assert.Equal(t, int64(0), tracker.Processed())
	snapshot := tracker.Snapshot()
	assert.NotNil(t, snapshot.LastError)
	assert.Equal(t, url, snapshot.LastError.URL)
}

func TestRun_TranscriptionFailureStopsPipeline(t *testing.T) {
	url := "https://www.tiktok.com/@chef/video/123"

	d := &mockDownloader{}
	tr := &mockTranscriber{}
	e := &mockExtractor{}
	p := &mockPublisher{}

	d.On("FetchMetadata", mock.Anything, url).Return(&downloader.Metadata{}, nil)
	d.On("DownloadAudio", mock.Anything, url).Return("/tmp/audio.mp3", nil)
	tr.On("Transcribe", mock.Anything, "/tmp/audio.mp3").Return("",
		apperrors.NewTranscriptionError("whisper failed", "WHISPER_EXEC_ERROR", nil))

	o, _ := newTestOrchestrator(d, tr, e, p)
	_, err := o.Run(context.Background(), url)

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeTranscription, apperrors.TypeOf(err))
	e.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	p.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_HeuristicSourcePropagates(t *testing.T) {
	url := "https://www.instagram.com/p/abc/"

	d := &mockDownloader{}
	tr := &mockTranscriber{}
	e := &mockExtractor{}
	p := &mockPublisher{}

	d.On("FetchMetadata", mock.Anything, url).Return(&downloader.Metadata{}, nil)
	d.On("DownloadAudio", mock.Anything, url).Return("/tmp/audio.mp3", nil)
	tr.On("Transcribe", mock.Anything, mock.Anything).Return("Ingredients: 2 eggs. Instructions: Mix.", nil)
	e.On("Extract", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&extraction.Result{
		Draft:  &recipe.Draft{Ingredients: []recipe.Ingredient{{Quantity: "2", Name: "eggs"}}},
		Source: extraction.SourceHeuristic,
	})
	p.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(&mealie.PublishResult{Slug: "s"}, nil)

	o, _ := newTestOrchestrator(d, tr, e, p)
	result, err := o.Run(context.Background(), url)

	assert.NoError(t, err)
	assert.Equal(t, extraction.SourceHeuristic, result.Source)
	// Empty drafts still publish with placeholder instructions.
	assert.NotEmpty(t, result.Recipe.Instructions)
}

func TestRun_PublishFailure(t *testing.T) {
	url := "https://www.tiktok.com/@chef/video/123"

	d := &mockDownloader{}
	tr := &mockTranscriber{}
	e := &mockExtractor{}
	p := &mockPublisher{}

	d.On("FetchMetadata", mock.Anything, url).Return(&downloader.Metadata{}, nil)
	d.On("DownloadAudio", mock.Anything, url).Return("/tmp/audio.mp3", nil)
	tr.On("Transcribe", mock.Anything, mock.Anything).Return("some transcript", nil)
	e.On("Extract", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&extraction.Result{
		Draft: &recipe.Draft{Title: "Soup"}, Source: extraction.SourceLLM,
	})
	p.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil,
		apperrors.NewPublishError("Mealie API error (status 401)", "API_HTTP_ERROR", nil))

	o, tracker := newTestOrchestrator(d, tr, e, p)
	_, err := o.Run(context.Background(), url)

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypePublish, apperrors.TypeOf(err))
	assert.Equal(t, int64(0), tracker.Processed())
}
