package mealie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/ladlehq/ladle/internal/errors"
	"github.com/ladlehq/ladle/internal/httpclient"
)

// Client is a minimal Mealie API client covering recipe creation, updates
// and thumbnail assignment.
type Client struct {
	baseURL    string
	staticURL  string
	token      string
	httpClient *http.Client
}

// NewClient creates a Mealie client. staticURL is the browser-facing base
// used in recipe links; it falls back to baseURL when empty.
func NewClient(baseURL, staticURL, token string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	staticURL = strings.TrimRight(staticURL, "/")
	if staticURL == "" {
		staticURL = baseURL
	}
	return &Client{
		baseURL:    baseURL,
		staticURL:  staticURL,
		token:      token,
		httpClient: httpclient.InstrumentedClient,
	}
}

// CreateRecipe posts the recipe through Mealie's html-or-json scraper
// endpoint and returns the new recipe's slug. Mealie expects the recipe JSON
// twice-encoded as a string inside the request envelope.
func (c *Client) CreateRecipe(ctx context.Context, payload RecipePayload) (string, error) {
	recipeJSON, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.NewPublishError("failed to encode recipe", "ENCODE_ERROR", err)
	}

	envelope := map[string]any{
		"includeTags": false,
		"data":        string(recipeJSON),
	}

	respBody, err := c.post(ctx, "/api/recipes/create/html-or-json", envelope)
	if err != nil {
		return "", err
	}

	// The create endpoint returns the slug as a bare JSON string.
	var slug string
	if err := json.Unmarshal(respBody, &slug); err != nil {
		return "", apperrors.NewPublishError("unexpected create response from Mealie", "DECODE_ERROR", err)
	}
	if slug == "" {
		return "", apperrors.NewPublishError("Mealie returned an empty recipe slug", "EMPTY_SLUG", nil)
	}
	return slug, nil
}

// SetThumbnail asks Mealie to scrape the given image URL as the recipe image.
func (c *Client) SetThumbnail(ctx context.Context, slug, thumbnailURL string) error {
	body := map[string]any{
		"includeTags": true,
		"url":         thumbnailURL,
	}
	_, err := c.post(ctx, "/api/recipes/"+slug+"/image", body)
	return err
}

// UpdateRecipe patches an existing recipe in place. Used by the async worker
// to replace placeholder recipes once processing completes.
func (c *Client) UpdateRecipe(ctx context.Context, slug string, payload RecipePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewPublishError("failed to encode recipe update", "ENCODE_ERROR", err)
	}

	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Mealie"), http.MethodPatch, c.baseURL+"/api/recipes/"+slug, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewPublishError("failed to build Mealie request", "REQUEST_ERROR", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.connectionError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.apiError(resp)
	}
	return nil
}

// RecipeURL returns the browser link for a recipe slug.
func (c *Client) RecipeURL(slug string) string {
	return fmt.Sprintf("%s/g/home/r/%s", c.staticURL, slug)
}

// Configured reports whether the client has both a base URL and a token.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.token != ""
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.NewPublishError("failed to encode Mealie request", "ENCODE_ERROR", err)
	}

	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Mealie"), http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, apperrors.NewPublishError("failed to build Mealie request", "REQUEST_ERROR", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.connectionError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewPublishError("failed to read Mealie response", "READ_RESPONSE_ERROR", err)
	}

	if resp.StatusCode >= 400 {
		return nil, apperrors.NewPublishError(
			fmt.Sprintf("Mealie API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
			"API_HTTP_ERROR", nil)
	}
	return respBody, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) connectionError(err error) *apperrors.AppError {
	return apperrors.NewPublishError(
		fmt.Sprintf("could not connect to Mealie at %s", c.baseURL),
		"CONNECTION_ERROR", err)
}

func (c *Client) apiError(resp *http.Response) *apperrors.AppError {
	body, _ := io.ReadAll(resp.Body)
	return apperrors.NewPublishError(
		fmt.Sprintf("Mealie API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body))),
		"API_HTTP_ERROR", nil)
}
