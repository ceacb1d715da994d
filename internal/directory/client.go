// ABOUTME: Read-only client for the third-party exercise directory.
// ABOUTME: Fetches the full directory and maps entries to the canonical Exercise model.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/harperreed/routines/internal/api"
	"github.com/harperreed/routines/internal/models"
)

const (
	DefaultBaseURL = "https://musclewiki.com"
	directoryPath  = "/api-next/exercises/directory?difficulty=1,2,3,4"
)

// Client fetches exercises from the directory.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a directory client. Empty baseURL and nil httpClient get defaults.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: api.DefaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// FetchExercises downloads the directory and maps every entry.
func (c *Client) FetchExercises(ctx context.Context) ([]models.Exercise, error) {
	entries, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	exercises := make([]models.Exercise, 0, len(entries))
	for _, e := range entries {
		exercises = append(exercises, e.ToExercise())
	}
	return exercises, nil
}

func (c *Client) fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+directoryPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, &api.StatusError{
			Method:     http.MethodGet,
			Path:       "/api-next/exercises/directory",
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode directory: %w", err)
	}
	log.WithField("count", len(entries)).Debug("fetched exercise directory")
	return entries, nil
}
