// ABOUTME: HTTP client for the remote routine backend.
// ABOUTME: Sends bearer-authenticated JSON requests and maps non-2xx responses to StatusError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "http://localhost:9021/api/v1"
	DefaultTimeout = 15 * time.Second

	// maxErrorBody caps how much of an error response is kept in StatusError.
	maxErrorBody = 4 << 10
)

// ErrNoExercise is returned when a lookup by name finds nothing.
var ErrNoExercise = errors.New("no exercise found")

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsAuthError reports whether err is a 401 or 403 from the backend.
func IsAuthError(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden
	}
	return false
}

// TokenFunc returns the bearer token to send, or "" for none.
type TokenFunc func() string

// Client talks to the routine backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenFunc
}

// NewClient creates a client. A nil httpClient gets one with DefaultTimeout;
// an empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, httpClient *http.Client, token TokenFunc) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		token:      token,
	}
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FindExercisesByName returns the exercises the backend matches for name.
func (c *Client) FindExercisesByName(ctx context.Context, name string) ([]ExerciseDTO, error) {
	var out []ExerciseDTO
	q := url.Values{"name": {name}}
	if err := c.do(ctx, http.MethodGet, "/exercises", q, nil, &out); err != nil {
		return nil, fmt.Errorf("find exercise %q: %w", name, err)
	}
	return out, nil
}

// CreateExercise creates an exercise and returns it with its new id.
func (c *Client) CreateExercise(ctx context.Context, req CreateExerciseRequest) (*ExerciseDTO, error) {
	var out ExerciseDTO
	if err := c.do(ctx, http.MethodPost, "/exercises", nil, req, &out); err != nil {
		return nil, fmt.Errorf("create exercise %q: %w", req.Name, err)
	}
	return &out, nil
}

// CreateWorkoutRoutine creates a routine header.
func (c *Client) CreateWorkoutRoutine(ctx context.Context, req CreateWorkoutRoutineRequest) (*WorkoutRoutineDTO, error) {
	var out WorkoutRoutineDTO
	if err := c.do(ctx, http.MethodPost, "/workout-routines", nil, req, &out); err != nil {
		return nil, fmt.Errorf("create routine %q: %w", req.Name, err)
	}
	return &out, nil
}

// CreateRoutineExercise links an exercise to a routine.
func (c *Client) CreateRoutineExercise(ctx context.Context, req CreateRoutineExerciseRequest) (*RoutineExerciseLink, error) {
	var out RoutineExerciseLink
	if err := c.do(ctx, http.MethodPost, "/routine-exercises", nil, req, &out); err != nil {
		return nil, fmt.Errorf("link exercise %d to routine %d: %w", req.ExerciseID, req.WorkoutRoutineID, err)
	}
	return &out, nil
}

// ListRoutineExercises returns every routine/exercise link with both sides expanded.
func (c *Client) ListRoutineExercises(ctx context.Context) ([]RoutineExerciseDTO, error) {
	var out []RoutineExerciseDTO
	if err := c.do(ctx, http.MethodGet, "/routine-exercises", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list routine exercises: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	logger := log.WithFields(log.Fields{"method": method, "path": path, "request_id": requestID})
	logger.Debug("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.WithField("status", resp.StatusCode).Debug("api request failed")
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
