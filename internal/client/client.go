// Package client wraps the expense tracker HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/sbilibin2017/expense-tracker/internal/logger"
)

// ErrBadResponseFormat is returned when the server does not answer with JSON.
var ErrBadResponseFormat = errors.New("bad response format, please try again later")

const defaultErrorMessage = "request failed"

// APIError is returned for HTTP error statuses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Result is the decoded response envelope.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the envelope data into v.
func (r *Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return errors.New("response has no data")
	}
	return json.Unmarshal(r.Data, v)
}

// Client issues single requests against the API. It never retries and sets
// no timeout of its own; bound ctx to limit a call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. A nil httpClient means a plain &http.Client{}.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Do sends payload as JSON (except on GET) to endpoint and decodes the envelope.
func (c *Client) Do(ctx context.Context, method, endpoint string, payload any) (*Result, error) {
	var body io.Reader
	if payload != nil && method != http.MethodGet {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.Errorw("api call failed", "endpoint", endpoint, "method", method, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		logger.Log.Errorw("api response is not JSON", "endpoint", endpoint, "status", resp.StatusCode, "body", string(raw))
		return nil, ErrBadResponseFormat
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		logger.Log.Errorw("api response is not a valid envelope", "endpoint", endpoint, "body", string(raw), "error", err)
		return nil, ErrBadResponseFormat
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := result.Error
		if msg == "" {
			msg = defaultErrorMessage
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return &result, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
