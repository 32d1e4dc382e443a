package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cinetalk/cinetalk/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "http://localhost:8000/api"
	refreshPath    = "/users/token/refresh/"
)

// TokenStore provides access to the locally stored access/refresh token pair.
//
// Implemented by session.FileTokenStore. An empty string means the token is absent.
type TokenStore interface {
	Access() string
	Refresh() string
	Save(access, refresh string) error
	Clear() error
}

// Client issues authenticated requests against the CineTalk API.
//
// Every request attaches the stored access token as a bearer header when
// present. A 401 response triggers at most one refresh-and-replay cycle;
// a failed refresh clears the stored tokens and surfaces ErrSessionExpired.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	limiter    *rate.Limiter
}

// NewClient creates a new API client.
//
// baseURL defaults to the local development server, client to
// [http.DefaultClient]. tokens may be nil for an anonymous client.
func NewClient(baseURL string, client *http.Client, tokens TokenStore) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		tokens:     tokens,
	}
}

// SetRateLimit throttles outgoing requests to rps requests per second.
// A non-positive value disables throttling.
func (c *Client) SetRateLimit(rps float64) {
	if rps <= 0 {
		c.limiter = nil
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// APIError is a non-2xx API response with its parsed body.
//
// Fields holds DRF-style field errors (a field name mapped to one or more
// messages); Detail is the top-level "detail" message when present.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("API error: status %d", e.StatusCode)
}

// Unwrap maps well-known status codes onto shared sentinel errors so
// callers can branch with [errors.Is].
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return shared.ErrNotAuthenticated
	case http.StatusNotFound:
		return shared.ErrNotFound
	case http.StatusConflict:
		return shared.ErrAlreadyVoted
	}
	return nil
}

// Field returns the first message for the named field, or "".
func (e *APIError) Field(name string) string {
	if msgs, ok := e.Fields[name]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// parseAPIError builds an APIError from a response body.
//
// DRF returns either {"detail": "..."} or {"field": ["msg", ...]}; both
// shapes are folded into one error value.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Fields: map[string][]string{}}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for field, msg := range raw {
		var single string
		if err := json.Unmarshal(msg, &single); err == nil {
			if field == "detail" || field == "error" || field == "message" {
				apiErr.Detail = single
			} else {
				apiErr.Fields[field] = []string{single}
			}
			continue
		}

		var many []string
		if err := json.Unmarshal(msg, &many); err == nil && len(many) > 0 {
			apiErr.Fields[field] = many
		}
	}

	return apiErr
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Get performs a GET request and decodes the JSON response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, result)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	data, contentType, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, contentType, data, result)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	data, contentType, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, contentType, data, result)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, result any) error {
	data, contentType, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, contentType, data, result)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, nil)
}

// PostForm performs a POST request with a prepared multipart body.
func (c *Client) PostForm(ctx context.Context, path, contentType string, body []byte, result any) error {
	return c.do(ctx, http.MethodPost, path, contentType, body, result)
}

// PatchForm performs a PATCH request with a prepared multipart body.
func (c *Client) PatchForm(ctx context.Context, path, contentType string, body []byte, result any) error {
	return c.do(ctx, http.MethodPatch, path, contentType, body, result)
}

func encodeJSON(body any) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request body: %w", err)
	}
	return data, "application/json", nil
}

// do sends the request, attempting one silent refresh-and-replay cycle on 401.
//
// The body is kept as a byte slice so the replayed request can rebuild its
// reader. A 401 from the replayed request is returned as-is; there is never
// a second retry.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, result any) error {
	status, respBody, err := c.send(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.canRefresh(path) {
		if rerr := c.refreshTokens(ctx); rerr != nil {
			c.tokens.Clear()
			return fmt.Errorf("%w: %v", shared.ErrSessionExpired, rerr)
		}

		status, respBody, err = c.send(ctx, method, path, contentType, body)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, parseAPIError(status, respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) canRefresh(path string) bool {
	return c.tokens != nil && c.tokens.Refresh() != "" && path != refreshPath
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body []byte) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if access := c.tokens.Access(); access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody := new(bytes.Buffer)
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody.Bytes(), nil
}

// refreshTokens exchanges the stored refresh token for a new pair and saves it.
func (c *Client) refreshTokens(ctx context.Context) error {
	refresh := c.tokens.Refresh()
	if refresh == "" {
		return shared.ErrNoRefreshToken
	}

	data, contentType, err := encodeJSON(refreshRequest{Refresh: refresh})
	if err != nil {
		return err
	}

	status, body, err := c.send(ctx, http.MethodPost, refreshPath, contentType, data)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrRefreshFailed, status)
	}

	var tokens refreshResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	if tokens.Refresh == "" {
		tokens.Refresh = refresh
	}

	return c.tokens.Save(tokens.Access, tokens.Refresh)
}
