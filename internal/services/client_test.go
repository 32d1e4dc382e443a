package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/cinetalk/cinetalk/internal/shared"
	tu "github.com/cinetalk/cinetalk/internal/testing"
)

func TestClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			c := NewClient("http://example.com/api/", customClient, nil)

			if c.baseURL != "http://example.com/api" {
				t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
			}
			if c.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			c := NewClient("", nil, nil)

			if c.baseURL != defaultBaseURL {
				t.Errorf("expected default baseURL %s, got %s", defaultBaseURL, c.baseURL)
			}
			if c.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Bearer Header", func(t *testing.T) {
		t.Run("Attached When Access Token Present", func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, tu.NewMemoryTokenStore("access-token", "refresh-token"))
			if err := c.Get(context.Background(), "/users/profile/", nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != "Bearer access-token" {
				t.Errorf("expected bearer header, got %q", got)
			}
		})

		t.Run("Omitted For Anonymous Client", func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, nil)
			if err := c.Get(context.Background(), "/movies/search/", nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != "" {
				t.Errorf("expected no Authorization header, got %q", got)
			}
		})
	})

	t.Run("Refresh Cycle", func(t *testing.T) {
		t.Run("Replays Once After Successful Refresh", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				switch {
				case r.URL.Path == refreshPath:
					json.NewEncoder(w).Encode(map[string]string{"access": "fresh-access"})
				case r.Header.Get("Authorization") == "Bearer fresh-access":
					json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
				default:
					w.WriteHeader(http.StatusUnauthorized)
				}
			}))
			defer server.Close()

			tokens := tu.NewMemoryTokenStore("stale-access", "refresh-token")
			c := NewClient(server.URL, nil, tokens)

			var result map[string]string
			if err := c.Get(context.Background(), "/users/profile/", &result); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if calls.Load() != 3 {
				t.Errorf("expected 3 requests (original, refresh, replay), got %d", calls.Load())
			}
			if tokens.Access() != "fresh-access" {
				t.Errorf("expected refreshed access token saved, got %q", tokens.Access())
			}
			if tokens.Refresh() != "refresh-token" {
				t.Error("expected refresh token preserved when response omits it")
			}
		})

		t.Run("Single Refresh Attempt When Server Always Rejects", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			tokens := tu.NewMemoryTokenStore("stale-access", "stale-refresh")
			c := NewClient(server.URL, nil, tokens)

			err := c.Get(context.Background(), "/users/profile/", nil)
			if !errors.Is(err, shared.ErrSessionExpired) {
				t.Errorf("expected ErrSessionExpired, got %v", err)
			}
			if calls.Load() != 2 {
				t.Errorf("expected exactly 2 requests (original, refresh), got %d", calls.Load())
			}
			if tokens.Clears != 1 {
				t.Errorf("expected tokens cleared once, got %d", tokens.Clears)
			}
			if tokens.Access() != "" || tokens.Refresh() != "" {
				t.Error("expected local tokens cleared after failed refresh")
			}
		})

		t.Run("No Refresh Without Stored Refresh Token", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, tu.NewMemoryTokenStore("access-only", ""))

			err := c.Get(context.Background(), "/users/profile/", nil)
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if calls.Load() != 1 {
				t.Errorf("expected 1 request, got %d", calls.Load())
			}
		})

		t.Run("Refresh Endpoint Itself Never Retries", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, tu.NewMemoryTokenStore("a", "r"))

			err := c.Post(context.Background(), refreshPath, map[string]string{"refresh": "r"}, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if calls.Load() != 1 {
				t.Errorf("expected 1 request, got %d", calls.Load())
			}
		})

		t.Run("Replays Request Body", func(t *testing.T) {
			var replayed string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == refreshPath {
					json.NewEncoder(w).Encode(map[string]string{"access": "fresh"})
					return
				}
				if r.Header.Get("Authorization") != "Bearer fresh" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				replayed = body["content"]
				w.WriteHeader(http.StatusCreated)
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, tu.NewMemoryTokenStore("stale", "refresh"))

			body := map[string]string{"content": "hello again"}
			if err := c.Post(context.Background(), "/board/posts/1/comments/", body, nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if replayed != "hello again" {
				t.Errorf("expected body replayed intact, got %q", replayed)
			}
		})
	})

	t.Run("Error Mapping", func(t *testing.T) {
		newServer := func(status int, body string) *httptest.Server {
			return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(body))
			}))
		}

		t.Run("Not Found", func(t *testing.T) {
			server := newServer(http.StatusNotFound, `{"detail": "Not found."}`)
			defer server.Close()

			c := NewClient(server.URL, nil, nil)
			err := c.Get(context.Background(), "/movies/999/", nil)

			if !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Duplicate Vote Conflict", func(t *testing.T) {
			server := newServer(http.StatusConflict, `{"detail": "Already voted."}`)
			defer server.Close()

			c := NewClient(server.URL, nil, nil)
			err := c.Post(context.Background(), "/reviews/1/like/", nil, nil)

			if !errors.Is(err, shared.ErrAlreadyVoted) {
				t.Errorf("expected ErrAlreadyVoted, got %v", err)
			}
		})

		t.Run("Field Errors", func(t *testing.T) {
			server := newServer(http.StatusBadRequest, `{"email": ["user with this email already exists."], "username": ["too short"]}`)
			defer server.Close()

			c := NewClient(server.URL, nil, nil)
			err := c.Post(context.Background(), "/users/register/", map[string]string{}, nil)
			if err == nil {
				t.Fatal("expected error")
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T", err)
			}
			if got := apiErr.Field("email"); !strings.Contains(got, "already exists") {
				t.Errorf("unexpected email field message: %q", got)
			}
			if apiErr.Field("missing") != "" {
				t.Error("expected empty message for unknown field")
			}
		})

		t.Run("Detail Message", func(t *testing.T) {
			server := newServer(http.StatusForbidden, `{"detail": "You do not have permission."}`)
			defer server.Close()

			c := NewClient(server.URL, nil, nil)
			err := c.Delete(context.Background(), "/board/posts/5/")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.Detail != "You do not have permission." {
				t.Errorf("unexpected detail: %q", apiErr.Detail)
			}
			if !strings.Contains(apiErr.Error(), "403") {
				t.Errorf("expected status in message, got %q", apiErr.Error())
			}
		})

		t.Run("Non-JSON Error Body", func(t *testing.T) {
			server := newServer(http.StatusBadGateway, "<html>bad gateway</html>")
			defer server.Close()

			c := NewClient(server.URL, nil, nil)
			err := c.Get(context.Background(), "/movies/search/", nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.StatusCode != http.StatusBadGateway {
				t.Errorf("expected 502, got %d", apiErr.StatusCode)
			}
		})
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
		}
		c := NewClient("http://example.com", client, nil)

		err := c.Get(context.Background(), "/movies/search/", nil)
		if err == nil || !strings.Contains(err.Error(), "request failed") {
			t.Errorf("expected transport failure, got %v", err)
		}
	})

	t.Run("Decode Failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, nil)
		var result map[string]string
		err := c.Get(context.Background(), "/movies/search/", &result)
		if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
			t.Errorf("expected decode failure, got %v", err)
		}
	})
}
