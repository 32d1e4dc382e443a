package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/shared"
	tu "github.com/cinetalk/cinetalk/internal/testing"
	"github.com/urfave/cli/v3"
)

func newTestRunner(t *testing.T, handler http.Handler) (*Runner, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	output := &bytes.Buffer{}
	tokens := &tu.MemoryTokenStore{}
	client := services.NewClient(srv.URL, srv.Client(), tokens)

	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Client: client,
		Tokens: tokens,
		Logger: shared.NewLogger(os.Stderr),
		Output: output,
	})
	return runner, output
}

// newAuthedRunner wires a runner with a stored token pair and a profile
// endpoint so session bootstrap resolves to a logged-in user.
func newAuthedRunner(t *testing.T, mux *http.ServeMux) (*Runner, *bytes.Buffer) {
	t.Helper()
	mux.HandleFunc("GET /users/profile/", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"email": "kim@example.com", "username": "kim"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	output := &bytes.Buffer{}
	tokens := tu.NewMemoryTokenStore("a1", "r1")
	client := services.NewClient(srv.URL, srv.Client(), tokens)

	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Client: client,
		Tokens: tokens,
		Logger: shared.NewLogger(os.Stderr),
		Output: output,
	})
	return runner, output
}

// writeTempImages creates n small files and returns their paths.
func writeTempImages(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("img%d.png", i))
		if err := os.WriteFile(path, []byte("png"), 0644); err != nil {
			t.Fatalf("failed to write temp image: %v", err)
		}
		paths = append(paths, path)
	}
	return paths
}

func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:     "cinetalk",
		Commands: r.register(),
	}
	return app.Run(context.Background(), append([]string{"cinetalk"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("without database repositories stay nil", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.otts != nil || runner.categories != nil || runner.profiles != nil {
				t.Error("expected repositories to be nil without a database")
			}
		})

		t.Run("builds services from provided client", func(t *testing.T) {
			tokens := &tu.MemoryTokenStore{}
			client := services.NewClient("http://localhost:9", http.DefaultClient, tokens)
			runner := NewRunner(RunnerOpts{Client: client, Tokens: tokens})

			if runner.movies == nil || runner.reviews == nil || runner.board == nil {
				t.Error("expected all services to be constructed")
			}
			if runner.session == nil {
				t.Error("expected session store to be constructed")
			}
		})
	})

	t.Run("MoviesProviders", func(t *testing.T) {
		t.Run("lists the provider catalog", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /ott/", func(w http.ResponseWriter, req *http.Request) {
				json.NewEncoder(w).Encode([]map[string]any{
					{"id": 1, "name": "Netflix"},
					{"id": 2, "name": "Watcha"},
				})
			})

			runner, output := newTestRunner(t, mux)
			if err := runCommand(t, runner, "movies", "providers"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := output.String()
			if !strings.Contains(got, "[1] Netflix") || !strings.Contains(got, "[2] Watcha") {
				t.Errorf("expected provider lines, got:\n%s", got)
			}
		})
	})

	t.Run("MoviesSearch", func(t *testing.T) {
		t.Run("prints one line per result", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /movies/search/", func(w http.ResponseWriter, req *http.Request) {
				if got := req.URL.Query().Get("search"); got != "dune" {
					t.Errorf("expected search=dune, got %q", got)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"count": 1,
					"results": []map[string]any{
						{"id": 7, "title": "Dune", "average_rating": 4.5, "review_count": 12},
					},
				})
			})

			runner, output := newTestRunner(t, mux)
			if err := runCommand(t, runner, "movies", "search", "dune"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !strings.Contains(output.String(), "[7] Dune") {
				t.Errorf("expected result line, got:\n%s", output.String())
			}
		})

		t.Run("forwards the ordering flag", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /movies/search/", func(w http.ResponseWriter, req *http.Request) {
				if got := req.URL.Query().Get("ordering"); got != "-average_rating_cache" {
					t.Errorf("expected ordering=-average_rating_cache, got %q", got)
				}
				json.NewEncoder(w).Encode(map[string]any{"count": 0, "results": []any{}})
			})

			runner, _ := newTestRunner(t, mux)
			if err := runCommand(t, runner, "movies", "search", "--ordering", "-average_rating_cache"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})

		t.Run("rejects an unknown ordering key", func(t *testing.T) {
			runner, _ := newTestRunner(t, http.NewServeMux())

			err := runCommand(t, runner, "movies", "search", "--ordering", "-box_office")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("rejects a non-numeric id argument", func(t *testing.T) {
			runner, _ := newTestRunner(t, http.NewServeMux())

			err := runCommand(t, runner, "movies", "show", "abc")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("AuthStatus", func(t *testing.T) {
		t.Run("reports anonymous without stored tokens", func(t *testing.T) {
			calls := 0
			mux := http.NewServeMux()
			mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
				calls++
				w.WriteHeader(http.StatusUnauthorized)
			})

			runner, output := newTestRunner(t, mux)
			if err := runCommand(t, runner, "auth", "status"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !strings.Contains(output.String(), "Not logged in") {
				t.Errorf("expected anonymous status, got:\n%s", output.String())
			}
			if calls != 0 {
				t.Errorf("expected no network traffic without tokens, got %d calls", calls)
			}
		})
	})

	t.Run("Mutations", func(t *testing.T) {
		t.Run("voting requires a login", func(t *testing.T) {
			runner, _ := newTestRunner(t, http.NewServeMux())

			err := runCommand(t, runner, "reviews", "vote", "7")
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("posting requires a login", func(t *testing.T) {
			runner, _ := newTestRunner(t, http.NewServeMux())

			err := runCommand(t, runner, "board", "post", "--title", "hello world", "--content", "long enough content here")
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})

	t.Run("AttachmentCaps", func(t *testing.T) {
		t.Run("stray deletion ids do not free up attachment slots", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /board/posts/5/", func(w http.ResponseWriter, req *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"id": 5, "title": "공지사항입니다", "content": "본문 내용이 충분히 깁니다",
					"category": "free",
					"attachments": []map[string]any{
						{"id": 1}, {"id": 2}, {"id": 3}, {"id": 4}, {"id": 5},
					},
				})
			})
			mux.HandleFunc("GET /board/categories/", func(w http.ResponseWriter, req *http.Request) {
				json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "slug": "free", "name": "자유게시판"}})
			})
			mux.HandleFunc("PATCH /board/posts/5/", func(w http.ResponseWriter, req *http.Request) {
				t.Error("expected the cap to block the update before any network write")
			})

			runner, _ := newAuthedRunner(t, mux)
			images := writeTempImages(t, 1)

			err := runCommand(t, runner, "board", "edit", "5",
				"--delete-attachment", "999", "--attach", images[0])
			if !errors.Is(err, shared.ErrTooManyImages) {
				t.Errorf("expected ErrTooManyImages, got %v", err)
			}
		})

		t.Run("valid deletion ids free up attachment slots", func(t *testing.T) {
			updated := false
			mux := http.NewServeMux()
			mux.HandleFunc("GET /board/posts/5/", func(w http.ResponseWriter, req *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"id": 5, "title": "공지사항입니다", "content": "본문 내용이 충분히 깁니다",
					"category": "free",
					"attachments": []map[string]any{
						{"id": 1}, {"id": 2}, {"id": 3}, {"id": 4}, {"id": 5},
					},
				})
			})
			mux.HandleFunc("GET /board/categories/", func(w http.ResponseWriter, req *http.Request) {
				json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "slug": "free", "name": "자유게시판"}})
			})
			mux.HandleFunc("PATCH /board/posts/5/", func(w http.ResponseWriter, req *http.Request) {
				updated = true
				json.NewEncoder(w).Encode(map[string]any{"id": 5})
			})

			runner, _ := newAuthedRunner(t, mux)
			images := writeTempImages(t, 1)

			err := runCommand(t, runner, "board", "edit", "5",
				"--delete-attachment", "3", "--attach", images[0])
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !updated {
				t.Error("expected the update to reach the server")
			}
		})

		t.Run("review edit rejects more than five new images", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("PATCH /reviews/9/", func(w http.ResponseWriter, req *http.Request) {
				t.Error("expected the cap to block the update before any network write")
			})

			runner, _ := newAuthedRunner(t, mux)
			images := writeTempImages(t, 6)

			args := []string{"reviews", "edit", "9"}
			for _, img := range images {
				args = append(args, "--image", img)
			}
			if err := runCommand(t, runner, args...); !errors.Is(err, shared.ErrTooManyImages) {
				t.Errorf("expected ErrTooManyImages, got %v", err)
			}
		})
	})

	t.Run("BoardList", func(t *testing.T) {
		t.Run("marks the active tab and lists posts", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /board/categories/", func(w http.ResponseWriter, req *http.Request) {
				json.NewEncoder(w).Encode([]map[string]any{
					{"id": 1, "slug": "free", "name": "자유게시판"},
				})
			})
			mux.HandleFunc("GET /board/posts/", func(w http.ResponseWriter, req *http.Request) {
				if got := req.URL.Query().Get("ordering"); got != "-like_count" {
					t.Errorf("expected hot ordering, got %q", got)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"count": 1,
					"results": []map[string]any{
						{"id": 3, "title": "첫 글", "user": "kim", "view_count": 5},
					},
				})
			})

			runner, output := newTestRunner(t, mux)
			if err := runCommand(t, runner, "board", "list"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := output.String()
			if !strings.Contains(got, "첫 글") {
				t.Errorf("expected post title in output, got:\n%s", got)
			}
			if !strings.Contains(got, "[HOT]") {
				t.Errorf("expected active hot tab marker, got:\n%s", got)
			}
		})
	})

	t.Run("AuthRegister", func(t *testing.T) {
		registerArgs := []string{
			"auth", "register",
			"--email", "kim@example.com", "--username", "kim", "--password", "pw",
		}

		t.Run("maps an already-exists rejection to the duplicate message", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /users/register/", func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{
					"email": []string{"user with this email already exists."},
				})
			})

			runner, _ := newTestRunner(t, mux)
			err := runCommand(t, runner, registerArgs...)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), "already exists") {
				t.Errorf("expected duplicate-account message, got %q", err.Error())
			}
		})

		t.Run("passes other field errors through unchanged", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /users/register/", func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{
					"email": []string{"Enter a valid email address."},
				})
			})

			runner, _ := newTestRunner(t, mux)
			err := runCommand(t, runner, registerArgs...)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if strings.Contains(err.Error(), "already exists") {
				t.Errorf("expected the server's own message, got %q", err.Error())
			}
			if !strings.Contains(err.Error(), "Enter a valid email address.") {
				t.Errorf("expected server field message surfaced, got %q", err.Error())
			}
		})
	})

	t.Run("AuthLogin", func(t *testing.T) {
		t.Run("stores tokens and caches the profile", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /users/login/", func(w http.ResponseWriter, req *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"access": "a1", "refresh": "r1"})
			})
			mux.HandleFunc("GET /users/profile/", func(w http.ResponseWriter, req *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"email": "kim@example.com", "username": "kim"})
			})

			runner, output := newTestRunner(t, mux)
			if err := runCommand(t, runner, "auth", "login", "--email", "kim@example.com", "--password", "pw"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !strings.Contains(output.String(), "Logged in as kim") {
				t.Errorf("expected login confirmation, got:\n%s", output.String())
			}
		})
	})
}
