package fetcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/sitemirror/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchSuccess(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><head><title>Hi</title></head><body>héllo</body></html>"))
	}))
	defer server.Close()

	client, err := NewHTTPClient(WithHeaders(map[string]string{"X-Test": "yes"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := New(
		WithHTTPClient(client),
		WithUserAgent("test-agent"),
		WithLogger(quietLogger()),
	)

	page, err := f.Fetch(context.Background(), server.URL+"/en/a.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", page.StatusCode)
	}
	if page.FinalURL != server.URL+"/en/a.html" {
		t.Errorf("expected final URL to match, got %s", page.FinalURL)
	}
	if !strings.Contains(page.Body, "héllo") {
		t.Errorf("expected decoded body, got %q", page.Body)
	}
	if page.Charset != "utf-8" {
		t.Errorf("expected charset utf-8, got %q", page.Charset)
	}
	if page.Hash == "" {
		t.Error("expected hash to be computed")
	}
	got := <-headers
	if ua := got.Get("User-Agent"); ua != "test-agent" {
		t.Errorf("expected user agent test-agent, got %q", ua)
	}
	if custom := got.Get("X-Test"); custom != "yes" {
		t.Errorf("expected custom header, got %q", custom)
	}
}

func TestFetchDecodesLatin1(t *testing.T) {
	t.Parallel()

	t.Run("declared in header", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
			// "café" with é as the single byte 0xE9
			_, _ = w.Write([]byte("<html><body>caf\xe9</body></html>"))
		}))
		defer server.Close()

		page, err := New(WithLogger(quietLogger())).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(page.Body, "café") {
			t.Errorf("expected café, got %q", page.Body)
		}
	})

	t.Run("declared in meta", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><head><meta charset=\"iso-8859-1\"></head><body>na\xefve</body></html>"))
		}))
		defer server.Close()

		page, err := New(WithLogger(quietLogger())).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(page.Body, "naïve") {
			t.Errorf("expected naïve, got %q", page.Body)
		}
	})
}

func TestFetchFollowsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/old.html", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/en/new.html", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/en/new.html", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>new</body></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	page, err := New(WithLogger(quietLogger())).Fetch(context.Background(), server.URL+"/old.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.URL != server.URL+"/old.html" {
		t.Errorf("expected requested URL to be kept, got %s", page.URL)
	}
	if page.FinalURL != server.URL+"/en/new.html" {
		t.Errorf("expected final URL after redirect, got %s", page.FinalURL)
	}
}

func TestFetchRedirectLoop(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	}))
	defer server.Close()

	_, err := New(WithLogger(quietLogger())).Fetch(context.Background(), server.URL+"/loop")
	if !errors.Is(err, model.ErrFetch) {
		t.Errorf("expected ErrFetch, got %v", err)
	}
}

func TestFetchErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.NotFound(w, nil)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not html",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				_, _ = w.Write([]byte("%PDF-1.4"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := New(WithLogger(quietLogger())).Fetch(context.Background(), server.URL)
			if !errors.Is(err, model.ErrFetch) {
				t.Errorf("expected ErrFetch, got %v", err)
			}
		})
	}
}

func TestFetchTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	f := New(WithTimeout(50*time.Millisecond), WithLogger(quietLogger()))

	start := time.Now()
	_, err := f.Fetch(context.Background(), server.URL)
	if !errors.Is(err, model.ErrFetch) {
		t.Errorf("expected ErrFetch, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("expected fetch to give up quickly, took %v", elapsed)
	}
}

func TestFetchNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := New(WithLogger(quietLogger())).Fetch(context.Background(), addr)
	if !errors.Is(err, model.ErrFetch) {
		t.Errorf("expected ErrFetch, got %v", err)
	}
}

func TestFetchInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := New(WithLogger(quietLogger())).Fetch(context.Background(), "http://[::1")
	if !errors.Is(err, model.ErrFetch) {
		t.Errorf("expected ErrFetch, got %v", err)
	}
}

func TestFetchTruncatesBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(strings.Repeat("a", 1000)))
	}))
	defer server.Close()

	page, err := New(WithMaxBodySize(100), WithLogger(quietLogger())).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Body) != 100 {
		t.Errorf("expected body truncated to 100 bytes, got %d", len(page.Body))
	}
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	f := New(WithUserAgent(""), WithTimeout(0), WithMaxBodySize(0), WithLogger(nil))

	if f.userAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", f.userAgent)
	}
	if f.timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", f.timeout)
	}
	if f.maxBodySize != model.MaxPageSize {
		t.Errorf("expected default max body size, got %d", f.maxBodySize)
	}
	if f.client == nil || f.logger == nil {
		t.Error("expected client and logger to be set")
	}
}
