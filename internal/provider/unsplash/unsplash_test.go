package unsplash

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sydlexius/gallery/internal/provider"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("loading fixture %s: %v", name, err)
	}
	return data
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Version") != "v1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/search/photos":
			w.Write(loadFixture(t, "search_cats.json"))
		case "/photos/random/":
			w.Write(loadFixture(t, "random_two.json"))
		case "/limited":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Rate Limit Exceeded"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(nil, logger)
}

func TestGet_Search(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := newTestClient(t)

	body, err := c.Get(context.Background(), srv.URL+"/search/photos?client_id=k&query=cats")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != string(loadFixture(t, "search_cats.json")) {
		t.Error("body does not match fixture")
	}
}

func TestGet_RateLimited(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := newTestClient(t)

	_, err := c.Get(context.Background(), srv.URL+"/limited")
	fe, ok := provider.AsFetchError(err)
	if !ok {
		t.Fatalf("expected FetchError, got %T: %v", err, err)
	}
	if fe.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", fe.StatusCode)
	}
	if !fe.IsRateLimited() {
		t.Error("expected IsRateLimited")
	}
}

func TestGet_NotFound(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := newTestClient(t)

	_, err := c.Get(context.Background(), srv.URL+"/nope")
	fe, ok := provider.AsFetchError(err)
	if !ok || fe.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 FetchError, got %v", err)
	}
	if err.Error() != "request failed with status code 404" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestGet_TransportError(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL
	srv.Close()
	c := newTestClient(t)

	_, err := c.Get(context.Background(), url+"/search/photos")
	fe, ok := provider.AsFetchError(err)
	if !ok {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", fe.StatusCode)
	}
	if fe.Cause == nil {
		t.Error("expected transport cause")
	}
}

func TestGet_CanceledWhileWaitingForLimiter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	limiter := provider.NewRateLimiter(0.001, 1)
	c := New(limiter, logger)

	// Spend the single token, then cancel before the next one.
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("priming limiter: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "http://127.0.0.1:1/never")
	if _, ok := provider.AsFetchError(err); !ok {
		t.Fatalf("expected FetchError, got %v", err)
	}
}
