package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const body = `{"type":"Point","coordinates":[1,2]}`

func newClient(t *testing.T, opts Options) *Client {
	t.Helper()
	if opts.Rate == 0 {
		opts.Rate = 1000
		opts.Burst = 100
	}
	c, err := New(nil, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestGetSendsHeaders(t *testing.T) {
	var accept, ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		ua = r.Header.Get("User-Agent")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := newClient(t, Options{UserAgent: "gjmap-test"})
	got, err := c.Get(context.Background(), srv.URL+"/a.geojson")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != body {
		t.Errorf("body %q", got)
	}
	if !strings.HasPrefix(accept, "application/geo+json") {
		t.Errorf("Accept header %q", accept)
	}
	if ua != "gjmap-test" {
		t.Errorf("User-Agent %q", ua)
	}
}

func TestGetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := newClient(t, Options{})
	_, err := c.Get(context.Background(), srv.URL+"/missing.geojson")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound || se.Error() != "404 Not Found" {
		t.Errorf("got %d %q", se.Code, se.Error())
	}
}

func TestGetRejectsOtherSchemes(t *testing.T) {
	c := newClient(t, Options{})
	for _, u := range []string{"file:///etc/passwd", "ftp://example.com/a.json", "a.geojson"} {
		if _, err := c.Get(context.Background(), u); !errors.Is(err, ErrScheme) {
			t.Errorf("%s: expected ErrScheme, got %v", u, err)
		}
	}
}

func TestGetConditionalReuse(t *testing.T) {
	var hits, revalidated int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			atomic.AddInt32(&revalidated, 1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := newClient(t, Options{})
	for i := 0; i < 2; i++ {
		got, err := c.Get(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Get %d: %v", i, err)
		}
		if string(got) != body {
			t.Fatalf("Get %d body %q", i, got)
		}
	}
	if hits != 2 || revalidated != 1 {
		t.Errorf("hits=%d revalidated=%d", hits, revalidated)
	}
}

func TestGetTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	c := newClient(t, Options{MaxBytes: 16})
	if _, err := c.Get(context.Background(), srv.URL); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestGetCanceled(t *testing.T) {
	c := newClient(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Get(ctx, "http://127.0.0.1:1/x"); err == nil {
		t.Error("expected error for canceled context")
	}
}
