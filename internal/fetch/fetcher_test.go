package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brogergvhs/storyd/internal/fetch"
	"github.com/brogergvhs/storyd/internal/proxy"
	"github.com/brogergvhs/storyd/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const target = "https://www.literotica.com/s/a-story"

var longBody = "<html><body>" + strings.Repeat("story text ", 20) + "</body></html>"

type relay struct {
	mu    sync.Mutex
	hits  []string
	query []string
	reply func(path string) (int, string)
}

func (r *relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.hits = append(r.hits, req.URL.Path)
	r.query = append(r.query, req.URL.Query().Get("url"))
	r.mu.Unlock()

	status, body := r.reply(req.URL.Path)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (r *relay) paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.hits...)
}

func (r *relay) targets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.query...)
}

func newRelay(t *testing.T, reply func(path string) (int, string)) (*relay, []string) {
	t.Helper()

	r := &relay{reply: reply}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return r, []string{srv.URL + "/p0?url=", srv.URL + "/p1?url=", srv.URL + "/p2?url="}
}

func fastOptions() fetch.Options {
	return fetch.Options{
		MaxAttempts:   3,
		Timeout:       2 * time.Second,
		Backoff:       0,
		MinBodyLength: 100,
	}
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns first valid body", func(t *testing.T) {
		t.Parallel()

		r, endpoints := newRelay(t, func(string) (int, string) { return http.StatusOK, longBody })
		rot := proxy.NewRotator(endpoints)
		f := fetch.New(http.DefaultClient, rot, ui.Nop(), fastOptions())

		body, err := f.Fetch(context.Background(), target, 3)

		require.NoError(t, err)
		assert.Equal(t, longBody, body)
		assert.Equal(t, []string{"/p0"}, r.paths())
		assert.Equal(t, []string{target}, r.targets())
		assert.Equal(t, 0, rot.Index())
	})

	t.Run("always failing transport exhausts attempts", func(t *testing.T) {
		t.Parallel()

		r, endpoints := newRelay(t, func(string) (int, string) { return http.StatusBadGateway, longBody })
		rot := proxy.NewRotator(endpoints)
		f := fetch.New(http.DefaultClient, rot, ui.Nop(), fastOptions())

		_, err := f.Fetch(context.Background(), target, 3)

		require.Error(t, err)
		var rerr *fetch.RetrievalError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, 3, rerr.Attempts)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.Contains(t, err.Error(), "HTTP 502")
		assert.Equal(t, []string{"/p0", "/p1", "/p2"}, r.paths())
		assert.Equal(t, 2, rot.Index(), "rotates on every attempt but the last")
	})

	t.Run("attempts beyond the endpoint count wrap around", func(t *testing.T) {
		t.Parallel()

		r, endpoints := newRelay(t, func(string) (int, string) { return http.StatusInternalServerError, "" })
		rot := proxy.NewRotator(endpoints)
		f := fetch.New(http.DefaultClient, rot, ui.Nop(), fastOptions())

		_, err := f.Fetch(context.Background(), target, 5)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 5 attempts")
		assert.Equal(t, []string{"/p0", "/p1", "/p2", "/p0", "/p1"}, r.paths())
		assert.Equal(t, 1, rot.Index())
	})

	t.Run("short body on success status counts as failure", func(t *testing.T) {
		t.Parallel()

		r, endpoints := newRelay(t, func(path string) (int, string) {
			if path == "/p0" {
				return http.StatusOK, "<html></html>"
			}
			return http.StatusOK, longBody
		})
		rot := proxy.NewRotator(endpoints)
		f := fetch.New(http.DefaultClient, rot, ui.Nop(), fastOptions())

		body, err := f.Fetch(context.Background(), target, 3)

		require.NoError(t, err)
		assert.Equal(t, longBody, body)
		assert.Equal(t, []string{"/p0", "/p1"}, r.paths())
		assert.Equal(t, 1, rot.Index())
	})

	t.Run("body exactly at threshold is accepted", func(t *testing.T) {
		t.Parallel()

		exact := strings.Repeat("x", 100)
		_, endpoints := newRelay(t, func(string) (int, string) { return http.StatusOK, exact })
		f := fetch.New(http.DefaultClient, proxy.NewRotator(endpoints), ui.Nop(), fastOptions())

		body, err := f.Fetch(context.Background(), target, 1)

		require.NoError(t, err)
		assert.Equal(t, exact, body)
	})

	t.Run("short body error is reported after exhaustion", func(t *testing.T) {
		t.Parallel()

		_, endpoints := newRelay(t, func(string) (int, string) { return http.StatusOK, "" })
		f := fetch.New(http.DefaultClient, proxy.NewRotator(endpoints), ui.Nop(), fastOptions())

		_, err := f.Fetch(context.Background(), target, 2)

		require.Error(t, err)
		assert.ErrorIs(t, err, fetch.ErrShortBody)
	})

	t.Run("slow relay is abandoned after the timeout", func(t *testing.T) {
		t.Parallel()

		block := make(chan struct{})

		mux := http.NewServeMux()
		mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-block:
			}
		})
		mux.HandleFunc("/fast", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(longBody))
		})
		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(block) })

		opts := fastOptions()
		opts.Timeout = 50 * time.Millisecond
		rot := proxy.NewRotator([]string{srv.URL + "/slow?url=", srv.URL + "/fast?url="})
		f := fetch.New(http.DefaultClient, rot, ui.Nop(), opts)

		body, err := f.Fetch(context.Background(), target, 2)

		require.NoError(t, err)
		assert.Equal(t, longBody, body)
	})

	t.Run("network errors are retried", func(t *testing.T) {
		t.Parallel()

		calls := 0
		client := doerFunc(func(req *http.Request) (*http.Response, error) {
			calls++
			return nil, errors.New("connection refused")
		})
		f := fetch.New(client, proxy.NewRotator([]string{"http://a/?u=", "http://b/?u="}), ui.Nop(), fastOptions())

		_, err := f.Fetch(context.Background(), target, 4)

		require.Error(t, err)
		assert.Equal(t, 4, calls)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("non-positive attempts use the configured default", func(t *testing.T) {
		t.Parallel()

		calls := 0
		client := doerFunc(func(req *http.Request) (*http.Response, error) {
			calls++
			return nil, errors.New("boom")
		})
		opts := fastOptions()
		opts.MaxAttempts = 2
		f := fetch.New(client, nil, ui.Nop(), opts)

		_, err := f.Fetch(context.Background(), target, 0)

		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("configured headers are sent", func(t *testing.T) {
		t.Parallel()

		var got string
		client := doerFunc(func(req *http.Request) (*http.Response, error) {
			got = req.Header.Get("X-Requested-With")
			return nil, errors.New("stop")
		})
		opts := fastOptions()
		opts.Headers = map[string]string{"X-Requested-With": "XMLHttpRequest"}
		f := fetch.New(client, nil, ui.Nop(), opts)

		_, _ = f.Fetch(context.Background(), target, 1)

		assert.Equal(t, "XMLHttpRequest", got)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		client := doerFunc(func(req *http.Request) (*http.Response, error) {
			calls++
			cancel()
			return nil, req.Context().Err()
		})
		f := fetch.New(client, nil, ui.Nop(), fastOptions())

		_, err := f.Fetch(ctx, target, 3)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}
