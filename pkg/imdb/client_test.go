package imdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "imdbratings/pkg/errors"
	"imdbratings/pkg/logger"
	"imdbratings/pkg/profile"
)

var alice = profile.Profile{Username: "alice", URL: "http://www.imdb.com/user/ur0000001/", UserID: "ur0000001"}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) (*Client, *logger.TestLogger) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.NewTestLogger()
	opts.BaseURL = server.URL
	opts.Logger = log
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}

	client, err := NewClient(opts)
	require.NoError(t, err)
	return client, log
}

func TestGetExportURL(t *testing.T) {
	assert.Equal(t,
		"http://www.imdb.com/list/export?author_id=ur42&list_id=ratings",
		GetExportURL("http://www.imdb.com/", "ur42"))
}

func TestFetchSuccess(t *testing.T) {
	body := "const,Your Rating\ntt0111161,10\n"

	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ExportEndpoint, r.URL.Path)
		assert.Equal(t, "ratings", r.URL.Query().Get("list_id"))
		assert.Equal(t, "ur0000001", r.URL.Query().Get("author_id"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		id, err := r.Cookie("id")
		if assert.NoError(t, err) {
			assert.Equal(t, "abc=def", id.Value)
		}
		sid, err := r.Cookie("sid")
		if assert.NoError(t, err) {
			assert.Equal(t, "xyz", sid.Value)
		}

		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}, Options{
		UserAgent: "test-agent",
		Cookies:   map[string]string{"id": "abc=def", "sid": "xyz"},
	})

	data, err := client.Fetch(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))

	assert.True(t, log.HasMessage("Sending HTTP request"))
	assert.True(t, log.HasMessage("OK"))
	for _, msg := range log.GetMessagesByLevel("INFO") {
		assert.Equal(t, "alice", msg.Fields["username"])
		assert.Contains(t, msg.Fields["url"], "author_id=ur0000001")
	}
}

func TestFetchBadStatus(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusServiceUnavailable, http.StatusNoContent} {
		client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}, Options{})

		data, err := client.Fetch(context.Background(), alice)
		require.Error(t, err)
		assert.Nil(t, data)
		assert.Equal(t, errs.ErrorTypeStatus, errs.TypeOf(err))
		assert.Contains(t, errs.Reason(err), "Bad HTTP status code")
		assert.True(t, log.HasMessage(errs.Reason(err)))
	}
}

func TestFetchEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, Options{})

	_, err := client.Fetch(context.Background(), alice)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeEmpty, errs.TypeOf(err))
}

func TestFetchConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	log := logger.NewTestLogger()
	client, err := NewClient(Options{BaseURL: baseURL, Timeout: time.Second, Logger: log})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), alice)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeNetwork, errs.TypeOf(err))
	assert.Equal(t, errs.ConnectionErrorReason, errs.Reason(err))

	var found bool
	for _, msg := range log.GetMessages() {
		if strings.HasPrefix(msg.Message, "Connection error: ") {
			found = true
		}
	}
	assert.True(t, found, "connection error cause should be logged")
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Options{Timeout: 50 * time.Millisecond})
	defer close(release)

	_, err := client.Fetch(context.Background(), alice)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeNetwork, errs.TypeOf(err))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestFetchUsesTransport(t *testing.T) {
	var calls int32
	client, err := NewClient(Options{
		Logger: logger.NewNopLogger(),
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("no route to host")
		}),
	})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), alice)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "the client never retries internally")
	assert.Equal(t, "http://www.imdb.com/list/export?author_id=ur0000001&list_id=ratings", client.ExportURL(alice))
}

func TestNewClientInvalidBaseURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "not a url", Logger: logger.NewNopLogger()})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}
