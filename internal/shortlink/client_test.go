package shortlink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testClient(apiURL string) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: "test-key",
		http:   &http.Client{Timeout: time.Second},
	}
}

func TestShortenSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api"))
		assert.Equal(t, "https://example.com/verify/auto?token=abc", r.URL.Query().Get("url"))

		w.Write([]byte(`{"status":"success","shortenedUrl":"https://short.example/xyz"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)

	got := c.Shorten(context.Background(), "https://example.com/verify/auto?token=abc")
	assert.Equal(t, "https://short.example/xyz", got)
}

func TestShortenDegradesToLongURL(t *testing.T) {
	long := "https://example.com/verify/auto?token=abc"

	t.Run("unconfigured", func(t *testing.T) {
		c := &Client{http: &http.Client{Timeout: time.Second}}
		assert.Equal(t, long, c.Shorten(context.Background(), long))
	})

	t.Run("unreachable", func(t *testing.T) {
		c := testClient("http://127.0.0.1:1")
		assert.Equal(t, long, c.Shorten(context.Background(), long))
	})

	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		assert.Equal(t, long, testClient(srv.URL).Shorten(context.Background(), long))
	})

	t.Run("rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"error","message":"invalid api key"}`))
		}))
		defer srv.Close()

		assert.Equal(t, long, testClient(srv.URL).Shorten(context.Background(), long))
	})

	t.Run("garbage body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer srv.Close()

		assert.Equal(t, long, testClient(srv.URL).Shorten(context.Background(), long))
	})
}
