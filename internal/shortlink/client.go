// Package shortlink wraps the external monetized URL shortener. The
// service takes a destination URL and hands back a short ad-walled URL
// that eventually redirects the visitor to the destination.
package shortlink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Client struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func New() *Client {
	return &Client{
		apiURL: viper.GetString("shortlink.api_url"),
		apiKey: viper.GetString("shortlink.api_key"),
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

type shortenResponse struct {
	Status       string `json:"status"`
	ShortenedURL string `json:"shortenedUrl"`
	Message      string `json:"message"`
}

// Shorten returns the monetized short URL wrapping longURL. Verification
// must keep working when the partner is down or misconfigured, so every
// failure path degrades to returning longURL unchanged.
func (c *Client) Shorten(ctx context.Context, longURL string) string {
	if c.apiURL == "" || c.apiKey == "" {
		return longURL
	}

	endpoint := fmt.Sprintf("%s?api=%s&url=%s", c.apiURL, url.QueryEscape(c.apiKey), url.QueryEscape(longURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		zap.L().Warn("Failed to build shortlink request", zap.Error(err))
		return longURL
	}

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Warn("Shortlink service unreachable", zap.Error(err))
		return longURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.L().Warn("Shortlink service returned an error", zap.Int("status", resp.StatusCode))
		return longURL
	}

	var data shortenResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		zap.L().Warn("Failed to decode shortlink response", zap.Error(err))
		return longURL
	}

	if data.Status != "success" || data.ShortenedURL == "" {
		zap.L().Warn("Shortlink service rejected the URL", zap.String("message", data.Message))
		return longURL
	}

	return data.ShortenedURL
}
