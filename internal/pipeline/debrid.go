package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DebridClient drives the debrid/seedbox service that turns magnet links
// into direct HTTP downloads.
type DebridClient struct {
	apiURL string
	apiKey string
	http   *http.Client

	// pollEvery is shortened in tests
	pollEvery time.Duration
}

func NewDebrid() *DebridClient {
	return &DebridClient{
		apiURL:    strings.TrimSuffix(viper.GetString("pipeline.debrid_api_url"), "/"),
		apiKey:    viper.GetString("pipeline.debrid_api_key"),
		http:      &http.Client{Timeout: 60 * time.Second},
		pollEvery: 30 * time.Second,
	}
}

type debridAddResponse struct {
	Success bool `json:"success"`
	Value   struct {
		ID string `json:"id"`
	} `json:"value"`
}

type debridTorrent struct {
	ID              json.Number `json:"id"`
	Status          string      `json:"status"`
	DownloadPercent float64     `json:"downloadPercent"`
	Name            string      `json:"name"`
}

type debridListResponse struct {
	Success bool            `json:"success"`
	Value   []debridTorrent `json:"value"`
}

type debridFile struct {
	Size        int64  `json:"size"`
	DownloadURL string `json:"downloadUrl"`
}

type debridFilesResponse struct {
	Success bool         `json:"success"`
	Value   []debridFile `json:"value"`
}

// AddMagnet queues a magnet on the seedbox and returns the torrent id.
func (d *DebridClient) AddMagnet(ctx context.Context, magnet string) (string, error) {
	form := url.Values{"url": {magnet}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.apiURL+"/seedbox/add", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach debrid service, %w", err)
	}
	defer resp.Body.Close()

	var data debridAddResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode debrid response, %w", err)
	}

	if !data.Success || data.Value.ID == "" {
		return "", errors.New("debrid rejected the magnet")
	}

	return data.Value.ID, nil
}

func (d *DebridClient) status(ctx context.Context, torrentID string) (*debridTorrent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.apiURL+"/seedbox/list", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data debridListResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	for i := range data.Value {
		if data.Value[i].ID.String() == torrentID {
			return &data.Value[i], nil
		}
	}

	return nil, errors.New("torrent not found on seedbox")
}

// WaitForLink polls the torrent every 30 seconds until it finishes, then
// returns the direct link of its largest file (the movie itself, not the
// samples or subtitles packed alongside it). The context deadline bounds
// the wait.
func (d *DebridClient) WaitForLink(ctx context.Context, torrentID string) (string, error) {
	ticker := time.NewTicker(d.pollEvery)
	defer ticker.Stop()

	for {
		st, err := d.status(ctx, torrentID)
		if err != nil {
			return "", err
		}

		switch st.Status {
		case "downloaded":
			return d.directLink(ctx, torrentID)
		case "error":
			return "", errors.New("torrent failed on seedbox")
		}

		zap.L().Debug("Waiting for debrid download",
			zap.String("torrent", torrentID),
			zap.Float64("percent", st.DownloadPercent),
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("debrid download timed out, %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (d *DebridClient) directLink(ctx context.Context, torrentID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.apiURL+"/seedbox/"+torrentID+"/files", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var data debridFilesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}

	var best *debridFile
	for i := range data.Value {
		if best == nil || data.Value[i].Size > best.Size {
			best = &data.Value[i]
		}
	}

	if best == nil || best.DownloadURL == "" {
		return "", errors.New("no downloadable files on torrent")
	}

	return best.DownloadURL, nil
}
