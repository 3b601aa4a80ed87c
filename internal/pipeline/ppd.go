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
)

// PPDClient mirrors a direct download link onto the pay-per-download
// host via its remote-upload API. The host serves the actual traffic;
// the catalog only stores the watch and download URLs it hands back.
type PPDClient struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func NewPPD() *PPDClient {
	return &PPDClient{
		apiURL: strings.TrimSuffix(viper.GetString("pipeline.ppd_api_url"), "/"),
		apiKey: viper.GetString("pipeline.ppd_api_key"),
		// Remote uploads pull gigabytes host-side before answering
		http: &http.Client{Timeout: 5 * time.Minute},
	}
}

type ppdUploadResponse struct {
	Success bool   `json:"success"`
	FileID  string `json:"file_id"`
}

type MirrorResult struct {
	WatchURL    string
	DownloadURL string
}

func (p *PPDClient) RemoteUpload(ctx context.Context, directLink, filename string) (*MirrorResult, error) {
	form := url.Values{
		"api_key":  {p.apiKey},
		"url":      {directLink},
		"filename": {filename},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/remote_upload", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach PPD host, %w", err)
	}
	defer resp.Body.Close()

	var data ppdUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode PPD response, %w", err)
	}

	if !data.Success || data.FileID == "" {
		return nil, errors.New("PPD host rejected the upload")
	}

	return &MirrorResult{
		WatchURL:    p.apiURL + "/watch/" + data.FileID,
		DownloadURL: p.apiURL + "/download/" + data.FileID,
	}, nil
}
