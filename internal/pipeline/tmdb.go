package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const tmdbImageBase = "https://image.tmdb.org/t/p/w500"

type TMDBClient struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func NewTMDB() *TMDBClient {
	return &TMDBClient{
		apiURL: strings.TrimSuffix(viper.GetString("pipeline.tmdb_api_url"), "/"),
		apiKey: viper.GetString("pipeline.tmdb_api_key"),
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

type PosterInfo struct {
	PosterURL string
	Overview  string
	Rating    float64
}

type tmdbSearchResponse struct {
	Results []struct {
		PosterPath  string  `json:"poster_path"`
		Overview    string  `json:"overview"`
		VoteAverage float64 `json:"vote_average"`
	} `json:"results"`
}

// Search looks the title up on TMDB and returns poster metadata for the
// first hit. A miss is a nil result, not an error; movies without a
// poster still enter the catalog.
func (t *TMDBClient) Search(ctx context.Context, title string, year int) (*PosterInfo, error) {
	if t.apiKey == "" {
		return nil, nil
	}

	q := url.Values{
		"api_key": {t.apiKey},
		"query":   {title},
	}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.apiURL+"/search/movie?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach TMDB, %w", err)
	}
	defer resp.Body.Close()

	var data tmdbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode TMDB response, %w", err)
	}

	if len(data.Results) == 0 {
		return nil, nil
	}

	hit := data.Results[0]

	info := &PosterInfo{
		Overview: hit.Overview,
		Rating:   hit.VoteAverage,
	}
	if hit.PosterPath != "" {
		info.PosterURL = tmdbImageBase + hit.PosterPath
	}

	return info, nil
}

// FetchPoster downloads a poster image. The caller streams the body into
// the storage backend and must close it.
func (t *TMDBClient) FetchPoster(ctx context.Context, posterURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, posterURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download poster, %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("poster download returned status %d", resp.StatusCode)
	}

	return resp, nil
}
