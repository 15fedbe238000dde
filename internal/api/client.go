// Package api provides a client for the Al Adhan prayer times API.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// fetchTimeout bounds a single timings request.
const fetchTimeout = 10 * time.Second

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
		BaseURL: baseURL,
	}
}

// FetchByCity fetches prayer times for the given date, city, and country.
// The API expects the date as DD-MM-YYYY.
func (c *Client) FetchByCity(ctx context.Context, date time.Time, city, country string, method int) (*Response, error) {
	params := url.Values{}
	params.Set("city", city)
	params.Set("country", country)
	params.Set("date", date.Format("02-01-2006"))
	if method >= 0 {
		params.Set("method", strconv.Itoa(method))
	}

	reqURL := c.BaseURL + "/timingsByCity?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "API request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Newf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, errors.Wrap(err, "failed to decode API response")
	}

	if apiResp.Code != 200 {
		return nil, errors.Newf("API error: code=%d status=%s", apiResp.Code, apiResp.Status)
	}

	return &apiResp, nil
}
