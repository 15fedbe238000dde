// Package geo detects the user's city from their public IP. It is used
// once, on first run, when the settings file carries no city yet.
package geo

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
)

// Location holds the city and country detected from the user's IP.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// geoAPIURL is the geolocation API endpoint. It is a variable (not a
// constant) so that tests can override it with an httptest server URL.
var geoAPIURL = "http://ip-api.com/json/?fields=status,message,city,country"

// DetectCity uses ip-api.com to determine the user's city from their
// public IP address. This is a free service that requires no API key.
func DetectCity() (*Location, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(geoAPIURL)
	if err != nil {
		return nil, errors.Wrap(err, "geolocation request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "failed to decode geolocation response")
	}

	if result.Status != "success" {
		return nil, errors.Newf("geolocation failed: %s", result.Message)
	}
	if result.City == "" {
		return nil, errors.New("geolocation response has no city")
	}

	return &Location{City: result.City, Country: result.Country}, nil
}
