package geo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func withGeoAPI(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	orig := geoAPIURL
	geoAPIURL = srv.URL
	t.Cleanup(func() { geoAPIURL = orig })
}

func TestDetectCity(t *testing.T) {
	withGeoAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","city":"Shah Alam","country":"Malaysia"}`))
	})

	loc, err := DetectCity()
	if err != nil {
		t.Fatalf("DetectCity() error: %v", err)
	}
	if loc.City != "Shah Alam" {
		t.Errorf("City = %q, want %q", loc.City, "Shah Alam")
	}
	if loc.Country != "Malaysia" {
		t.Errorf("Country = %q, want %q", loc.Country, "Malaysia")
	}
}

func TestDetectCityAPIFailure(t *testing.T) {
	withGeoAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	})

	if _, err := DetectCity(); err == nil {
		t.Fatal("expected error for failed geolocation status")
	}
}

func TestDetectCityHTTPError(t *testing.T) {
	withGeoAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	if _, err := DetectCity(); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestDetectCityEmptyCity(t *testing.T) {
	withGeoAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","city":"","country":"Malaysia"}`))
	})

	if _, err := DetectCity(); err == nil {
		t.Fatal("expected error when response has no city")
	}
}
