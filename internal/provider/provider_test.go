package provider

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/amjadrushdan/waktu-solat/internal/api"
	"github.com/amjadrushdan/waktu-solat/internal/cache"
	"github.com/amjadrushdan/waktu-solat/internal/prayer"
)

var testDate = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func sampleSet() prayer.TimeSet {
	return prayer.TimeSet{
		Fajr:    "05:42",
		Sunrise: "07:01",
		Dhuhr:   "13:15",
		Asr:     "16:40",
		Maghrib: "19:20",
		Isha:    "20:35",
	}
}

// stubFetcher counts calls and returns a canned response or error.
type stubFetcher struct {
	calls int
	resp  *api.Response
	err   error
}

func (s *stubFetcher) FetchByCity(ctx context.Context, date time.Time, city, country string, method int) (*api.Response, error) {
	s.calls++
	return s.resp, s.err
}

func okResponse() *api.Response {
	return &api.Response{
		Code:   200,
		Status: "OK",
		Data: api.Data{
			Timings: api.Timings{
				Fajr:    "05:42",
				Sunrise: "07:01",
				Dhuhr:   "13:15",
				Asr:     "16:40",
				Maghrib: "19:20",
				Isha:    "20:35",
			},
		},
	}
}

func newTestProvider(t *testing.T, f *stubFetcher) (*Provider, *cache.Cache) {
	t.Helper()
	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(c, f, "Malaysia", 3), c
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestResolve_CacheHitSkipsNetwork(t *testing.T) {
	f := &stubFetcher{resp: okResponse()}
	p, c := newTestProvider(t, f)

	c.Put("Kuala Lumpur", testDate, sampleSet())

	got, ok := p.Resolve(context.Background(), "Kuala Lumpur", testDate)
	if !ok {
		t.Fatal("expected a result from cache")
	}
	if got != sampleSet() {
		t.Errorf("Resolve = %+v, want cached %+v", got, sampleSet())
	}
	if f.calls != 0 {
		t.Errorf("fetcher was called %d times on a cache hit", f.calls)
	}
}

func TestResolve_FetchPopulatesCache(t *testing.T) {
	f := &stubFetcher{resp: okResponse()}
	p, c := newTestProvider(t, f)

	got, ok := p.Resolve(context.Background(), "Kuala Lumpur", testDate)
	if !ok {
		t.Fatal("expected a result from fetch")
	}
	if got != sampleSet() {
		t.Errorf("Resolve = %+v, want %+v", got, sampleSet())
	}
	if f.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", f.calls)
	}

	// The fetched set is now stored under the exact key.
	if cached, ok := c.Get("Kuala Lumpur", testDate); !ok || cached != sampleSet() {
		t.Errorf("cache not populated after fetch: %+v, ok=%v", cached, ok)
	}

	// A second resolve hits the cache, not the network.
	if _, ok := p.Resolve(context.Background(), "Kuala Lumpur", testDate); !ok {
		t.Fatal("second Resolve failed")
	}
	if f.calls != 1 {
		t.Errorf("fetcher called %d times after cached resolve, want 1", f.calls)
	}
}

func TestResolve_FetchFailureUsesPreviousDay(t *testing.T) {
	f := &stubFetcher{err: errors.New("network down")}
	p, c := newTestProvider(t, f)

	stale := sampleSet()
	stale.Fajr = "05:43"
	c.Put("Kuala Lumpur", testDate.AddDate(0, 0, -1), stale)

	got, ok := p.Resolve(context.Background(), "Kuala Lumpur", testDate)
	if !ok {
		t.Fatal("expected the previous day's entry as fallback")
	}
	if got != stale {
		t.Errorf("Resolve = %+v, want stale %+v", got, stale)
	}
}

func TestResolve_FetchFailureNoFallback(t *testing.T) {
	f := &stubFetcher{err: errors.New("network down")}
	p, _ := newTestProvider(t, f)

	if _, ok := p.Resolve(context.Background(), "Kuala Lumpur", testDate); ok {
		t.Error("expected no result with no cache and a failing fetch")
	}
}

func TestResolve_FailedFetchDoesNotOverwriteCache(t *testing.T) {
	f := &stubFetcher{resp: okResponse()}
	p, c := newTestProvider(t, f)

	// First resolve fetches and caches.
	if _, ok := p.Resolve(context.Background(), "Kuala Lumpur", testDate); !ok {
		t.Fatal("initial resolve failed")
	}

	// Later fetches fail; the stored entry must survive untouched.
	f.resp = nil
	f.err = errors.New("upstream 500")

	got, ok := c.Get("Kuala Lumpur", testDate)
	if !ok || got != sampleSet() {
		t.Errorf("cache entry changed after failed fetch: %+v, ok=%v", got, ok)
	}
}
