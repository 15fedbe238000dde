package sched

import (
	"sync"
	"testing"
	"time"

	"github.com/amjadrushdan/waktu-solat/internal/prayer"
)

// ---------------------------------------------------------------------------
// FireTimes
// ---------------------------------------------------------------------------

func TestFireTimes_LeadSubtraction(t *testing.T) {
	times := prayer.TimeSet{
		Fajr:    "05:42",
		Sunrise: "07:01",
		Dhuhr:   "13:15",
		Asr:     "16:40",
		Maghrib: "19:20",
		Isha:    "20:35",
	}
	now := time.Date(2024, 6, 1, 0, 30, 0, 0, time.UTC)

	got := FireTimes(times, now, 10*time.Minute)

	if len(got) != 5 {
		t.Fatalf("expected 5 fire times, got %d: %v", len(got), got)
	}
	if _, ok := got[prayer.Sunrise]; ok {
		t.Error("Sunrise must never get a notification job")
	}

	wantFajr := time.Date(2024, 6, 1, 5, 32, 0, 0, time.UTC)
	if !got[prayer.Fajr].Equal(wantFajr) {
		t.Errorf("Fajr fire time = %v, want %v", got[prayer.Fajr], wantFajr)
	}
}

func TestFireTimes_SkipsPastLeadWindows(t *testing.T) {
	times := prayer.TimeSet{
		Fajr:    "05:42",
		Sunrise: "07:01",
		Dhuhr:   "13:15",
		Asr:     "16:40",
		Maghrib: "19:20",
		Isha:    "20:35",
	}
	// 13:10 — Dhuhr's lead window (13:05) has already opened; no backfill.
	now := time.Date(2024, 6, 1, 13, 10, 0, 0, time.UTC)

	got := FireTimes(times, now, 10*time.Minute)

	for _, name := range []string{prayer.Fajr, prayer.Dhuhr} {
		if _, ok := got[name]; ok {
			t.Errorf("%s should have been skipped (lead window passed)", name)
		}
	}
	for _, name := range []string{prayer.Asr, prayer.Maghrib, prayer.Isha} {
		if _, ok := got[name]; !ok {
			t.Errorf("%s missing from fire times", name)
		}
	}
}

func TestFireTimes_ExactFireMinuteIsSkipped(t *testing.T) {
	times := prayer.TimeSet{Dhuhr: "13:15"}
	// Exactly at the fire minute: strictly-after means skip.
	now := time.Date(2024, 6, 1, 13, 5, 0, 0, time.UTC)

	got := FireTimes(times, now, 10*time.Minute)
	if _, ok := got[prayer.Dhuhr]; ok {
		t.Error("fire time equal to now must be skipped")
	}
}

func TestFireTimes_SkipsMalformed(t *testing.T) {
	times := prayer.TimeSet{
		Fajr:  "garbage",
		Dhuhr: "13:15",
	}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	got := FireTimes(times, now, 10*time.Minute)
	if _, ok := got[prayer.Fajr]; ok {
		t.Error("malformed Fajr should be skipped, not fatal")
	}
	if _, ok := got[prayer.Dhuhr]; !ok {
		t.Error("well-formed sibling must still be scheduled")
	}
}

func TestFireTimes_SuffixStripped(t *testing.T) {
	times := prayer.TimeSet{Isha: "20:35 (+08)"}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	got := FireTimes(times, now, 10*time.Minute)
	want := time.Date(2024, 6, 1, 20, 25, 0, 0, time.UTC)
	if !got[prayer.Isha].Equal(want) {
		t.Errorf("Isha fire time = %v, want %v", got[prayer.Isha], want)
	}
}

// ---------------------------------------------------------------------------
// Reschedule
// ---------------------------------------------------------------------------

// futureSet builds a TimeSet with every prayer comfortably in the future
// relative to now, staying within the same calendar day where possible.
func futureSet(now time.Time) prayer.TimeSet {
	at := func(d time.Duration) string { return now.Add(d).Format("15:04") }
	return prayer.TimeSet{
		Fajr:    at(1 * time.Hour),
		Sunrise: at(1*time.Hour + 20*time.Minute),
		Dhuhr:   at(2 * time.Hour),
		Asr:     at(2*time.Hour + 30*time.Minute),
		Maghrib: at(3 * time.Hour),
		Isha:    at(3*time.Hour + 30*time.Minute),
	}
}

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	d, err := New(10*time.Minute, func(string, int) {})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Stop)
	return d
}

func TestReschedule_OneJobPerEligiblePrayer(t *testing.T) {
	d := newTestDriver(t)

	now := time.Now()
	times := futureSet(now)

	// The expected pending set is whatever the pure derivation yields;
	// near midnight some entries roll past and are legitimately skipped.
	expected := FireTimes(times, now, 10*time.Minute)

	d.Reschedule(times)

	pending := d.Pending()
	if len(pending) != len(expected) {
		t.Fatalf("pending = %v, want %d jobs (%v)", pending, len(expected), expected)
	}
	for _, name := range pending {
		if name == prayer.Sunrise {
			t.Error("Sunrise has a notification job")
		}
		if _, ok := expected[name]; !ok {
			t.Errorf("unexpected pending job for %s", name)
		}
	}
}

func TestReschedule_TwiceLeavesNoDuplicates(t *testing.T) {
	d := newTestDriver(t)

	now := time.Now()
	times := futureSet(now)
	expected := FireTimes(times, now, 10*time.Minute)

	d.Reschedule(times)
	first := d.Pending()

	d.Reschedule(times)
	second := d.Pending()

	if len(second) != len(expected) {
		t.Fatalf("after second reschedule pending = %v, want %d jobs", second, len(expected))
	}
	if len(first) != len(second) {
		t.Errorf("pending changed across identical reschedules: %v vs %v", first, second)
	}
}

func TestReschedule_AllPastYieldsNoJobs(t *testing.T) {
	d := newTestDriver(t)

	// Midnight times: every fire window is always in the past.
	times := prayer.TimeSet{
		Fajr:    "00:00",
		Sunrise: "00:00",
		Dhuhr:   "00:00",
		Asr:     "00:00",
		Maghrib: "00:00",
		Isha:    "00:00",
	}

	d.Reschedule(times)
	if pending := d.Pending(); len(pending) != 0 {
		t.Errorf("expected no jobs for all-past times, got %v", pending)
	}
}

func TestReschedule_ClearsPreviousSet(t *testing.T) {
	d := newTestDriver(t)

	now := time.Now()
	d.Reschedule(futureSet(now))

	// Rescheduling with an empty set cancels everything from the first.
	d.Reschedule(prayer.TimeSet{})
	if pending := d.Pending(); len(pending) != 0 {
		t.Errorf("jobs from the previous set survived: %v", pending)
	}
}

func TestDriver_NotifyReceivesLeadMinutes(t *testing.T) {
	var (
		mu   sync.Mutex
		name string
		mins int
	)
	d, err := New(10*time.Minute, func(n string, m int) {
		mu.Lock()
		name, mins = n, m
		mu.Unlock()
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Stop)

	// Exercise the callback wiring directly.
	d.notify(prayer.Asr, int(d.lead.Minutes()))

	mu.Lock()
	defer mu.Unlock()
	if name != prayer.Asr || mins != 10 {
		t.Errorf("notify got (%s, %d), want (Asr, 10)", name, mins)
	}
}
