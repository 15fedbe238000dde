// Package sched drives the recurring work: the 60-second wallpaper
// refresh, the once-daily re-fetch at 00:01 local time, and the one-shot
// pre-prayer notification jobs.
package sched

import (
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/amjadrushdan/waktu-solat/internal/prayer"
)

const (
	refreshInterval = 60 * time.Second
	// dailyCron fires at 00:01 local time, after the calendar day rolls over.
	dailyCron = "1 0 * * *"
)

// NotifyFunc delivers a pre-prayer notification.
type NotifyFunc func(name string, minutesUntil int)

// Driver owns the gocron scheduler and the per-prayer notification jobs.
// Notification jobs are tracked in a typed map keyed by the closed prayer
// name enumeration, so a reschedule cancels by iterating that map rather
// than matching id strings.
type Driver struct {
	sched  gocron.Scheduler
	lead   time.Duration
	notify NotifyFunc

	// now is a test seam; production uses time.Now.
	now func() time.Time

	mu   sync.Mutex
	jobs map[string]uuid.UUID
}

// New creates a Driver. lead is how long before each prayer the
// notification fires.
func New(lead time.Duration, notify NotifyFunc) (*Driver, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return nil, errors.Wrap(err, "creating scheduler")
	}
	return &Driver{
		sched:  s,
		lead:   lead,
		notify: notify,
		now:    time.Now,
		jobs:   make(map[string]uuid.UUID),
	}, nil
}

// StartRecurring registers the two standing timers and starts the
// scheduler. refresh runs every 60 seconds and must not touch the
// network; daily runs once at 00:01 local time. Manual refreshes run
// out-of-band and do not move these timers.
func (d *Driver) StartRecurring(refresh, daily func()) error {
	if _, err := d.sched.NewJob(
		gocron.DurationJob(refreshInterval),
		gocron.NewTask(refresh),
		gocron.WithName("refresh-wallpaper"),
	); err != nil {
		return errors.Wrap(err, "registering refresh job")
	}

	if _, err := d.sched.NewJob(
		gocron.CronJob(dailyCron, false),
		gocron.NewTask(daily),
		gocron.WithName("fetch-daily"),
	); err != nil {
		return errors.Wrap(err, "registering daily job")
	}

	d.sched.Start()
	log.Info().Msg("scheduler started")
	return nil
}

// Reschedule replaces all pending notification jobs with a fresh set
// derived from times. The cancel-then-add sequence runs under one lock,
// so no job from the previous set survives and no prayer ends up with
// two jobs. Fire times already in the past are silently skipped.
func (d *Driver) Reschedule(times prayer.TimeSet) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for name, id := range d.jobs {
		if err := d.sched.RemoveJob(id); err != nil {
			log.Debug().Err(err).Str("prayer", name).Msg("removing notification job")
		}
		delete(d.jobs, name)
	}

	now := d.now()
	minutes := int(d.lead.Minutes())

	for name, fireAt := range FireTimes(times, now, d.lead) {
		job, err := d.sched.NewJob(
			gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(fireAt)),
			gocron.NewTask(func() {
				d.notify(name, minutes)
				d.forget(name)
			}),
			gocron.WithName("notify-"+name),
		)
		if err != nil {
			log.Warn().Err(err).Str("prayer", name).Msg("failed to schedule notification")
			continue
		}
		d.jobs[name] = job.ID()
		log.Info().Str("prayer", name).Time("at", fireAt).Msg("scheduled notification")
	}
}

// forget drops a job from the registry once it has fired.
func (d *Driver) forget(name string) {
	d.mu.Lock()
	delete(d.jobs, name)
	d.mu.Unlock()
}

// Pending returns the prayer names with an active notification job,
// sorted for stable output.
func (d *Driver) Pending() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := make([]string, 0, len(d.jobs))
	for name := range d.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stop shuts the scheduler down, cancelling the standing timers and any
// pending notification jobs. Nothing survives a restart.
func (d *Driver) Stop() {
	if err := d.sched.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("scheduler shutdown")
	} else {
		log.Info().Msg("scheduler stopped")
	}
}

// FireTimes derives the notification fire time (prayer time minus lead)
// for each notifiable prayer that is still strictly in the future.
// Sunrise is informational and excluded. Unparsable time strings are
// skipped with a warning.
func FireTimes(times prayer.TimeSet, now time.Time, lead time.Duration) map[string]time.Time {
	out := make(map[string]time.Time, len(prayer.NotifyNames))
	for _, name := range prayer.NotifyNames {
		raw := times.Get(name)
		at, err := prayer.Clock(raw, now)
		if err != nil {
			log.Warn().Str("prayer", name).Str("raw", raw).Msg("could not parse prayer time")
			continue
		}
		fireAt := at.Add(-lead)
		if !fireAt.After(now) {
			continue
		}
		out[name] = fireAt
	}
	return out
}
