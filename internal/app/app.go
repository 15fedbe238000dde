// Package app wires the provider, scheduler, wallpaper, and updater into
// the long-running desktop process.
package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/amjadrushdan/waktu-solat/internal/api"
	"github.com/amjadrushdan/waktu-solat/internal/cache"
	"github.com/amjadrushdan/waktu-solat/internal/config"
	"github.com/amjadrushdan/waktu-solat/internal/geo"
	"github.com/amjadrushdan/waktu-solat/internal/notify"
	"github.com/amjadrushdan/waktu-solat/internal/prayer"
	"github.com/amjadrushdan/waktu-solat/internal/provider"
	"github.com/amjadrushdan/waktu-solat/internal/sched"
	"github.com/amjadrushdan/waktu-solat/internal/updater"
	"github.com/amjadrushdan/waktu-solat/internal/wallpaper"
)

// resolveTimeout bounds one full provider resolution, including the
// network tier.
const resolveTimeout = 15 * time.Second

// App is the assembled application.
type App struct {
	cfg      *config.Config
	provider *provider.Provider
	driver   *sched.Driver
	updater  *updater.Updater
	version  string

	state state
}

// New builds the application from configuration. The scheduler is created
// but not started; Run starts it.
func New(cfg *config.Config, version string) (*App, error) {
	c, err := cache.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.APIBaseURL)
	prov := provider.New(c, client, cfg.Country, cfg.Method)

	lead := time.Duration(cfg.NotifyLeadMinutes) * time.Minute
	driver, err := sched.New(lead, notify.Prayer)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		provider: prov,
		driver:   driver,
		updater:  updater.New(cfg.GithubRepo, version),
		version:  version,
	}, nil
}

// Run is the daemon entry point: enforce the single-instance guard, seed
// the city, fetch today's times, render the wallpaper, start the standing
// timers, kick off the background update check, and block until SIGINT or
// SIGTERM.
func (a *App) Run(ctx context.Context) error {
	guard, err := singleInstanceGuard(a.cfg.SingleInstancePort)
	if err != nil {
		// Another instance owns the port; leave quietly with no state touched.
		fmt.Println("Another instance is already running. Exiting.")
		os.Exit(0)
	}
	defer guard.Close()

	log.Info().Str("version", a.version).Msg("waktu-solat starting")

	city := a.seedCity()
	a.state.store(Snapshot{City: city})
	log.Info().Str("city", city).Msg("city selected")

	a.FetchDaily()
	a.RefreshWallpaper()

	if err := a.driver.StartRecurring(a.RefreshWallpaper, a.FetchDaily); err != nil {
		return err
	}

	// Best-effort fire-and-forget; never blocks startup and is abandoned
	// on shutdown.
	go a.checkUpdates(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")
	a.driver.Stop()
	return nil
}

// seedCity returns the saved city, auto-detecting one on first run when
// no preference exists yet.
func (a *App) seedCity() string {
	s := a.cfg.LoadSettings()
	if s.City != "" {
		return a.cfg.City()
	}

	if loc, err := geo.DetectCity(); err == nil {
		if _, ok := config.Cities[loc.City]; ok {
			log.Info().Str("city", loc.City).Msg("detected city from IP")
			a.cfg.SaveSettings(config.Settings{City: loc.City})
			return loc.City
		}
		log.Debug().Str("city", loc.City).Msg("detected city is not in the known list")
	} else {
		log.Debug().Err(err).Msg("city auto-detection failed")
	}

	return a.cfg.DefaultCity
}

// FetchDaily resolves today's prayer times for the current city, installs
// the new snapshot, and rebuilds the notification jobs. On resolution
// failure the previous snapshot stays in place. The city is re-read from
// settings so a switch made by the CLI is picked up on the next cycle.
func (a *App) FetchDaily() {
	city := a.cfg.City()

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	times, ok := a.provider.Resolve(ctx, city, time.Now())
	if !ok {
		log.Warn().Str("city", city).Msg("failed to fetch daily prayer times")
		return
	}

	a.state.store(Snapshot{City: city, Times: times})
	log.Info().Str("city", city).Msg("daily prayer times updated")
	a.driver.Reschedule(times)
}

// RefreshWallpaper re-renders the wallpaper from the current snapshot and
// applies it. It reads state only; the network is reached at most through
// the next-prayer rollover resolution at day's end.
func (a *App) RefreshWallpaper() {
	snap := a.state.load()

	data := wallpaper.Data{
		Now:    time.Now(),
		Width:  a.cfg.ScreenWidth,
		Height: a.cfg.ScreenHeight,
	}

	if snap != nil {
		data.City = config.DisplayName(snap.City)
		if !snap.Times.IsZero() {
			times := snap.Times
			data.Times = &times
			next := prayer.NextPrayer(times, data.Now, a.lookupFor(snap.City))
			data.NextName = next.Name
			data.Countdown = prayer.Countdown(next, data.Now)
		}
	}

	img := wallpaper.Render(data)
	path := a.cfg.WallpaperPath()
	if err := wallpaper.Save(img, path); err != nil {
		log.Error().Err(err).Msg("failed to save wallpaper")
		return
	}
	if err := wallpaper.Apply(path); err != nil {
		log.Error().Err(err).Msg("failed to set wallpaper")
	}
}

// SetCity switches the current city, persists the preference, and runs an
// immediate out-of-band fetch and refresh. The standing timers keep their
// future fire times.
func (a *App) SetCity(city string) {
	snap := a.state.load()
	if snap != nil && snap.City == city {
		return
	}

	a.cfg.SaveSettings(config.Settings{City: city})
	a.state.store(Snapshot{City: city})
	log.Info().Str("city", city).Msg("city changed")

	a.FetchDaily()
	a.RefreshWallpaper()
}

// RefreshOnce fetches today's times and renders the wallpaper a single
// time, for the one-shot CLI path. The scheduler is never started, so
// any notification jobs registered along the way die with the process.
func (a *App) RefreshOnce() {
	a.state.store(Snapshot{City: a.cfg.City()})
	a.FetchDaily()
	a.RefreshWallpaper()
}

// Status returns the next prayer name and countdown for tooltip-style
// display. ok is false when no prayer data is loaded.
func (a *App) Status() (name, countdown string, ok bool) {
	snap := a.state.load()
	if snap == nil || snap.Times.IsZero() {
		return "", "", false
	}

	now := time.Now()
	next := prayer.NextPrayer(snap.Times, now, a.lookupFor(snap.City))
	return next.Name, prayer.Countdown(next, now), true
}

// lookupFor adapts the provider into the resolver's tomorrow-lookup.
func (a *App) lookupFor(city string) prayer.LookupFunc {
	return func(date time.Time) (prayer.TimeSet, bool) {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()
		return a.provider.Resolve(ctx, city, date)
	}
}

// checkUpdates runs the startup release check and raises a toast when a
// newer version exists.
func (a *App) checkUpdates(ctx context.Context) {
	st, err := a.updater.Check(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("update check failed")
		return
	}
	if st.Available {
		notify.UpdateAvailable(st.Latest)
	}
}

// singleInstanceGuard binds a localhost port used purely as a mutex.
// A bind failure means another instance is already running.
func singleInstanceGuard(port int) (net.Listener, error) {
	return net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
}
