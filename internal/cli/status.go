package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/amjadrushdan/waktu-solat/internal/api"
	"github.com/amjadrushdan/waktu-solat/internal/cache"
	"github.com/amjadrushdan/waktu-solat/internal/config"
	"github.com/amjadrushdan/waktu-solat/internal/display"
	"github.com/amjadrushdan/waktu-solat/internal/prayer"
	"github.com/amjadrushdan/waktu-solat/internal/provider"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's schedule and the next prayer",
		Long:  "Display today's prayer times for the configured city with a countdown to the next prayer. Uses the cache when the times were already fetched today.",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	c, err := cache.New(cfg.DataDir)
	if err != nil {
		return err
	}

	prov := provider.New(c, api.NewClient(cfg.APIBaseURL), cfg.Country, cfg.Method)
	city := cfg.City()
	now := time.Now()

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	times, ok := prov.Resolve(ctx, city, now)
	if !ok {
		return errors.Newf("no prayer times available for %s", city)
	}

	lookup := func(date time.Time) (prayer.TimeSet, bool) {
		return prov.Resolve(ctx, city, date)
	}
	next := prayer.NextPrayer(times, now, lookup)

	fmt.Printf("  %s — %s\n\n", config.DisplayName(city), now.Format("Monday, 02 January 2006"))

	rows := make([][2]string, 0, len(prayer.Names))
	for _, name := range prayer.Names {
		timeStr := "--:--"
		if at, err := prayer.Clock(times.Get(name), now); err == nil {
			timeStr = at.Format("15:04")
		}
		rows = append(rows, [2]string{name, timeStr})
	}
	fmt.Print(display.Schedule(rows, next.Name))

	fmt.Printf("\n  Next: %s in %s\n", next.Name, prayer.Remaining(next.At.Sub(now)))
	return nil
}
