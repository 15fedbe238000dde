package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amjadrushdan/waktu-solat/internal/app"
	"github.com/amjadrushdan/waktu-solat/internal/config"
)

func newRefreshCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch today's times and redraw the wallpaper once",
		Long:  "Run a single fetch-and-render cycle out-of-band. A running daemon keeps its own timers; this does not disturb them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			application, err := app.New(cfg, version)
			if err != nil {
				return err
			}

			application.RefreshOnce()

			if name, countdown, ok := application.Status(); ok {
				fmt.Printf("Wallpaper refreshed. Next: %s in %s\n", name, countdown)
			} else {
				fmt.Println("Wallpaper refreshed (no prayer data available).")
			}
			return nil
		},
	}
}
