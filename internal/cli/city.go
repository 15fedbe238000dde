package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/amjadrushdan/waktu-solat/internal/app"
	"github.com/amjadrushdan/waktu-solat/internal/config"
)

func newCityCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "city [name]",
		Short: "Show or switch the configured city",
		Long:  "Without arguments, list the available cities and mark the current one.\nWith a city name, switch to it, persist the choice, and redraw the wallpaper immediately.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				printCities(cfg.City())
				return nil
			}

			city := matchCity(args[0])
			if city == "" {
				return errors.Newf("unknown city %q; run 'waktu-solat city' to list the available cities", args[0])
			}

			application, err := app.New(cfg, version)
			if err != nil {
				return err
			}
			application.SetCity(city)

			fmt.Printf("City set to %s.\n", config.DisplayName(city))
			return nil
		},
	}
}

// printCities lists the known cities sorted by display name, marking the
// current selection.
func printCities(current string) {
	keys := make([]string, 0, len(config.Cities))
	for key := range config.Cities {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return config.Cities[keys[i]] < config.Cities[keys[j]]
	})

	for _, key := range keys {
		marker := "  "
		if key == current {
			marker = "* "
		}
		fmt.Printf("%s%s\n", marker, config.Cities[key])
	}
}

// matchCity resolves user input against the city keys and display names,
// case-insensitively. Returns "" when nothing matches.
func matchCity(input string) string {
	for key, name := range config.Cities {
		if strings.EqualFold(input, key) || strings.EqualFold(input, name) {
			return key
		}
	}
	return ""
}
