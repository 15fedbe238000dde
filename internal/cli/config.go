package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/amjadrushdan/waktu-solat/internal/config"
)

// settingsKeys lists the user-settable keys persisted in the settings
// file. Static configuration (country, method, API URL) comes from the
// environment and is shown read-only.
var settingsKeys = []string{"city"}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display the current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			val, err := settingValue(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Println(val)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  waktu-solat config set city \"Shah Alam\"",
			strings.Join(settingsKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := setSetting(cfg, args[0], args[1]); err != nil {
				return err
			}
			val, _ := settingValue(cfg, args[0])
			fmt.Printf("Set %s = %s\n", args[0], val)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset settings to defaults",
		Long:  "Delete the settings file and restore all settings to defaults.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := resetSettings(cfg); err != nil {
				return err
			}
			fmt.Println("Settings reset to defaults.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fmt.Println(cfg.SettingsPath())
			return nil
		},
	})

	return cmd
}

// runConfigShow displays the settable keys followed by the read-only
// environment-derived values.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Configuration (%s)\n\n", cfg.SettingsPath())

	for _, key := range settingsKeys {
		val, _ := settingValue(cfg, key)
		if val == "" {
			val = "(not set)"
		}
		fmt.Printf("  %-14s %s\n", key, val)
	}

	fmt.Println()
	fmt.Printf("  %-14s %s (env)\n", "country", cfg.Country)
	fmt.Printf("  %-14s %d (env)\n", "method", cfg.Method)
	fmt.Printf("  %-14s %s (env)\n", "data_dir", cfg.DataDir)
	return nil
}

// settingValue returns the effective value for a settable key.
func settingValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "city":
		return cfg.City(), nil
	}
	return "", errors.Newf("unknown config key %q; valid keys: %s", key, strings.Join(settingsKeys, ", "))
}

// setSetting validates and persists a settable key.
func setSetting(cfg *config.Config, key, value string) error {
	switch key {
	case "city":
		city := matchCity(value)
		if city == "" {
			return errors.Newf("unknown city %q; run 'waktu-solat city' to list the available cities", value)
		}
		s := cfg.LoadSettings()
		s.City = city
		cfg.SaveSettings(s)
		return nil
	}
	return errors.Newf("unknown config key %q; valid keys: %s", key, strings.Join(settingsKeys, ", "))
}

// resetSettings deletes the settings file. A missing file is fine.
func resetSettings(cfg *config.Config) error {
	if err := os.Remove(cfg.SettingsPath()); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing settings file")
	}
	return nil
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("waktu-solat version %s\n", version)
		},
	}
}
