// Package cli defines the waktu-solat command tree. Running the bare
// command starts the wallpaper daemon; subcommands cover one-shot
// queries, city switching, updates, and autostart registration.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/amjadrushdan/waktu-solat/internal/app"
	"github.com/amjadrushdan/waktu-solat/internal/config"
	"github.com/amjadrushdan/waktu-solat/internal/logger"
)

// Global flags shared across all subcommands.
var (
	flagVerbose bool
	flagLogfile string
)

// NewRootCmd creates the root command. The version parameter is set by
// the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "waktu-solat",
		Short:   "Prayer times desktop wallpaper",
		Long:    "Renders daily prayer times onto the desktop wallpaper, keeps a countdown to the next prayer, and fires a notification shortly before each one.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(flagVerbose, flagLogfile)
		},
		// Default action: run the daemon.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(version)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose (DEBUG) logging")
	pf.StringVar(&flagLogfile, "logfile", "", "Path to log file (default: stderr)")

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newRefreshCmd(version))
	rootCmd.AddCommand(newCityCmd(version))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newUpdateCmd(version))
	rootCmd.AddCommand(newAutostartCmd())
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

// runDaemon assembles and runs the long-lived process.
func runDaemon(version string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	application, err := app.New(cfg, version)
	if err != nil {
		return err
	}

	return application.Run(context.Background())
}
