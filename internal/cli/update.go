package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amjadrushdan/waktu-solat/internal/config"
	"github.com/amjadrushdan/waktu-solat/internal/notify"
	"github.com/amjadrushdan/waktu-solat/internal/updater"
)

func newUpdateCmd(version string) *cobra.Command {
	var flagInstall bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for a newer release",
		Long:  "Check the release feed for a newer version. With --install, download it and hand over to the updater; a running daemon should be stopped first so its files can be replaced.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			u := updater.New(cfg.GithubRepo, version)

			st, err := u.Check(cmd.Context())
			if err != nil {
				return err
			}

			if !st.Available {
				fmt.Printf("Up to date (%s).\n", version)
				notify.UpToDate(version)
				return nil
			}

			fmt.Printf("Update available: %s -> %s\n", version, st.Latest)
			if !flagInstall {
				fmt.Println("Run 'waktu-solat update --install' to install it.")
				return nil
			}

			notify.Progress("Downloading update...")
			if err := u.DownloadAndApply(cmd.Context(), st); err != nil {
				notify.Progress("Update failed")
				return err
			}

			notify.Progress(fmt.Sprintf("Installing %s, app will restart...", st.Latest))
			fmt.Println("Update staged; the updater will replace the files shortly.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagInstall, "install", false, "Download and install the update")

	return cmd
}
