package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amjadrushdan/waktu-solat/internal/autostart"
)

func newAutostartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage launch-at-login registration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Register the app to start at login",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := autostart.Install(); err != nil {
				return err
			}
			fmt.Println("Autostart registered.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Remove the launch-at-login registration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := autostart.Uninstall(); err != nil {
				return err
			}
			fmt.Println("Autostart removed.")
			return nil
		},
	})

	return cmd
}
