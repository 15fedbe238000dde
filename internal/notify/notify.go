// Package notify sends desktop notifications. Delivery failures only ever
// reach the log; no notification error affects the rest of the app.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog/log"
)

const appName = "Waktu Solat"

func init() {
	beeep.AppName = appName
}

// Prayer shows the pre-prayer toast ("Fajr in 10 minutes").
func Prayer(name string, minutesUntil int) {
	title := fmt.Sprintf("%s in %d minutes", name, minutesUntil)
	if err := beeep.Notify(title, "Time to prepare for prayer", ""); err != nil {
		log.Error().Err(err).Str("prayer", name).Msg("failed to show prayer notification")
		return
	}
	log.Info().Str("prayer", name).Msg("notification shown")
}

// UpdateAvailable announces that a newer release exists.
func UpdateAvailable(version string) {
	msg := fmt.Sprintf("Version %s is available. Run 'waktu-solat update' to install.", version)
	if err := beeep.Notify("Update Available", msg, ""); err != nil {
		log.Error().Err(err).Msg("failed to show update notification")
	}
}

// UpToDate confirms the running version is current.
func UpToDate(version string) {
	msg := fmt.Sprintf("You're running the latest version (%s).", version)
	if err := beeep.Notify("No Updates Available", msg, ""); err != nil {
		log.Error().Err(err).Msg("failed to show up-to-date notification")
	}
}

// Progress shows a short status toast during the update flow.
func Progress(message string) {
	if err := beeep.Notify(appName+" Update", message, ""); err != nil {
		log.Debug().Err(err).Msg("failed to show progress notification")
	}
}
