package wallpaper

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/reujab/wallpaper"
	"github.com/rs/zerolog/log"
)

// Apply sets the image at path as the desktop background in fill mode.
func Apply(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "resolving wallpaper path")
	}

	// Crop mode failing is cosmetic only; the image is still applied.
	if err := wallpaper.SetMode(wallpaper.Crop); err != nil {
		log.Warn().Err(err).Msg("could not set wallpaper mode")
	}

	if err := wallpaper.SetFromFile(abs); err != nil {
		return errors.Wrap(err, "setting wallpaper")
	}
	log.Debug().Str("path", abs).Msg("wallpaper set")
	return nil
}
