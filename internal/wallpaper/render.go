// Package wallpaper renders the daily prayer schedule onto an image and
// sets it as the desktop background.
package wallpaper

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/amjadrushdan/waktu-solat/internal/prayer"
)

// Palette from the original wallpaper design.
var (
	bgColor     = color.RGBA{0x0d, 0x0d, 0x0d, 0xff}
	accentGold  = color.RGBA{0xc9, 0xa8, 0x4c, 0xff}
	white       = color.RGBA{0xff, 0xff, 0xff, 0xff}
	mutedText   = color.RGBA{0x88, 0x88, 0x88, 0xff}
	highlightBg = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	alertRed    = color.RGBA{0xff, 0x44, 0x44, 0xff}
)

// Data is everything the renderer needs for one frame. A nil Times means
// no data could be resolved this cycle and the "no connection" placeholder
// is drawn instead of the schedule.
type Data struct {
	Times     *prayer.TimeSet
	NextName  string
	Countdown string
	City      string
	Now       time.Time

	Width, Height int
}

// Render draws the wallpaper frame.
func Render(d Data) *image.RGBA {
	if d.Width <= 0 || d.Height <= 0 {
		d.Width, d.Height = 1920, 1080
	}

	img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
	fill(img, img.Bounds(), bgColor)

	// Text sizes scale with height so other resolutions stay readable.
	scale := float64(d.Height) / 1080

	// Top-left: current date.
	drawText(img, d.Now.Format("Monday, 02 January 2006"), px(40, scale), px(40, scale), mutedText, false, sz(1, scale))

	// Centered title and city.
	titleY := int(float64(d.Height) * 0.15)
	drawCentered(img, "Waktu Solat", titleY, accentGold, true, sz(3, scale))
	if d.City != "" {
		drawCentered(img, d.City, titleY+px(70, scale), mutedText, false, sz(1, scale))
	}

	if d.Times == nil {
		drawCentered(img, "Tiada Sambungan", d.Height/2, alertRed, true, sz(2, scale))
		return img
	}

	drawSchedule(img, d, scale)

	// Bottom-right: countdown footer.
	if d.NextName != "" && d.Countdown != "" {
		text := "Next: " + d.NextName + " in " + d.Countdown
		w := textWidth(text, sz(1, scale))
		drawText(img, text, d.Width-w-px(40, scale), d.Height-px(60, scale), accentGold, false, sz(1, scale))
	}

	return img
}

// drawSchedule draws the six-row prayer table with the next prayer
// highlighted.
func drawSchedule(img *image.RGBA, d Data, scale float64) {
	top := int(float64(d.Height) * 0.30)
	rowH := px(60, scale)
	nameX := d.Width/2 - px(200, scale)
	timeX := d.Width/2 + px(100, scale)

	for i, name := range prayer.Names {
		y := top + i*rowH
		isNext := name == d.NextName

		if isNext {
			fill(img, image.Rect(nameX-px(20, scale), y-px(10, scale), timeX+px(120, scale), y+rowH-px(10, scale)), highlightBg)
		}

		col := white
		if isNext {
			col = accentGold
		}

		raw := d.Times.Get(name)
		timeStr := "--:--"
		if at, err := prayer.Clock(raw, d.Now); err == nil {
			timeStr = at.Format("15:04")
		}

		drawText(img, name, nameX, y, col, isNext, sz(2, scale))
		drawText(img, timeStr, timeX, y, col, isNext, sz(2, scale))
	}
}

// Save writes the image as PNG to path.
func Save(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating wallpaper file")
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return errors.Wrap(err, "encoding wallpaper")
	}
	return nil
}

// --- text helpers -----------------------------------------------------

// face returns the bitmap face; inconsolata ships a regular and a bold cut.
func face(bold bool) font.Face {
	if bold {
		return inconsolata.Bold8x16
	}
	return inconsolata.Regular8x16
}

// px scales a 1080p design measurement.
func px(v int, scale float64) int {
	return int(float64(v) * scale)
}

// sz converts a nominal text size step into an integer glyph magnification.
func sz(step int, scale float64) int {
	n := int(float64(step) * scale)
	if n < 1 {
		n = 1
	}
	return n
}

// drawText renders s at (x, y) top-left, magnified n times. The bitmap
// face is drawn at native size and scaled up with nearest-neighbour so
// the pixel look stays crisp.
func drawText(img *image.RGBA, s string, x, y int, col color.Color, bold bool, n int) {
	f := face(bold)
	w := font.MeasureString(f, s).Ceil()
	h := f.Metrics().Height.Ceil()
	ascent := f.Metrics().Ascent.Ceil()
	if w == 0 || h == 0 {
		return
	}

	small := image.NewRGBA(image.Rect(0, 0, w, h))
	dr := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(col),
		Face: f,
		Dot:  fixed.P(0, ascent),
	}
	dr.DrawString(s)

	dst := image.Rect(x, y, x+w*n, y+h*n)
	xdraw.NearestNeighbor.Scale(img, dst, small, small.Bounds(), xdraw.Over, nil)
}

// drawCentered renders s horizontally centered at the given y.
func drawCentered(img *image.RGBA, s string, y int, col color.Color, bold bool, n int) {
	w := textWidth(s, n)
	if bold {
		w = font.MeasureString(face(true), s).Ceil() * n
	}
	x := (img.Bounds().Dx() - w) / 2
	drawText(img, s, x, y, col, bold, n)
}

// textWidth returns the pixel width of s at magnification n (regular face).
func textWidth(s string, n int) int {
	return font.MeasureString(face(false), s).Ceil() * n
}

// fill paints a solid rectangle.
func fill(img *image.RGBA, r image.Rectangle, col color.Color) {
	xdraw.Draw(img, r, image.NewUniform(col), image.Point{}, xdraw.Src)
}
