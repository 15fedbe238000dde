// Package updater implements the best-effort self-update flow: check the
// GitHub releases API for a newer tag, download the platform archive,
// extract it, and hand over to a swap script that replaces the installed
// files and relaunches.
package updater

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	goversion "github.com/hashicorp/go-version"
	"github.com/rs/zerolog/log"
)

const (
	checkTimeout    = 10 * time.Second
	downloadTimeout = 120 * time.Second
)

// Release is the subset of the GitHub release metadata we consume.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is a downloadable release artifact.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Status is the outcome of a release check.
type Status struct {
	Available   bool
	Latest      string
	DownloadURL string
}

// Updater checks for and applies releases of the app.
type Updater struct {
	// APIBase is the GitHub API root. Exported for testing with httptest.
	APIBase string

	repo    string
	current string
}

// New creates an Updater for the given "owner/repo" against the running
// version string.
func New(repo, currentVersion string) *Updater {
	return &Updater{
		APIBase: "https://api.github.com",
		repo:    repo,
		current: currentVersion,
	}
}

// Check queries the latest release and reports whether it is newer than
// the running version.
func (u *Updater) Check(ctx context.Context) (*Status, error) {
	url := u.APIBase + "/repos/" + u.repo + "/releases/latest"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building release request")
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	client := &http.Client{Timeout: checkTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "release check failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("release API returned status %d", resp.StatusCode)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, errors.Wrap(err, "failed to decode release metadata")
	}

	st := &Status{
		Latest:      rel.TagName,
		DownloadURL: selectAsset(rel.Assets),
		Available:   isNewer(rel.TagName, u.current),
	}

	if st.Available {
		log.Info().Str("current", u.current).Str("latest", st.Latest).Msg("update available")
	} else {
		log.Info().Str("version", u.current).Msg("app is up to date")
	}
	return st, nil
}

// isNewer compares release tags as semantic versions. Unparsable tags
// never count as newer.
func isNewer(latest, current string) bool {
	lv, err := goversion.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false
	}
	cv, err := goversion.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false
	}
	return lv.GreaterThan(cv)
}

// selectAsset picks the archive to download: a .zip whose name mentions
// the current platform, falling back to the first .zip found.
func selectAsset(assets []Asset) string {
	platform := runtime.GOOS
	if platform == "windows" {
		platform = "win"
	}

	var firstZip string
	for _, a := range assets {
		name := strings.ToLower(a.Name)
		if !strings.HasSuffix(name, ".zip") {
			continue
		}
		if strings.Contains(name, platform) {
			return a.BrowserDownloadURL
		}
		if firstZip == "" {
			firstZip = a.BrowserDownloadURL
		}
	}
	return firstZip
}

// DownloadAndApply downloads the release archive, extracts it, and
// launches the swap script. On success the caller is expected to shut
// down so the script can replace the installed files and relaunch.
func (u *Updater) DownloadAndApply(ctx context.Context, st *Status) error {
	if st == nil || st.DownloadURL == "" {
		return errors.New("no download URL available")
	}

	tempDir, err := os.MkdirTemp("", "waktusolat_update_")
	if err != nil {
		return errors.Wrap(err, "creating update staging directory")
	}

	zipPath := filepath.Join(tempDir, "update.zip")
	if err := u.download(ctx, st.DownloadURL, zipPath); err != nil {
		return err
	}
	log.Info().Msg("download complete, extracting")

	extractDir := filepath.Join(tempDir, "extracted")
	if err := extractZip(zipPath, extractDir); err != nil {
		return err
	}

	sourceDir := flattenSingleDir(extractDir)

	appDir, err := installDir()
	if err != nil {
		return err
	}

	scriptPath, err := writeSwapScript(tempDir, sourceDir, appDir)
	if err != nil {
		return err
	}

	log.Info().Str("script", scriptPath).Msg("update staged, launching swap script")
	cmd := swapCommand(scriptPath)
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "launching swap script")
	}
	return nil
}

// download fetches url to dest with the long download timeout.
func (u *Updater) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "building download request")
	}

	client := &http.Client{Timeout: downloadTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "downloading update")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "creating download file")
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return errors.Wrap(err, "writing download")
	}
	return nil
}

// installDir is the directory holding the running executable.
func installDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "locating executable")
	}
	return filepath.Dir(exe), nil
}

// flattenSingleDir returns the sole subdirectory of dir when the archive
// wraps its contents in one top-level folder, otherwise dir itself.
func flattenSingleDir(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		return dir
	}
	return filepath.Join(dir, entries[0].Name())
}
