// Package autostart registers the app to launch at login: a Task
// Scheduler task on Windows, an XDG autostart desktop entry elsewhere.
package autostart

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
)

const taskName = "WaktuSolatWallpaper"

// Install registers the running executable as a login item.
func Install() error {
	exe, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "locating executable")
	}

	if runtime.GOOS == "windows" {
		return installTask(exe)
	}
	return installDesktopEntry(exe)
}

// Uninstall removes the login item.
func Uninstall() error {
	if runtime.GOOS == "windows" {
		out, err := exec.Command("schtasks", "/Delete", "/TN", taskName, "/F").CombinedOutput()
		if err != nil {
			return errors.Wrapf(err, "schtasks delete failed: %s", out)
		}
		return nil
	}

	path, err := desktopEntryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing autostart entry")
	}
	return nil
}

// installTask registers a Task Scheduler task that starts the app 30
// seconds after logon.
func installTask(exe string) error {
	// Replace any stale task first; the delete failing is fine.
	_ = exec.Command("schtasks", "/Delete", "/TN", taskName, "/F").Run()

	cmd := exec.Command("schtasks", "/Create",
		"/TN", taskName,
		"/TR", fmt.Sprintf("%q", exe),
		"/SC", "ONLOGON",
		"/DELAY", "0000:30",
		"/RL", "HIGHEST",
		"/F",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "schtasks create failed: %s", out)
	}
	return nil
}

// installDesktopEntry writes an XDG autostart .desktop file.
func installDesktopEntry(exe string) error {
	path, err := desktopEntryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating autostart directory")
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=Waktu Solat
Comment=Prayer times wallpaper
Exec=%s
X-GNOME-Autostart-enabled=true
`, exe)

	if err := os.WriteFile(path, []byte(entry), 0o644); err != nil {
		return errors.Wrap(err, "writing autostart entry")
	}
	return nil
}

func desktopEntryPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "cannot determine home directory")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "autostart", "waktu-solat.desktop"), nil
}
