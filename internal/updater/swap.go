package updater

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
)

// writeSwapScript generates the platform script that waits for the app to
// exit, copies the extracted files over the install directory, relaunches
// the app, and cleans up after itself.
func writeSwapScript(tempDir, sourceDir, appDir string) (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "locating executable")
	}

	var path, content string
	if runtime.GOOS == "windows" {
		path = filepath.Join(tempDir, "update.bat")
		content = fmt.Sprintf(`@echo off
echo Waktu Solat Updater
timeout /t 3 /nobreak >nul
xcopy /s /e /y "%s\*" "%s\" >nul
start "" "%s"
rmdir /s /q "%s" 2>nul
del "%%~f0" 2>nul
`, sourceDir, appDir, exe, tempDir)
	} else {
		path = filepath.Join(tempDir, "update.sh")
		content = fmt.Sprintf(`#!/bin/sh
sleep 3
cp -R "%s/." "%s/"
chmod +x "%s"
"%s" &
rm -rf "%s"
`, sourceDir, appDir, exe, exe, tempDir)
	}

	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return "", errors.Wrap(err, "writing swap script")
	}
	return path, nil
}

// swapCommand builds the detached command that runs the swap script.
func swapCommand(scriptPath string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", "start", "", scriptPath)
	}
	return exec.Command("/bin/sh", scriptPath)
}
