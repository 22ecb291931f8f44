package chromebrowser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// PathSource tells where a Chrome executable path came from.
type PathSource string

const (
	SourceExplicit PathSource = "option"
	SourceEnv      PathSource = "CHROME_PATH"
	SourceSystem   PathSource = "system"
	SourceNone     PathSource = ""
)

// ResolveChromePath resolves the Chrome executable path, or returns an
// empty string when none is found.
func ResolveChromePath(explicitPath string) string {
	path, _ := LocateChrome(explicitPath)
	return path
}

// LocateChrome resolves the Chrome executable path in the following order:
// the explicit path, the CHROME_PATH environment variable, then the
// platform's default install locations (Chromium before Chrome).
func LocateChrome(explicitPath string) (string, PathSource) {
	if explicitPath != "" {
		return explicitPath, SourceExplicit
	}
	if envPath := os.Getenv("CHROME_PATH"); envPath != "" {
		return envPath, SourceEnv
	}
	for _, candidate := range candidates(runtime.GOOS, os.Getenv) {
		if path := resolveExecutable(candidate); path != "" {
			return path, SourceSystem
		}
	}
	return "", SourceNone
}

// candidates lists the default Chrome locations for an operating system.
func candidates(goos string, getenv func(string) string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		}
	case "windows":
		var list []string
		for _, root := range []string{getenv("PROGRAMFILES"), getenv("PROGRAMFILES(X86)"), getenv("LOCALAPPDATA")} {
			if root == "" {
				continue
			}
			list = append(list,
				root+`\Chromium\Application\chrome.exe`,
				root+`\Google\Chrome\Application\chrome.exe`,
			)
		}
		return list
	default:
		return []string{
			"chromium",
			"chromium-browser",
			"google-chrome-stable",
			"google-chrome",
			"headless_shell",
		}
	}
}

// resolveExecutable returns nameOrPath when it is an existing file, or its
// location on PATH when it is a bare command name.
func resolveExecutable(nameOrPath string) string {
	if nameOrPath == "" {
		return ""
	}
	if filepath.IsAbs(nameOrPath) || (len(nameOrPath) > 1 && nameOrPath[1] == ':') {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath
		}
		return ""
	}
	if path, err := exec.LookPath(nameOrPath); err == nil {
		return path
	}
	return ""
}
