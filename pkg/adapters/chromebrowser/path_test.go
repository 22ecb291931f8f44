package chromebrowser

import (
	"os"
	"runtime"
	"testing"
)

func TestLocateChrome_ExplicitPath(t *testing.T) {
	path, source := LocateChrome("/custom/path/to/chrome")
	if path != "/custom/path/to/chrome" || source != SourceExplicit {
		t.Errorf("expected explicit path, got %s (%s)", path, source)
	}
}

func TestLocateChrome_EnvVar(t *testing.T) {
	t.Setenv("CHROME_PATH", "/env/chrome")

	path, source := LocateChrome("")
	if path != "/env/chrome" || source != SourceEnv {
		t.Errorf("expected CHROME_PATH to be used, got %s (%s)", path, source)
	}

	if got := ResolveChromePath("/explicit/chrome"); got != "/explicit/chrome" {
		t.Errorf("expected explicit path to take precedence, got %s", got)
	}
}

func TestLocateChrome_NotFound(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("absolute default locations may exist on this platform")
	}
	t.Setenv("CHROME_PATH", "")
	t.Setenv("PATH", "")

	path, source := LocateChrome("")
	if path != "" || source != SourceNone {
		t.Errorf("expected nothing found, got %s (%s)", path, source)
	}
}

func TestCandidates(t *testing.T) {
	env := map[string]string{
		"PROGRAMFILES": `C:\Program Files`,
		"LOCALAPPDATA": `C:\Users\me\AppData\Local`,
	}
	getenv := func(k string) string { return env[k] }

	windows := candidates("windows", getenv)
	if len(windows) != 4 {
		t.Fatalf("expected 4 windows candidates, got %d: %v", len(windows), windows)
	}
	if windows[0] != `C:\Program Files\Chromium\Application\chrome.exe` {
		t.Errorf("expected Chromium first, got %s", windows[0])
	}

	if darwin := candidates("darwin", getenv); len(darwin) == 0 || darwin[0] != "/Applications/Chromium.app/Contents/MacOS/Chromium" {
		t.Errorf("unexpected darwin candidates: %v", darwin)
	}
	if linux := candidates("linux", getenv); linux[0] != "chromium" {
		t.Errorf("unexpected linux candidates: %v", linux)
	}
}

func TestResolveExecutable(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath bool
	}{
		{"existing command", "go", true},
		{"non-existing command", "definitely-not-a-real-command-xyz123", false},
		{"non-existing path", "/definitely/not/a/real/path/chrome", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resolveExecutable(tt.input)
			if tt.wantPath && result == "" {
				t.Errorf("expected path for %s, got empty", tt.input)
			}
			if !tt.wantPath && result != "" {
				t.Errorf("expected empty for %s, got %s", tt.input, result)
			}
		})
	}
}

func TestResolveExecutable_FullPath(t *testing.T) {
	var testPath string
	switch runtime.GOOS {
	case "windows":
		testPath = os.Getenv("COMSPEC")
	default:
		testPath = "/bin/sh"
	}
	if testPath == "" {
		t.Skip("No known executable path for this platform")
	}

	if result := resolveExecutable(testPath); result != testPath {
		t.Errorf("expected %s, got %s", testPath, result)
	}
}
