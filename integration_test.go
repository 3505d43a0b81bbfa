//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const binary = "vocalis-test"

func buildCLI(t *testing.T) {
	t.Helper()
	cmd := exec.Command("go", "build", "-o", binary, "./cmd/vocalis")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Build failed: %v\nOutput: %s", err, output)
	}
	t.Cleanup(func() { os.Remove(binary) })
}

// baseArgs keeps every run away from the user's home directory
func baseArgs(t *testing.T) []string {
	tmpDir := t.TempDir()
	return []string{
		"--config", filepath.Join(tmpDir, "config.yaml"),
		"--db", filepath.Join(tmpDir, "vocalis.db"),
	}
}

// TestCLIBuild tests that the CLI binary builds successfully
func TestCLIBuild(t *testing.T) {
	buildCLI(t)

	if _, err := os.Stat(binary); os.IsNotExist(err) {
		t.Fatal("Binary was not created")
	}
}

// TestCLIHelp tests that the CLI --help flag works
func TestCLIHelp(t *testing.T) {
	buildCLI(t)

	output, err := exec.Command("./"+binary, "--help").CombinedOutput()
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	outputStr := string(output)
	for _, want := range []string{"Usage", "repl", "intents", "history"} {
		if !strings.Contains(outputStr, want) {
			t.Errorf("Help output missing %q: %s", want, outputStr)
		}
	}
}

// TestCLIVersion tests that the CLI --version flag works
func TestCLIVersion(t *testing.T) {
	buildCLI(t)

	output, err := exec.Command("./"+binary, "--version").CombinedOutput()
	if err != nil {
		t.Fatalf("Version command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(string(output), "vocalis") {
		t.Errorf("Version output doesn't contain 'vocalis': %s", output)
	}
}

// TestPipeline runs utterances end to end and checks the JSON output
func TestPipeline(t *testing.T) {
	buildCLI(t)

	tests := []struct {
		input  string
		intent string
		action string
	}{
		{"what's the weather like in new york", "weather", "weather"},
		{"open youtube.com", "open_website", "open_url"},
		{"send a message to mom saying i'll be home soon", "whatsapp", "send_message"},
		{"tell me the latest sports news", "news", "news"},
		{"search wikipedia for albert einstein", "wikipedia", "wikipedia_summary"},
		{"blah blah nonsense xyz", "general_query", "chat"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			args := append(baseArgs(t), "--json", tt.input)
			output, err := exec.Command("./"+binary, args...).Output()
			if err != nil {
				t.Fatalf("Command failed: %v", err)
			}

			var got struct {
				Intent string `json:"intent"`
				Action struct {
					Kind string `json:"kind"`
				} `json:"action"`
			}
			if err := json.Unmarshal(output, &got); err != nil {
				t.Fatalf("Invalid JSON output: %v\n%s", err, output)
			}
			if got.Intent != tt.intent {
				t.Errorf("Expected intent %s, got %s", tt.intent, got.Intent)
			}
			if got.Action.Kind != tt.action {
				t.Errorf("Expected action %s, got %s", tt.action, got.Action.Kind)
			}
		})
	}
}

// TestOneShotPlain runs a single utterance without --json
func TestOneShotPlain(t *testing.T) {
	buildCLI(t)

	for _, args := range [][]string{
		{"open youtube.com"},
		{"open", "youtube.com"},
	} {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			output, err := exec.Command("./"+binary, append(baseArgs(t), args...)...).CombinedOutput()
			if err != nil {
				t.Fatalf("One-shot command failed: %v\nOutput: %s", err, output)
			}
			outputStr := string(output)
			for _, want := range []string{"open_website", "website: youtube.com", "Opening youtube.com"} {
				if !strings.Contains(outputStr, want) {
					t.Errorf("Output missing %q:\n%s", want, outputStr)
				}
			}
		})
	}
}

// TestCustomCatalog tests loading intents from a catalog file
func TestCustomCatalog(t *testing.T) {
	buildCLI(t)

	data, err := os.ReadFile(filepath.Join("internal", "catalog", "default.yaml"))
	if err != nil {
		t.Fatalf("Failed to read default catalog: %v", err)
	}
	catalogFile := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(catalogFile, data, 0644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	args := append(baseArgs(t), "--catalog", catalogFile, "--no-history", "intents")
	output, err := exec.Command("./"+binary, args...).CombinedOutput()
	if err != nil {
		t.Fatalf("Intents command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(string(output), "Supported intents (13)") {
		t.Errorf("Expected the catalog file to be listed: %s", output)
	}
}

// TestIncompleteCatalog tests that a catalog missing extraction intents is rejected
func TestIncompleteCatalog(t *testing.T) {
	buildCLI(t)

	catalogFile := filepath.Join(t.TempDir(), "catalog.yaml")
	catalog := `intents:
  - name: weather
    exemplars:
      - weather forecast
`
	if err := os.WriteFile(catalogFile, []byte(catalog), 0644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	args := append(baseArgs(t), "--catalog", catalogFile, "--no-history", "intents")
	output, err := exec.Command("./"+binary, args...).CombinedOutput()
	if err == nil {
		t.Fatalf("Expected failure for incomplete catalog, got: %s", output)
	}
	if !strings.Contains(string(output), "undeclared intent") {
		t.Errorf("Unexpected error output: %s", output)
	}
}

// TestREPLSession drives the interactive prompt through stdin
func TestREPLSession(t *testing.T) {
	buildCLI(t)

	cmd := exec.Command("./"+binary, append(baseArgs(t), "repl")...)
	cmd.Stdin = strings.NewReader("set brightness to 50%\n:history\n:stats\nexit\n")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("REPL failed: %v\nOutput: %s", err, output)
	}

	outputStr := string(output)
	for _, want := range []string{"system_control", "Setting brightness to 50%", "Recent interactions", "Recognized intents", "Goodbye!"} {
		if !strings.Contains(outputStr, want) {
			t.Errorf("REPL output missing %q:\n%s", want, outputStr)
		}
	}
}

// TestCrossCompilation tests that binaries can be built for different platforms
func TestCrossCompilation(t *testing.T) {
	platforms := []struct {
		goos   string
		goarch string
	}{
		{"linux", "amd64"},
		{"linux", "arm64"},
		{"darwin", "amd64"},
		{"darwin", "arm64"},
	}

	for _, platform := range platforms {
		t.Run(platform.goos+"_"+platform.goarch, func(t *testing.T) {
			outputName := "vocalis-" + platform.goos + "-" + platform.goarch
			cmd := exec.Command("go", "build", "-o", outputName, "./cmd/vocalis")
			cmd.Env = append(os.Environ(),
				"GOOS="+platform.goos,
				"GOARCH="+platform.goarch,
				"CGO_ENABLED=0",
			)

			output, err := cmd.CombinedOutput()
			if err != nil {
				t.Fatalf("Build failed for %s/%s: %v\nOutput: %s", platform.goos, platform.goarch, err, output)
			}
			defer os.Remove(outputName)

			if _, err := os.Stat(outputName); os.IsNotExist(err) {
				t.Errorf("Binary was not created for %s/%s", platform.goos, platform.goarch)
			}
		})
	}
}
