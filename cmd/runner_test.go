package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/mmt/internal/shared"
	tu "github.com/desertthunder/mmt/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			source := &tu.MockSource{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Source:     source,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.source != source {
				t.Error("expected source to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output == nil {
				t.Error("expected default output to be set")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("pretty output", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]int{"posts": 3}, true); err != nil {
				t.Fatalf("writeJSON() error = %v", err)
			}
			if !strings.Contains(output.String(), "\n  \"posts\": 3") {
				t.Errorf("output not indented: %q", output.String())
			}
		})

		t.Run("write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writeJSON(map[string]int{}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("writePlain() error = %v", err)
		}
		if output.String() != "hello world\n" {
			t.Errorf("output = %q", output.String())
		}
	})

	t.Run("remoteSource", func(t *testing.T) {
		t.Run("missing remote url", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: &shared.Config{}})
			if _, err := runner.remoteSource(); !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("error = %v, want ErrMissingConfig", err)
			}
		})

		t.Run("missing key", func(t *testing.T) {
			config := &shared.Config{}
			config.Remote.URL = "http://remote.test"
			runner := NewRunner(RunnerOpts{Config: config})
			if _, err := runner.remoteSource(); !errors.Is(err, shared.ErrMissingKey) {
				t.Errorf("error = %v, want ErrMissingKey", err)
			}
		})

		t.Run("injected source wins", func(t *testing.T) {
			source := &tu.MockSource{}
			runner := NewRunner(RunnerOpts{Source: source})
			got, err := runner.remoteSource()
			if err != nil {
				t.Fatalf("remoteSource() error = %v", err)
			}
			if got != source {
				t.Error("expected the injected source")
			}
		})
	})

	t.Run("reloadConfig", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		content := "[remote]\nurl = \"http://elsewhere.test\"\nkey = \"k\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		runner := NewRunner(RunnerOpts{})
		runner.reloadConfig(path)
		if runner.config.Remote.URL != "http://elsewhere.test" {
			t.Errorf("remote url = %q after reload", runner.config.Remote.URL)
		}

		before := runner.config
		runner.reloadConfig(filepath.Join(dir, "missing.toml"))
		if runner.config != before {
			t.Error("missing file must keep the current config")
		}
	})
}

func newTestApp(runner *Runner) *cli.Command {
	return &cli.Command{Name: "mmt", Commands: runner.register()}
}

func TestSetupAndReportCommands(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	dbPath := filepath.Join(dir, "mmt.db")

	content := "[database]\npath = \"" + dbPath + "\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Logger: shared.NewLogger(io.Discard),
		Output: output,
	})
	app := newTestApp(runner)

	if err := app.Run(context.Background(), []string{"mmt", "setup", "database", "-c", configPath}); err != nil {
		t.Fatalf("setup database failed: %v", err)
	}
	tu.AssertFileExists(t, dbPath)

	if err := app.Run(context.Background(), []string{"mmt", "report", "--json", "-c", configPath}); err != nil {
		t.Fatalf("report failed: %v", err)
	}

	var report StoreReport
	if err := json.Unmarshal(output.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode report output: %v\n%s", err, output.String())
	}
	if report.Users != 0 || report.Posts != 0 {
		t.Errorf("fresh store report = %+v, want zeros", report)
	}
}
