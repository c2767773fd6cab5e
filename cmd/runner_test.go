package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jihohub/track-list-now/internal/shared"
	tu "github.com/jihohub/track-list-now/internal/testing"
	"github.com/urfave/cli/v3"
)

// testApp builds the CLI command tree over a runner whose database lives in a
// temp directory with migrations already applied.
func testApp(t *testing.T, output *bytes.Buffer) (*cli.Command, *Runner) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	db.Close()

	runner := NewRunner(RunnerOpts{Config: config, Output: output})
	app := &cli.Command{
		Name:     "tln",
		Commands: runner.register(),
	}

	return app, runner
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "config.toml",
				Catalog:    catalog,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "config.toml" {
				t.Error("expected configPath to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestFavoritesWorkflow(t *testing.T) {
	ctx := context.Background()

	t.Run("set then read back through ranking top", func(t *testing.T) {
		output := &bytes.Buffer{}
		app, _ := testApp(t, output)

		submission := filepath.Join(t.TempDir(), "submission.json")
		payload := `{
			"userId": "user1",
			"allTimeArtists": [
				{"id": "a1", "name": "Artist One", "followers": 500},
				{"id": "a2", "name": "Artist Two", "followers": 900}
			]
		}`
		if err := os.WriteFile(submission, []byte(payload), 0644); err != nil {
			t.Fatalf("failed to write submission file: %v", err)
		}

		if err := app.Run(ctx, []string{"tln", "favorites", "set", "--file", submission}); err != nil {
			t.Fatalf("favorites set failed: %v", err)
		}
		if !strings.Contains(output.String(), "2 changes") {
			t.Errorf("expected 2 changes reported, got %s", output.String())
		}

		output.Reset()
		if err := app.Run(ctx, []string{"tln", "ranking", "top", "--category", "ALL_TIME_ARTIST"}); err != nil {
			t.Fatalf("ranking top failed: %v", err)
		}
		if !strings.Contains(output.String(), "Artist One") {
			t.Errorf("expected Artist One in ranking output, got %s", output.String())
		}

		output.Reset()
		if err := app.Run(ctx, []string{"tln", "favorites", "get", "--user", "user1"}); err != nil {
			t.Fatalf("favorites get failed: %v", err)
		}
		if !strings.Contains(output.String(), "ALL_TIME_ARTIST (2)") {
			t.Errorf("expected two all-time artists, got %s", output.String())
		}
	})

	t.Run("set rejects a malformed file", func(t *testing.T) {
		output := &bytes.Buffer{}
		app, _ := testApp(t, output)

		submission := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(submission, []byte("{not json"), 0644); err != nil {
			t.Fatalf("failed to write submission file: %v", err)
		}

		if err := app.Run(ctx, []string{"tln", "favorites", "set", "--file", submission}); err == nil {
			t.Error("expected error for malformed submission")
		}
	})

	t.Run("ranking export writes a CSV file", func(t *testing.T) {
		output := &bytes.Buffer{}
		app, _ := testApp(t, output)

		base := filepath.Join(t.TempDir(), "ranking")
		err := app.Run(ctx, []string{
			"tln", "ranking", "export",
			"--category", "CURRENT_TRACK",
			"--format", "csv",
			"--output", base,
		})
		if err != nil {
			t.Fatalf("ranking export failed: %v", err)
		}

		tu.AssertFileExists(t, base+".csv")
	})

	t.Run("refresh without credentials fails", func(t *testing.T) {
		output := &bytes.Buffer{}
		app, _ := testApp(t, output)

		if err := app.Run(ctx, []string{"tln", "refresh"}); err == nil {
			t.Error("expected error without catalog credentials")
		}
	})
}
