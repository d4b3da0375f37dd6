package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"

	"a11ycheck/internal/catalog"
	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/config"
	"a11ycheck/internal/engine"
	"a11ycheck/internal/kinds"
)

func TestParseSuppress(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    engine.Suppressions
		wantErr bool
	}{
		{
			name:    "Whole Check",
			entries: []string{"class-name"},
			want:    engine.Suppressions{"class-name": nil},
		},
		{
			name:    "Single Result ID",
			entries: []string{"class-name:5"},
			want:    engine.Suppressions{"class-name": {5}},
		},
		{
			name:    "Multiple IDs Same Check",
			entries: []string{"class-name:4", "class-name:5"},
			want:    engine.Suppressions{"class-name": {4, 5}},
		},
		{
			name:    "Whole Check Wins Over ID",
			entries: []string{"class-name", "class-name:5"},
			want:    engine.Suppressions{"class-name": nil},
		},
		{
			name:    "Blank Entries Skipped",
			entries: []string{"", "  ", "class-name"},
			want:    engine.Suppressions{"class-name": nil},
		},
		{
			name:    "Non-Numeric ID",
			entries: []string{"class-name:five"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSuppress(tt.entries)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSuppress() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseSuppress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeFileConfig_FlagsWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `locale: de
concurrency: 8
checks: class-name
output:
  console_format: ndjson
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg := config.New()
	cfg.Locale = "fr"

	cmd := &cobra.Command{Use: "scan"}
	cmd.Flags().String(flagLocale, "en", "")
	cmd.Flags().Int(flagConcurrency, 4, "")
	cmd.Flags().String(flagChecks, "", "")
	cmd.Flags().String(flagConsoleFormat, "text", "")
	if err := cmd.Flags().Set(flagLocale, "fr"); err != nil {
		t.Fatalf("failed to set locale flag: %v", err)
	}

	if err := mergeFileConfig(cmd, cfg, path); err != nil {
		t.Fatalf("mergeFileConfig() error = %v", err)
	}

	if cfg.Locale != "fr" {
		t.Errorf("Expected explicit --locale to win, got %q", cfg.Locale)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Expected file concurrency 8, got %d", cfg.Concurrency)
	}
	if cfg.Checks != "class-name" {
		t.Errorf("Expected file checks selector, got %q", cfg.Checks)
	}
	if cfg.Output.ConsoleFormat != "ndjson" {
		t.Errorf("Expected file console format, got %q", cfg.Output.ConsoleFormat)
	}
}

func TestMergeFileConfig_MissingFile(t *testing.T) {
	cmd := &cobra.Command{Use: "scan"}
	if err := mergeFileConfig(cmd, config.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestRenderMessage(t *testing.T) {
	md := checkresult.NewMetadata()
	if err := md.PutString("class_name", "com.example.CustomView"); err != nil {
		t.Fatalf("PutString failed: %v", err)
	}
	res := checkresult.New(kinds.New("class-name", kinds.ClassCheck), checkresult.ClassificationWarning, 0, 5, md)

	msg, err := renderMessage(catalog.Builtin(), "en", res)
	if err != nil {
		t.Fatalf("renderMessage() error = %v", err)
	}
	if want := "The class name com.example.CustomView is not supported by the accessibility service"; msg != want {
		t.Errorf("Expected %q, got %q", want, msg)
	}
}

func TestRenderMessage_UnregisteredKind(t *testing.T) {
	res := checkresult.New(kinds.New("ghost-check", kinds.ClassCheck), checkresult.ClassificationWarning, 0, 1, nil)
	if _, err := renderMessage(catalog.Builtin(), "en", res); err == nil {
		t.Error("Expected error for a kind with no registered check")
	}
}
