package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFilesGiveDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, ProjectFileName))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_LaterFilesWin(t *testing.T) {
	t.Parallel()

	user := writeConfig(t, "backup_ext: .bak\nverbose: true\nclean: true\n")
	project := writeConfig(t, "clean: false\nrelative_to_input: true\n")

	cfg, err := Load(user, project)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BackupExt != ".bak" {
		t.Errorf("BackupExt = %q, want .bak", cfg.BackupExt)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be kept from the user config")
	}
	if cfg.Clean {
		t.Error("Clean should be overridden by the project config")
	}
	if !cfg.RelativeToInput {
		t.Error("RelativeToInput should come from the project config")
	}
	if cfg.Input != Stdin {
		t.Errorf("Input = %q, want %q", cfg.Input, Stdin)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "clean: [not a bool\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}
}

func TestLoadConfigFromFile_ReadsProjectFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ProjectFileName), []byte("clipboard: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFromFile(dir)
	if err != nil {
		t.Fatalf("LoadConfigFromFile() error = %v", err)
	}
	if !cfg.Clipboard {
		t.Error("Clipboard should be read from the project file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Default(), false},
		{"in place on file", Config{Input: "doc.md", InPlace: true, BackupExt: ".orig"}, false},
		{"in place on stdin", Config{Input: Stdin, InPlace: true}, true},
		{"in place on empty input", Config{InPlace: true}, true},
		{"backup ext with separator", Config{Input: "doc.md", InPlace: true, BackupExt: "/tmp/x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestBaseDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "docs", "README.md")

	got, err := Config{Input: input, RelativeToInput: true}.BaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "docs"); got != want {
		t.Errorf("BaseDir() = %q, want %q", got, want)
	}

	for _, cfg := range []Config{{Input: input}, {Input: Stdin, RelativeToInput: true}} {
		if got, _ := cfg.BaseDir(); got != "" {
			t.Errorf("BaseDir() for %+v = %q, want empty", cfg, got)
		}
	}
}
