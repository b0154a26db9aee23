package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirsle/configdir"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the user config directory.
	AppName = "mdinline"
	// ProjectFileName is looked up in the working directory.
	ProjectFileName = ".mdinline.yaml"
	// Stdin is the input name that selects standard input.
	Stdin = "-"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration options for mdinline
type Config struct {
	Input           string `yaml:"-"` // file to process, or "-" for stdin
	InPlace         bool   `yaml:"-"`
	Check           bool   `yaml:"-"` // validate only, write nothing
	BackupExt       string `yaml:"backup_ext"`
	Clean           bool   `yaml:"clean"`
	Verbose         bool   `yaml:"verbose"`
	Clipboard       bool   `yaml:"clipboard"`         // also copy the result to the clipboard
	Open            bool   `yaml:"open"`              // open the file after editing in place
	RelativeToInput bool   `yaml:"relative_to_input"` // resolve src against the input's directory
}

// Default returns the configuration used when no file or flag says otherwise.
func Default() Config {
	return Config{Input: Stdin}
}

// UserConfigPath returns the location of the per-user config file.
func UserConfigPath() string {
	return filepath.Join(configdir.LocalConfig(AppName), "config.yaml")
}

// LoadConfigFromFile loads the user config and then the project config found
// in projectDir on top of the defaults.
func LoadConfigFromFile(projectDir string) (Config, error) {
	return Load(UserConfigPath(), filepath.Join(projectDir, ProjectFileName))
}

// Load applies each YAML file in order over the defaults. Missing files are
// skipped; keys absent from a file keep their earlier value.
func Load(paths ...string) (Config, error) {
	cfg := Default()
	for _, path := range paths {
		if err := cfg.merge(path); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func (c *Config) merge(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// IsStdin reports whether input comes from standard input.
func (c Config) IsStdin() bool {
	return c.Input == "" || c.Input == Stdin
}

// BaseDir returns the directory relative src paths resolve against. Empty
// means the working directory.
func (c Config) BaseDir() (string, error) {
	if !c.RelativeToInput || c.IsStdin() {
		return "", nil
	}
	abs, err := filepath.Abs(c.Input)
	if err != nil {
		return "", fmt.Errorf("resolving input path: %w", err)
	}
	return filepath.Dir(abs), nil
}

// Validate checks option combinations that cannot work together.
func (c Config) Validate() error {
	if c.InPlace && c.IsStdin() {
		return fmt.Errorf("%w: standard input is not a valid input when editing in place", ErrInvalidConfig)
	}
	if strings.ContainsAny(c.BackupExt, `/\`) {
		return fmt.Errorf("%w: backup extension %q must not contain a path separator", ErrInvalidConfig, c.BackupExt)
	}
	return nil
}
