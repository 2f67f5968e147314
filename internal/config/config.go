// Package config loads gradient-transparency-fix settings from config files,
// package.json and editor settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"bennypowers.dev/gtf/internal/fixer"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// PackageJSONKey is the package.json field holding the configuration, also
// used as the LSP settings section
const PackageJSONKey = "gradientTransparencyFix"

// FileNames are the config files looked up in the project root, in order
var FileNames = []string{
	".gradient-transparency-fix.yaml",
	".gradient-transparency-fix.yml",
	".gradient-transparency-fix.json",
	".gradient-transparency-fix.jsonc",
}

// ErrInvalidConfig is wrapped by every validation error
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the project settings
type Config struct {
	// Properties is a regular expression matched against lower-cased
	// property names. Only matching declarations are fixed.
	Properties string `json:"properties" yaml:"properties"`

	// Include lists doublestar globs of files to fix, relative to the root
	Include []string `json:"include" yaml:"include"`

	// Exclude lists doublestar globs of files to skip
	Exclude []string `json:"exclude" yaml:"exclude"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Properties: fixer.DefaultProperties,
		Include: []string{
			"**/*.{css,pcss}",
			"**/*.{html,htm}",
			"**/*.{js,mjs,cjs,jsx,ts,mts,cts,tsx}",
		},
		Exclude: []string{
			"**/node_modules/**",
			"**/.git/**",
		},
	}
}

// Validate checks the property pattern and every glob
func (c Config) Validate() error {
	if _, err := fixer.New(c.Properties); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, pattern := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: bad glob pattern %q", ErrInvalidConfig, pattern)
		}
	}
	return nil
}

// Fixer returns a declaration fixer for the configured properties
func (c Config) Fixer() (*fixer.Fixer, error) {
	return fixer.New(c.Properties)
}

// Load finds the configuration for a project root. It returns the defaults
// and an empty path when no config file exists.
func Load(root string) (Config, string, error) {
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadFile(path)
		return cfg, path, err
	}

	path := filepath.Join(root, "package.json")
	cfg, found, err := loadPackageJSON(path)
	if err != nil || !found {
		return cfg, "", err
	}
	return cfg, path, nil
}

// IsConfigFile reports whether path has the name of a file Load reads
func IsConfigFile(path string) bool {
	base := filepath.Base(path)
	return base == "package.json" || slices.Contains(FileNames, base)
}

// LoadFile reads a YAML, JSON or JSONC config file over the defaults
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // G304: config path comes from the user or the project root
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func loadPackageJSON(path string) (Config, bool, error) {
	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // G304: Reading workspace package.json - local trusted environment
	if errors.Is(err, os.ErrNotExist) {
		return cfg, false, nil
	}
	if err != nil {
		return cfg, false, fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return cfg, false, fmt.Errorf("failed to parse package.json: %w", err)
	}
	raw, ok := pkg[PackageJSONKey]
	if !ok {
		return cfg, false, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, false, fmt.Errorf("%s in package.json must be an object: %w", PackageJSONKey, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false, fmt.Errorf("package.json: %w", err)
	}
	return cfg, true, nil
}

// Merge overlays editor settings, as sent with
// workspace/didChangeConfiguration, on top of c. Fields missing from
// settings keep their value.
func (c Config) Merge(settings any) (Config, error) {
	if settings == nil {
		return c, nil
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return c, fmt.Errorf("failed to encode settings: %w", err)
	}
	merged := c
	if err := json.Unmarshal(data, &merged); err != nil {
		return c, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := merged.Validate(); err != nil {
		return c, err
	}
	return merged, nil
}

// YAML renders the configuration as a config file
func (c Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
