// Package config holds the settings of a pyinit run. Values come from
// built-in defaults, then an optional TOML or YAML file, then command-line
// flags and environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-yaml"
)

type Config struct {
	BaseDir        string   `toml:"base_dir" yaml:"base_dir"`
	Account        string   `toml:"account" yaml:"account"`
	DefaultVersion string   `toml:"default_version" yaml:"default_version"`
	EnvSuffix      string   `toml:"env_suffix" yaml:"env_suffix"`
	TemplatesDir   string   `toml:"templates_dir" yaml:"templates_dir"`
	Entries        []string `toml:"entries" yaml:"entries"`
	SeedDefaults   bool     `toml:"seed_defaults" yaml:"seed_defaults"`
}

const (
	DefaultVersion   = "3.12.4"
	DefaultEnvSuffix = "_env"
	templatesDirName = "default_templates"
	appDirName       = "pyinit"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")

	DefaultEntries = []string{
		"src/__init__.py",
		"project.toml",
		"src/main.py",
		"docs/index.rst",
		"tests/__init__.py",
	}

	fileNames = []string{"config.toml", "config.yaml", "config.yml"}

	userHomeDir   = os.UserHomeDir
	userConfigDir = xdgConfigHome
	currentUser   = user.Current
)

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{
		BaseDir:        "~/code",
		DefaultVersion: DefaultVersion,
		EnvSuffix:      DefaultEnvSuffix,
		Entries:        append([]string(nil), DefaultEntries...),
	}

	if u, err := currentUser(); err == nil {
		cfg.Account = u.Username
	}

	return cfg
}

// xdgConfigHome is $XDG_CONFIG_HOME when it is an absolute path, else
// ~/.config, on every platform.
func xdgConfigHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); filepath.IsAbs(dir) {
		return dir, nil
	}

	home, err := userHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config"), nil
}

// DefaultPath returns the first existing config file under
// $XDG_CONFIG_HOME/pyinit, or "" when there is none.
func DefaultPath() string {
	dir, err := userConfigDir()
	if err != nil {
		return ""
	}

	for _, name := range fileNames {
		path := filepath.Join(dir, appDirName, name)

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	return ""
}

// Load returns the defaults overlaid with the file at path. An empty path
// means [DefaultPath]; when that finds nothing the defaults are returned.
// Non-nil returned error wraps [ErrInvalidConfig].
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	if path == "" {
		return cfg, nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("%w: failed to read config file %q: %s", ErrInvalidConfig, path, err.Error())
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err = toml.Decode(string(contents), &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(contents, &cfg)
	default:
		err = errors.New("only .toml, .yaml and .yml files are supported")
	}

	if err != nil {
		return cfg, fmt.Errorf("%w: failed to parse config file %q: %s", ErrInvalidConfig, path, err.Error())
	}

	return cfg, nil
}

// Finalize expands "~" in paths, fills in the templates directory and
// validates the result.
// Non-nil returned error wraps [ErrInvalidConfig].
func (c *Config) Finalize() (err error) {
	if c.BaseDir, err = ExpandHome(c.BaseDir); err != nil {
		return err
	}

	if c.TemplatesDir == "" && c.BaseDir != "" {
		c.TemplatesDir = filepath.Join(c.BaseDir, templatesDirName)
	}

	if c.TemplatesDir, err = ExpandHome(c.TemplatesDir); err != nil {
		return err
	}

	return c.Validate()
}

// Non-nil returned error wraps [ErrInvalidConfig].
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("%w: base_dir must not be empty", ErrInvalidConfig)
	}

	if c.DefaultVersion == "" {
		return fmt.Errorf("%w: default_version must not be empty", ErrInvalidConfig)
	}

	if c.EnvSuffix == "" {
		return fmt.Errorf("%w: env_suffix must not be empty", ErrInvalidConfig)
	}

	if strings.ContainsAny(c.EnvSuffix, `/\`) || strings.ContainsFunc(c.EnvSuffix, unicode.IsSpace) {
		return fmt.Errorf("%w: env_suffix %q must not contain path separators or spaces", ErrInvalidConfig, c.EnvSuffix)
	}

	for _, entry := range c.Entries {
		if entry == "" || !filepath.IsLocal(entry) {
			return fmt.Errorf("%w: entry %q must be a relative path inside the project", ErrInvalidConfig, entry)
		}
	}

	return nil
}

// Dump writes a detailed rendering of c, used by --verbose.
func (c *Config) Dump(w io.Writer) {
	cs := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}

	cs.Fdump(w, *c)
}

// ExpandHome replaces a leading "~" with the user's home directory.
// Non-nil returned error wraps [ErrInvalidConfig].
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: could not locate user home directory to expand %q: %s", ErrInvalidConfig, path, err.Error())
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
