package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/headsrooms/PlaywrightING/internal/listing"
	"github.com/headsrooms/PlaywrightING/internal/site"
	"github.com/headsrooms/PlaywrightING/internal/snapshot"
)

// HomeEnv overrides the default home directory.
const HomeEnv = "PLAYWRIGHTING_HOME"

// FileName is the config file name inside the home directory.
const FileName = "config.yaml"

// Config represents the top-level config.yaml configuration.
type Config struct {
	Credentials  site.Credentials  `yaml:"credentials"`
	DownloadPath string            `yaml:"download_path"`
	Browser      BrowserConfig     `yaml:"browser"`
	Store        StoreConfig       `yaml:"store"`
	Sync         SyncConfig        `yaml:"sync"`
	Log          LogConfig         `yaml:"log"`
	Sentinels    listing.Sentinels `yaml:"sentinels"`
}

// BrowserConfig controls the browser session.
type BrowserConfig struct {
	Headless      bool          `yaml:"headless"`
	ExecPath      string        `yaml:"exec_path,omitempty"`
	BaseURL       string        `yaml:"base_url"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout"`
	ActionTimeout time.Duration `yaml:"action_timeout"`
}

// StoreConfig selects where the snapshot lives.
type StoreConfig struct {
	Backend snapshot.Backend `yaml:"backend"`
	File    string           `yaml:"file,omitempty"` // relative to home; defaults to position.<ext>
}

// SyncConfig tunes the transaction walk.
type SyncConfig struct {
	// Incremental stops walking back once a month older than the last update
	// was read.
	Incremental bool `yaml:"incremental"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// HomeDir resolves the home directory: flag, then $PLAYWRIGHTING_HOME, then
// ~/playwrighting.
func HomeDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(HomeEnv); env != "" {
		return filepath.Abs(env)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(userHome, "playwrighting"), nil
}

// Path returns the config file path inside home.
func Path(home string) string {
	return filepath.Join(home, FileName)
}

// Load reads a config.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file. The file holds credentials, so it is
// only readable by its owner.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults and no credentials.
func Default(home string) *Config {
	cfg := &Config{
		Browser: BrowserConfig{
			Headless:      true,
			BaseURL:       site.DefaultBaseURL,
			ProbeTimeout:  site.DefaultProbeTimeout,
			ActionTimeout: site.DefaultActionTimeout,
		},
		Store: StoreConfig{
			Backend: snapshot.BackendGob,
		},
		Log: LogConfig{
			Level: "info",
		},
		Sentinels: site.DefaultSentinels,
	}
	if home != "" {
		cfg.DownloadPath = filepath.Join(home, "downloads")
	}
	return cfg
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var errs []error
	cr := c.Credentials

	if cr.IDNumber == "" {
		errs = append(errs, errors.New("credentials.id_number is required"))
	}
	if cr.PassCode == "" {
		errs = append(errs, errors.New("credentials.pass_code is required"))
	} else if !digits(cr.PassCode) {
		errs = append(errs, errors.New("credentials.pass_code must only hold digits"))
	}
	if _, err := time.Parse("02/01/2006", cr.BirthdayDay+"/"+cr.BirthdayMonth+"/"+cr.BirthdayYear); err != nil {
		errs = append(errs, fmt.Errorf("credentials birthday %q/%q/%q is not a valid DD/MM/YYYY date", cr.BirthdayDay, cr.BirthdayMonth, cr.BirthdayYear))
	}
	if !c.Store.Backend.Valid() {
		errs = append(errs, fmt.Errorf("store.backend %q must be %q or %q", c.Store.Backend, snapshot.BackendGob, snapshot.BackendSQLite))
	}
	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
			errs = append(errs, fmt.Errorf("log.level %q is not a log level", c.Log.Level))
		}
	}
	if c.Sentinels.Account == "" || c.Sentinels.Card == "" || c.Sentinels.Activated == "" {
		errs = append(errs, errors.New("sentinels.account, sentinels.card and sentinels.activated are required"))
	}
	return errors.Join(errs...)
}

// SnapshotPath returns where the snapshot lives for this config.
func (c *Config) SnapshotPath(home string) string {
	if c.Store.File != "" {
		if filepath.IsAbs(c.Store.File) {
			return c.Store.File
		}
		return filepath.Join(home, c.Store.File)
	}
	return filepath.Join(home, "position"+c.Store.Backend.Ext())
}

// ScreenshotsDir returns where diagnostic screenshots are written.
func ScreenshotsDir(home string) string {
	return filepath.Join(home, "screenshots")
}

// Asker asks for a line of text with a default.
type Asker interface {
	Ask(ctx context.Context, question, def string) (string, error)
}

// Ask builds a Config interactively for a first run.
func Ask(ctx context.Context, a Asker, home string) (*Config, error) {
	cfg := Default(home)

	passCode, err := a.Ask(ctx, "Enter your security code", "")
	if err != nil {
		return nil, err
	}
	idNumber, err := a.Ask(ctx, "Enter your ID number", "")
	if err != nil {
		return nil, err
	}
	birthday, err := a.Ask(ctx, "Enter your birthday date (e.g: 31/05/1994)", "")
	if err != nil {
		return nil, err
	}
	born, err := time.Parse("02/01/2006", birthday)
	if err != nil {
		return nil, fmt.Errorf("birthday %q is not DD/MM/YYYY: %w", birthday, err)
	}
	downloads, err := a.Ask(ctx, "Enter a default download path", cfg.DownloadPath)
	if err != nil {
		return nil, err
	}

	cfg.Credentials = site.Credentials{
		IDNumber:      idNumber,
		PassCode:      passCode,
		BirthdayDay:   fmt.Sprintf("%02d", born.Day()),
		BirthdayMonth: fmt.Sprintf("%02d", int(born.Month())),
		BirthdayYear:  fmt.Sprintf("%d", born.Year()),
	}
	cfg.DownloadPath = downloads
	return cfg, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
