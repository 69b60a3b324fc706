package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/titanous/json5"

	"github.com/wallctl/wallctl/internal/category"
)

const (
	// DefaultWallpaperRoot holds one sub-directory per category.
	DefaultWallpaperRoot = "~/pics/wallpapers"
	// DefaultCompositorTimeout bounds the wait for the compositor's
	// wallpaper daemon.
	DefaultCompositorTimeout = 10 * time.Second
)

// Config holds user preferences.
type Config struct {
	APIKey            string `json:"api_key,omitempty"`
	Category          string `json:"category,omitempty"`
	WallpaperDir      string `json:"wallpaper_dir,omitempty"`
	Resolution        string `json:"resolution,omitempty"`
	SearchURL         string `json:"search_url,omitempty"`
	Preview           *bool  `json:"preview,omitempty"`
	Pywal             *bool  `json:"pywal,omitempty"`
	Notify            *bool  `json:"notify,omitempty"`
	MultipleMonitors  *bool  `json:"multiple_monitors,omitempty"`
	CompositorTimeout string `json:"compositor_timeout,omitempty"`
}

// knownKey describes a config key and its optional validator.
type knownKey struct {
	validate func(string) error
}

var knownKeys = map[string]knownKey{
	"api_key":            {validate: nil},
	"category":           {validate: validateCategory},
	"wallpaper_dir":      {validate: nil},
	"resolution":         {validate: validateResolution},
	"search_url":         {validate: validateURL},
	"preview":            {validate: validateBool},
	"pywal":              {validate: validateBool},
	"notify":             {validate: validateBool},
	"multiple_monitors":  {validate: validateBool},
	"compositor_timeout": {validate: validateDuration},
}

var resolutionRe = regexp.MustCompile(`^[1-9][0-9]*x[1-9][0-9]*$`)

func validateResolution(val string) error {
	if !resolutionRe.MatchString(val) {
		return fmt.Errorf("must look like 1920x1080")
	}

	return nil
}

func validateCategory(val string) error {
	_, err := category.Parse(val)

	return err
}

func validateURL(val string) error {
	u, err := url.Parse(val)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http(s) URL")
	}

	return nil
}

func validateBool(val string) error {
	if val != "true" && val != "false" {
		return fmt.Errorf("must be true or false")
	}

	return nil
}

func validateDuration(val string) error {
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	if d <= 0 {
		return fmt.Errorf("must be positive")
	}

	return nil
}

// CompositorTimeoutDuration parses CompositorTimeout.
// Returns the default on empty or invalid values.
func (cfg *Config) CompositorTimeoutDuration() time.Duration {
	if cfg == nil || cfg.CompositorTimeout == "" {
		return DefaultCompositorTimeout
	}

	d, err := time.ParseDuration(cfg.CompositorTimeout)
	if err != nil || d <= 0 {
		return DefaultCompositorTimeout
	}

	return d
}

// WallpaperRoot returns the configured wallpaper root or the default.
func (cfg *Config) WallpaperRoot() string {
	if cfg == nil || cfg.WallpaperDir == "" {
		return DefaultWallpaperRoot
	}

	return cfg.WallpaperDir
}

// BoolOr returns *p, or def when p is nil.
func BoolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}

	return *p
}

// Load reads config from the JSON5 file at path.
// Returns an empty Config if the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes config as pretty-printed JSON atomically.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	data = append(data, '\n')

	return atomicWrite(path, data)
}

// atomicWrite writes data to path via temp-file + rename. The file holds an
// API key, so it is created owner-only.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	tmpPath = "" // prevent deferred cleanup

	return nil
}

func boolString(p *bool) (string, bool) {
	if p == nil {
		return "", false
	}

	return fmt.Sprintf("%t", *p), true
}

// Get returns the string value for a config key and whether it is set.
func (cfg *Config) Get(key string) (string, bool) {
	switch key {
	case "api_key":
		return cfg.APIKey, cfg.APIKey != ""
	case "category":
		return cfg.Category, cfg.Category != ""
	case "wallpaper_dir":
		return cfg.WallpaperDir, cfg.WallpaperDir != ""
	case "resolution":
		return cfg.Resolution, cfg.Resolution != ""
	case "search_url":
		return cfg.SearchURL, cfg.SearchURL != ""
	case "preview":
		return boolString(cfg.Preview)
	case "pywal":
		return boolString(cfg.Pywal)
	case "notify":
		return boolString(cfg.Notify)
	case "multiple_monitors":
		return boolString(cfg.MultipleMonitors)
	case "compositor_timeout":
		return cfg.CompositorTimeout, cfg.CompositorTimeout != ""
	default:
		return "", false
	}
}

// Set sets a config key to a value after validation.
func (cfg *Config) Set(key, value string) error {
	kk, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(KnownKeys(), ", "))
	}

	if kk.validate != nil {
		if err := kk.validate(value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}

	b := value == "true"

	switch key {
	case "api_key":
		cfg.APIKey = value
	case "category":
		cfg.Category = value
	case "wallpaper_dir":
		cfg.WallpaperDir = value
	case "resolution":
		cfg.Resolution = value
	case "search_url":
		cfg.SearchURL = strings.TrimRight(value, "/")
	case "preview":
		cfg.Preview = &b
	case "pywal":
		cfg.Pywal = &b
	case "notify":
		cfg.Notify = &b
	case "multiple_monitors":
		cfg.MultipleMonitors = &b
	case "compositor_timeout":
		cfg.CompositorTimeout = value
	}

	return nil
}

// Unset removes a config key (resets to zero/nil).
func (cfg *Config) Unset(key string) error {
	if _, ok := knownKeys[key]; !ok {
		return fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(KnownKeys(), ", "))
	}

	switch key {
	case "api_key":
		cfg.APIKey = ""
	case "category":
		cfg.Category = ""
	case "wallpaper_dir":
		cfg.WallpaperDir = ""
	case "resolution":
		cfg.Resolution = ""
	case "search_url":
		cfg.SearchURL = ""
	case "preview":
		cfg.Preview = nil
	case "pywal":
		cfg.Pywal = nil
	case "notify":
		cfg.Notify = nil
	case "multiple_monitors":
		cfg.MultipleMonitors = nil
	case "compositor_timeout":
		cfg.CompositorTimeout = ""
	}

	return nil
}

// KnownKeys returns a sorted list of valid config key names.
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// --- Context helpers ---

type ctxKey struct{}

// WithConfig stores a Config in the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext retrieves the Config from the context.
func FromContext(ctx context.Context) *Config {
	if v := ctx.Value(ctxKey{}); v != nil {
		if cfg, ok := v.(*Config); ok {
			return cfg
		}
	}

	return nil
}
