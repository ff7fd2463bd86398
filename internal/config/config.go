package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// DefaultFileName is the configuration file looked up inside the blog directory.
const DefaultFileName = "pagesmith.yaml"

// Config represents the site configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Features FeaturesConfig `yaml:"features"`
	Theme    ThemeConfig    `yaml:"theme"`
	Serve    ServeConfig    `yaml:"serve"`
	Notify   NotifyConfig   `yaml:"notify"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Extra    map[string]any `yaml:"extra,omitempty"`

	// Root is the blog directory. Relative paths in the file resolve against it.
	Root string `yaml:"-"`
}

// SiteConfig holds the identity and content layout of the site.
type SiteConfig struct {
	Title          string `yaml:"title"`
	BaseURL        string `yaml:"base_url"`
	PagesDir       string `yaml:"pages_dir"`
	StaticDir      string `yaml:"static_dir,omitempty"`
	Description    string `yaml:"description,omitempty"`
	Language       string `yaml:"language,omitempty"`
	BaselineDate   string `yaml:"baseline_date,omitempty"`
	EmbedImagesDir string `yaml:"embed_images_dir,omitempty"`
	FeedLimit      int    `yaml:"feed_limit,omitempty"`
	GitDates       bool   `yaml:"git_dates,omitempty"`
}

// FeaturesConfig toggles optional content processing.
type FeaturesConfig struct {
	WikiLinks  bool `yaml:"wiki_links"`
	ShowDrafts bool `yaml:"show_drafts"`
}

// ThemeConfig locates templates and theme assets.
type ThemeConfig struct {
	Dir            string `yaml:"dir"`
	HighlightStyle string `yaml:"highlight_style,omitempty"`
}

// ServeConfig tunes the development server and reload coordinator.
type ServeConfig struct {
	Addr            string        `yaml:"addr,omitempty"`
	Debounce        time.Duration `yaml:"debounce,omitempty"`
	WatchRetry      time.Duration `yaml:"watch_retry,omitempty"`
	RefreshInterval time.Duration `yaml:"refresh_interval,omitempty"`
	LiveReload      *bool         `yaml:"live_reload,omitempty"`
}

// NotifyConfig configures rebuild notifications. Empty NATSURL disables them.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// MetricsConfig exposes Prometheus metrics on the dev server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// Load reads <blogDir>/<fileName>, applying .env expansion, defaults and validation.
// An empty fileName selects DefaultFileName.
func Load(blogDir, fileName string) (*Config, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	root, err := filepath.Abs(blogDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "resolve blog directory").
			WithContext("dir", blogDir).Build()
	}

	loadEnvFiles(root)

	path := fileName
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, fileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", path).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration file").
			WithContext("path", path).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Root = root
	return cfg, nil
}

// Parse decodes YAML configuration after environment expansion, then applies
// defaults and validates. Root is left empty.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "unmarshal configuration").Build()
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LiveReloadEnabled reports whether serve mode injects the reload client.
func (c *Config) LiveReloadEnabled() bool {
	return c.Serve.LiveReload == nil || *c.Serve.LiveReload
}

// ExtraString returns a string value from the free-form extra section.
func (c *Config) ExtraString(key string) (string, bool) {
	if c.Extra == nil {
		return "", false
	}
	s, ok := c.Extra[key].(string)
	return s, ok
}
