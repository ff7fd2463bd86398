package config

import (
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// Validate checks fields that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return errors.ConfigError("site.base_url is required").Build()
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ConfigError("site.base_url must be an absolute URL").
			WithContext("base_url", c.Site.BaseURL).Build()
	}
	if c.Site.BaselineDate != "" {
		if _, err := time.Parse(time.DateOnly, c.Site.BaselineDate); err != nil {
			return errors.ConfigError("site.baseline_date must be YYYY-MM-DD").
				WithContext("baseline_date", c.Site.BaselineDate).Build()
		}
	}
	if strings.Contains(c.Site.EmbedImagesDir, "..") {
		return errors.ConfigError("site.embed_images_dir must stay inside the static dir").
			WithContext("embed_images_dir", c.Site.EmbedImagesDir).Build()
	}
	if c.Serve.RefreshInterval < 0 {
		return errors.ConfigError("serve.refresh_interval must not be negative").Build()
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.ConfigError("metrics.path must start with /").
			WithContext("path", c.Metrics.Path).Build()
	}
	return nil
}
