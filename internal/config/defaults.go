package config

import "time"

const (
	DefaultPagesDir       = "content"
	DefaultStaticDir      = "static"
	DefaultThemeDir       = "theme"
	DefaultFeedLimit      = 1000
	DefaultDebounce       = 500 * time.Millisecond
	DefaultWatchRetry     = 5 * time.Second
	DefaultAddr           = "127.0.0.1:3030"
	DefaultHighlightStyle = "monokai"
	DefaultNotifySubject  = "pagesmith.site.rebuilt"
	DefaultMetricsPath    = "/metrics"
	DefaultLanguage       = "en"
)

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Untitled Site"
	}
	if c.Site.PagesDir == "" {
		c.Site.PagesDir = DefaultPagesDir
	}
	if c.Site.StaticDir == "" {
		c.Site.StaticDir = DefaultStaticDir
	}
	if c.Site.Language == "" {
		c.Site.Language = DefaultLanguage
	}
	if c.Site.FeedLimit <= 0 {
		c.Site.FeedLimit = DefaultFeedLimit
	}
	if c.Theme.Dir == "" {
		c.Theme.Dir = DefaultThemeDir
	}
	if c.Theme.HighlightStyle == "" {
		c.Theme.HighlightStyle = DefaultHighlightStyle
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.Debounce <= 0 {
		c.Serve.Debounce = DefaultDebounce
	}
	if c.Serve.WatchRetry <= 0 {
		c.Serve.WatchRetry = DefaultWatchRetry
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = DefaultNotifySubject
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
