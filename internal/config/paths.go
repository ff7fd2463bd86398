package config

import "path/filepath"

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}

// PagesPath is the content directory.
func (c *Config) PagesPath() string { return c.resolve(c.Site.PagesDir) }

// StaticPath is the top-level static directory.
func (c *Config) StaticPath() string { return c.resolve(c.Site.StaticDir) }

// ThemePath is the theme root.
func (c *Config) ThemePath() string { return c.resolve(c.Theme.Dir) }

// TemplatesPath holds the theme's templates.
func (c *Config) TemplatesPath() string { return filepath.Join(c.ThemePath(), "templates") }

// ThemeStaticPath holds the theme's default assets.
func (c *Config) ThemeStaticPath() string { return filepath.Join(c.ThemePath(), "static") }

// BadgesPath is the badge image tree inside the static dir.
func (c *Config) BadgesPath() string { return filepath.Join(c.StaticPath(), "badges") }

// BadgesConfigPath is the optional badge metadata file.
func (c *Config) BadgesConfigPath() string { return c.resolve("badges.yaml") }

// WatchPaths lists the directories the reload coordinator watches.
func (c *Config) WatchPaths() []string {
	return []string{c.ThemePath(), c.PagesPath(), c.StaticPath()}
}
