// Package badges loads small link images grouped by directory, for themes
// that render button walls.
package badges

import (
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

// RootSet is the key for badges directly inside the badges dir.
const RootSet = "root"

var imageExts = map[string]struct{}{
	".gif": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".svg": {}, ".webp": {},
}

// Badge is one image with its link target.
type Badge struct {
	Filename string `yaml:"filename" json:"filename"`
	URL      string `yaml:"url" json:"url"`
	Order    *int   `yaml:"order,omitempty" json:"order,omitempty"`
	ID       string `yaml:"id,omitempty" json:"id,omitempty"`
}

// Sets maps a set name (RootSet or a relative dir) to its ordered badges.
type Sets map[string][]Badge

type fileConfig struct {
	Badge []Badge `yaml:"badge"`
}

// Load scans dir recursively for badge images, applying overrides from the
// optional YAML file at configPath. Missing inputs yield empty sets.
func Load(dir, configPath string, logger *slog.Logger) Sets {
	if logger == nil {
		logger = slog.Default()
	}
	overrides := loadConfig(configPath, logger)
	sets := Sets{}

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if _, ok := imageExts[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}
		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		id := strings.TrimLeft(name, "_")
		if i := strings.IndexByte(id, '.'); i >= 0 {
			id = id[:i]
		}

		var b Badge
		if cfg, ok := overrides[rel]; ok {
			b = cfg
			delete(overrides, rel)
		} else if cfg, ok := overrides[name]; ok {
			b = cfg
			delete(overrides, name)
		} else {
			b = Badge{Filename: rel, URL: urlFromFilename(name)}
		}
		if b.ID == "" {
			b.ID = id
		}

		set := RootSet
		if parent := filepath.ToSlash(filepath.Dir(rel)); parent != "." {
			set = parent
		}
		sets[set] = append(sets[set], b)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No badges directory", logfields.Path(dir))
		} else {
			logger.Warn("Failed to scan badges directory", logfields.Path(dir), logfields.Error(err))
		}
	}

	total := 0
	for _, list := range sets {
		sortBadges(list)
		total += len(list)
	}
	logger.Debug("Loaded badges", slog.Int("badges", total), slog.Int("sets", len(sets)))
	return sets
}

func loadConfig(path string, logger *slog.Logger) map[string]Badge {
	out := map[string]Badge{}
	if path == "" {
		return out
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return out
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Warn("Failed to parse badge configuration", logfields.Path(path), logfields.Error(err))
		return out
	}
	for _, b := range cfg.Badge {
		out[b.Filename] = b
	}
	return out
}

// urlFromFilename treats "example.com.png" as a link to https://example.com;
// anything without a dot in the stem links nowhere.
func urlFromFilename(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if strings.Contains(stem, ".") {
		return "https://" + stem
	}
	return "#"
}

// sortBadges orders by Order (unset first), then Filename.
func sortBadges(list []Badge) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Order, list[j].Order
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && *a != *b:
			return *a < *b
		}
		return list[i].Filename < list[j].Filename
	})
}

// Names returns the set names in sorted order.
func (s Sets) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ShuffledFor returns a copy of every set shuffled with a seed derived from
// the page and set names, so a page always shows the same arrangement.
func (s Sets) ShuffledFor(page string) Sets {
	out := make(Sets, len(s))
	pageHash := slug.StableHash(page)
	for name, list := range s {
		seed := pageHash * slug.StableHash(name)
		shuffled := append([]Badge(nil), list...)
		r := rand.New(rand.NewPCG(seed, seed))
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		out[name] = shuffled
	}
	return out
}
