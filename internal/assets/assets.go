// Package assets loads the static file table served next to rendered pages.
//
// Files come from three trees, later ones overriding earlier ones:
// theme static defaults, assets that sit next to pages in the content tree,
// and the top-level static dir.
package assets

import (
	"context"
	"encoding/hex"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"git.home.luguber.info/inful/pagesmith/internal/content"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

// File is one static resource.
type File struct {
	Data         []byte
	LastModified time.Time
	ETag         string // quoted strong validator
}

// Files maps a slash-separated path without leading slash to its file.
type Files map[string]File

// Paths returns the keys in sorted order.
func (f Files) Paths() []string {
	out := make([]string, 0, len(f))
	for p := range f {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Lookup finds a file by request path. A leading "/" and a "/static/"
// prefix are both accepted.
func (f Files) Lookup(requestPath string) (File, string, bool) {
	key := strings.TrimLeft(requestPath, "/")
	if file, ok := f[key]; ok {
		return file, key, true
	}
	if rest, ok := strings.CutPrefix(key, "static/"); ok {
		if file, ok := f[rest]; ok {
			return file, rest, true
		}
	}
	return File{}, "", false
}

// Tiers names the three source trees. Empty entries are skipped.
type Tiers struct {
	ThemeStatic string
	Content     string
	Static      string
}

// ETag is the quoted blake3 digest of data, truncated to 128 bits.
func ETag(data []byte) string {
	sum := blake3.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// Load reads all tiers. Unreadable files are logged and skipped.
func Load(ctx context.Context, tiers Tiers, logger *slog.Logger) (Files, error) {
	if logger == nil {
		logger = slog.Default()
	}
	files := Files{}
	for _, tier := range []struct {
		dir     string
		content bool
	}{
		{tiers.ThemeStatic, false},
		{tiers.Content, true},
		{tiers.Static, false},
	} {
		if tier.dir == "" {
			continue
		}
		if err := loadTree(ctx, files, tier.dir, tier.content, logger); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func loadTree(ctx context.Context, files Files, root string, isContent bool, logger *slog.Logger) error {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logger.Warn("Skipping unreadable static path", logfields.Path(p), logfields.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if isContent && content.IsPageFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		key := filepath.ToSlash(rel)
		if isContent {
			key = contentKey(key)
		}

		data, err := os.ReadFile(p)
		if err != nil {
			logger.Warn("Skipping unreadable static file", logfields.Path(p), logfields.Error(err))
			return nil
		}
		info, err := d.Info()
		if err != nil {
			logger.Warn("Skipping static file without metadata", logfields.Path(p), logfields.Error(err))
			return nil
		}
		files[key] = File{Data: data, LastModified: info.ModTime(), ETag: ETag(data)}
		return nil
	})
}

// contentKey slugifies the directory part of a content-adjacent asset so it
// lands next to the page that references it. The file name is kept.
func contentKey(rel string) string {
	dir, name := path.Split(rel)
	if dir == "" {
		return name
	}
	s := slug.Slugify(dir)
	if slug.IsRoot(s) {
		return name
	}
	return s + name
}
