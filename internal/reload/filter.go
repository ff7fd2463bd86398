package reload

import (
	"path/filepath"
	"strings"
)

// IsNoise reports paths that never warrant a rebuild: editor temp files,
// caches, VCS internals and OS droppings.
func IsNoise(path string) bool {
	p := filepath.ToSlash(path)
	if strings.Contains(p, "/.git/") || strings.Contains(p, "/.sass-cache/") {
		return true
	}
	base := filepath.Base(path)
	switch base {
	case ".DS_Store", "Thumbs.db", ".git", ".sass-cache":
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, ".#") ||
		(len(base) > 1 && strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return false
}

// under reports whether path lies inside root.
func under(path, root string) bool {
	if root == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
