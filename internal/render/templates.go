package render

import (
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// DefaultTemplate is used when a page names no template.
const DefaultTemplate = "page.html"

const fallbackLayout = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{ .page.title }}</title></head>
<body>
<main>{{ .content }}</main>
</body>
</html>
`

// placeholderFuncs registers the func names at parse time. Render binds
// the real implementations per generation.
func placeholderFuncs() template.FuncMap {
	return template.FuncMap{
		"ldjson":     func(string, string) template.JS { return "" },
		"safeHTML":   func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec // explicit opt-in from templates
		"escapeAttr": func(s string) string { return s },
		"badgesFor":  func(string, string) any { return nil },
		"now":        time.Now,
	}
}

// Templates is a parsed theme. The parsed set is never executed directly
// so that it can always be cloned.
type Templates struct {
	base  *template.Template
	names map[string]bool
}

// LoadTemplates parses every *.html below dir, naming each template by its
// slash-separated path relative to dir. A missing dir yields an empty set.
func LoadTemplates(dir string) (*Templates, error) {
	t := &Templates{
		base:  template.New("").Funcs(placeholderFuncs()),
		names: map[string]bool{},
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return t, nil
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "read template").
				WithContext("template", name).Build()
		}
		if _, err := t.base.New(name).Parse(string(data)); err != nil {
			return errors.WrapError(err, errors.CategoryTemplate, "parse template").
				WithContext("template", name).Build()
		}
		t.names[name] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Has reports whether the theme defines name.
func (t *Templates) Has(name string) bool { return t.names[name] }

// Names lists the loaded template names.
func (t *Templates) Names() []string {
	out := make([]string, 0, len(t.names))
	for n := range t.names {
		out = append(out, n)
	}
	return out
}

// bind clones the parsed set and installs the generation's funcs. A bound
// set may be executed; further templates can only be added before that.
func (t *Templates) bind(funcs template.FuncMap) (*template.Template, error) {
	set, err := t.base.Clone()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "clone template set").Build()
	}
	set.Funcs(funcs)
	if _, err := set.New("_fallback").Parse(fallbackLayout); err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "parse fallback layout").Build()
	}
	return set, nil
}
