package content

import (
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
)

// Keys that change without the page changing.
var fingerprintExcluded = map[string]struct{}{
	mdfp.FingerprintField: {},
	"lastmod":             {},
	"embed_image":         {},
}

// Fingerprint computes the mdfp content fingerprint of a page: canonical YAML
// front matter (keys sorted, LF newlines, one trailing newline trimmed) plus
// the body. It doubles as the page ETag.
func Fingerprint(meta frontmatter.Value, body string) string {
	fields := map[string]any{}
	for k, v := range meta.Fields() {
		if _, skip := fingerprintExcluded[k]; skip {
			continue
		}
		fields[k] = v.Interface()
	}

	serialized := ""
	if len(fields) > 0 {
		out, err := yaml.Marshal(fields)
		if err == nil {
			serialized = strings.TrimSuffix(string(out), "\n")
		}
	}
	return mdfp.CalculateFingerprintFromParts(serialized, body)
}
