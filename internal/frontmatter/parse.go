package frontmatter

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Document is a content file split into its decoded metadata and body.
type Document struct {
	Body   string
	Meta   Value // null when the document has no (valid) front matter
	Raw    string
	Format Format
}

// HasMeta reports whether front matter was decoded.
func (d Document) HasMeta() bool { return d.Meta.Kind() == KindMap }

// Parse separates and decodes front matter.
//
// `+++` blocks are TOML. `---` blocks are YAML, falling back to TOML when the
// block is not a YAML mapping. On a decode failure Parse still returns the
// body with null metadata alongside the error, so callers can log and carry on.
func Parse(content string) (Document, error) {
	fm, body, format, err := Split([]byte(content))
	if err != nil {
		return Document{Body: content}, err
	}
	doc := Document{Body: string(body), Raw: string(fm), Format: format}

	switch format {
	case FormatNone:
		return doc, nil
	case FormatTOML:
		meta, err := decodeTOML(fm)
		if err != nil {
			return doc, err
		}
		doc.Meta = meta
	case FormatYAML:
		meta, yerr := decodeYAML(fm)
		if yerr == nil {
			doc.Meta = meta
			return doc, nil
		}
		meta, terr := decodeTOML(fm)
		if terr != nil {
			return doc, yerr
		}
		doc.Meta = meta
		doc.Format = FormatTOML
	}
	return doc, nil
}

// ParseYAML decodes a YAML mapping into a Value.
func ParseYAML(data []byte) (Value, error) { return decodeYAML(data) }

func decodeYAML(data []byte) (Value, error) {
	if len(data) == 0 {
		return Map(nil), nil
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Value{}, err
	}
	if raw == nil {
		return Map(nil), nil
	}
	v := FromAny(raw)
	if v.Kind() != KindMap {
		return Value{}, fmt.Errorf("front matter is a %T, not a mapping", raw)
	}
	return v, nil
}

func decodeTOML(data []byte) (Value, error) {
	raw := map[string]any{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return Value{}, err
	}
	return FromAny(raw), nil
}
