package frontmatter

import (
	"bytes"
	"errors"
)

// Format identifies the front matter syntax of a document.
type Format int

const (
	FormatNone Format = iota
	FormatYAML        // --- delimited
	FormatTOML        // +++ delimited
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "none"
	}
}

// ErrMissingClosingDelimiter indicates the document started with a front
// matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Split separates a leading front matter block from the body.
//
// The block must open on the first line with `---` (YAML) or `+++` (TOML) and
// close with the same delimiter on its own line; a closing delimiter at EOF
// yields an empty body. One newline directly after the closing delimiter line
// is dropped from the body. Trailing whitespace inside the body is preserved
// so markdown hard breaks survive.
func Split(content []byte) (frontmatter []byte, body []byte, format Format, err error) {
	nl := detectNewline(content)

	var delim string
	switch {
	case bytes.HasPrefix(content, []byte("+++"+nl)):
		delim, format = "+++", FormatTOML
	case bytes.HasPrefix(content, []byte("---"+nl)):
		delim, format = "---", FormatYAML
	default:
		return nil, content, FormatNone, nil
	}

	start := len(delim) + len(nl)
	rest := content[start:]

	if bytes.HasPrefix(rest, []byte(delim+nl)) {
		return []byte{}, trimLeadingNewline(rest[len(delim)+len(nl):], nl), format, nil
	}
	if bytes.Equal(rest, []byte(delim)) {
		return []byte{}, []byte{}, format, nil
	}

	closeSeq := []byte(nl + delim + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		fm := rest[:idx+len(nl)]
		return fm, trimLeadingNewline(rest[idx+len(closeSeq):], nl), format, nil
	}

	eofSeq := []byte(nl + delim)
	if bytes.HasSuffix(rest, eofSeq) {
		return rest[:len(rest)-len(delim)], []byte{}, format, nil
	}

	return nil, content, FormatNone, ErrMissingClosingDelimiter
}

func trimLeadingNewline(b []byte, nl string) []byte {
	return bytes.TrimPrefix(b, []byte(nl))
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
