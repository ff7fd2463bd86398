package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// byteRange is an inclusive span within a resource.
type byteRange struct {
	start, end int64
}

func (r byteRange) length() int64 { return r.end - r.start + 1 }

// rangeOutcome classifies a Range header against a resource length.
type rangeOutcome int

const (
	rangeNone rangeOutcome = iota // absent, multi-range or malformed: serve 200
	rangeSatisfiable
	rangeUnsatisfiable
)

// parseRange interprets a single "bytes=" range. Only the open form
// "start-" is clamped to the resource; an explicit end at or past the length
// is unsatisfiable.
func parseRange(header string, size int64) (byteRange, rangeOutcome) {
	set, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !ok || strings.Contains(set, ",") {
		return byteRange{}, rangeNone
	}
	first, last, ok := strings.Cut(strings.TrimSpace(set), "-")
	if !ok {
		return byteRange{}, rangeNone
	}

	if first == "" {
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil || n < 0 {
			return byteRange{}, rangeNone
		}
		if n == 0 || size == 0 {
			return byteRange{}, rangeUnsatisfiable
		}
		if n > size {
			n = size
		}
		return byteRange{start: size - n, end: size - 1}, rangeSatisfiable
	}

	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil || start < 0 {
		return byteRange{}, rangeNone
	}
	end := size - 1
	if last != "" {
		end, err = strconv.ParseInt(last, 10, 64)
		if err != nil || end < start {
			return byteRange{}, rangeNone
		}
	}
	if start >= size || end >= size {
		return byteRange{}, rangeUnsatisfiable
	}
	return byteRange{start: start, end: end}, rangeSatisfiable
}

// notModified evaluates If-None-Match, then If-Modified-Since. When
// If-None-Match is present it alone decides. Unparseable dates are ignored.
func notModified(r *http.Request, etag string, lastModified time.Time) bool {
	if inm := r.Header.Get("If-None-Match"); inm != "" {
		return etag != "" && etagMatches(inm, etag)
	}
	ims := r.Header.Get("If-Modified-Since")
	if ims == "" || lastModified.IsZero() {
		return false
	}
	t, err := http.ParseTime(ims)
	if err != nil {
		return false
	}
	return !lastModified.Truncate(time.Second).After(t)
}

// etagMatches applies the weak comparison of If-None-Match.
func etagMatches(header, etag string) bool {
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
