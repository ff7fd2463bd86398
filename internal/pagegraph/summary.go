package pagegraph

// Summary is the listing view of a page. Children are finished summaries one
// segment deeper, ordered by SortKey ascending.
type Summary struct {
	Title       string     `json:"title"`
	Permalink   string     `json:"permalink"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Date        string     `json:"date,omitempty"`
	Updated     string     `json:"updated,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	ReadingTime int        `json:"reading_time"`
	SortKey     int        `json:"sort_key"`
	Children    []*Summary `json:"children"`
}

// Key is the SortKey of the summarized page.
func (s *Summary) Key() SortKey {
	return SortKey{Priority: s.SortKey, Date: s.Date, Slug: s.Slug}
}

// Map exposes the summary with snake_case keys for templates. Absent
// optional fields are nil.
func (s *Summary) Map() map[string]any {
	children := make([]map[string]any, len(s.Children))
	for i, c := range s.Children {
		children[i] = c.Map()
	}
	return map[string]any{
		"title":        s.Title,
		"permalink":    s.Permalink,
		"slug":         s.Slug,
		"description":  optional(s.Description),
		"date":         optional(s.Date),
		"updated":      optional(s.Updated),
		"summary":      optional(s.Summary),
		"reading_time": s.ReadingTime,
		"sort_key":     s.SortKey,
		"children":     children,
	}
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NavItem is an entry of the site navigation.
type NavItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Breadcrumb is one ancestor link of a page.
type Breadcrumb struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	IsCurrent bool   `json:"is_current"`
}
