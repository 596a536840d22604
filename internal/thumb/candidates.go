package thumb

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Candidates is the request-scoped set of harvested strings. Values are kept
// raw; entity unescaping happens in Filter. Each value remembers where it
// first occurs in the page so that ranking ties resolve by document order.
type Candidates struct {
	raw     string
	index   map[string]int
	entries []candidate

	// Values not found verbatim in raw are placed at anchor, which follows
	// the last located value inside [anchor, limit).
	anchor, limit int
}

type candidate struct {
	value  string
	offset int
}

// NewCandidates returns an empty set ordered by insertion.
func NewCandidates() *Candidates {
	return &Candidates{index: make(map[string]int)}
}

// newPageCandidates returns an empty set ordered by first offset in raw.
func newPageCandidates(raw string) *Candidates {
	c := NewCandidates()
	c.raw = raw
	c.limit = len(raw)
	return c
}

// enter scopes unlocated values to the page region [start, end).
func (c *Candidates) enter(start, end int) {
	c.anchor, c.limit = start, end
}

// Add inserts s unless it is empty or already present.
func (c *Candidates) Add(s string) {
	if s == "" {
		return
	}
	offset := c.locate(s)
	if i, ok := c.index[s]; ok {
		if offset < c.entries[i].offset {
			c.entries[i].offset = offset
		}
		return
	}
	c.index[s] = len(c.entries)
	c.entries = append(c.entries, candidate{value: s, offset: offset})
}

func (c *Candidates) locate(s string) int {
	if c.raw == "" {
		return c.anchor
	}
	i := strings.Index(c.raw, s)
	if i < 0 {
		i = strings.Index(c.raw, html.UnescapeString(s))
	}
	if i < 0 {
		return c.anchor
	}
	if i >= c.anchor && i < c.limit {
		c.anchor = i
	}
	return i
}

// AddAll inserts every string in values.
func (c *Candidates) AddAll(values []string) {
	for _, v := range values {
		c.Add(v)
	}
}

// Len returns the number of distinct raw candidates.
func (c *Candidates) Len() int { return len(c.entries) }

// Values returns the raw candidates in document order. Values sharing an
// offset keep their discovery order.
func (c *Candidates) Values() []string {
	sorted := make([]candidate, len(c.entries))
	copy(sorted, c.entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].offset < sorted[j].offset })
	out := make([]string, len(sorted))
	for i, e := range sorted {
		out[i] = e.value
	}
	return out
}

// Filter unescapes every candidate and keeps those hosted on the platform.
// Candidates whose path ends in an image extension are preferred; if none do,
// every platform candidate is returned.
func (c *Candidates) Filter(p Platform) []string {
	var platform, images []string
	for _, raw := range c.Values() {
		s := html.UnescapeString(raw)
		if s == "" || !p.isPlatformURL(hostOf(s)) {
			continue
		}
		platform = append(platform, s)
		if hasImageExtension(s, p.ImageExtensions) {
			images = append(images, s)
		}
	}
	if len(images) > 0 {
		return images
	}
	return platform
}

// hostOf returns the lowercased host of s. Strings that do not parse as a URL
// with a host (bare fragments like "p3.douyinpic.com/x.jpg") are matched whole.
func hostOf(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	return strings.ToLower(u.Host)
}

func hasImageExtension(s string, exts []string) bool {
	path, _, _ := strings.Cut(s, "?")
	path = strings.ToLower(path)
	for _, ext := range exts {
		if strings.HasSuffix(path, "."+ext) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
