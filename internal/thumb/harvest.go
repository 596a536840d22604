package thumb

import (
	"bytes"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// metaImageTags are the (attribute, value) pairs of <meta> elements whose
// content attribute carries a preview image, across Open Graph and Twitter
// card vocabularies.
var metaImageTags = [][2]string{
	{"property", "og:image"},
	{"name", "og:image"},
	{"name", "twitter:image"},
	{"property", "twitter:image"},
}

var quotedHTTPURL = regexp.MustCompile(`"(https?://[^"]+)"`)

// errUndecodable marks a script payload that no decoder could turn into JSON.
var errUndecodable = errors.New("undecodable script payload")

// decoder turns script text into a JSON value.
type decoder struct {
	name   string
	decode func(text string) (any, error)
}

// stateDecoders are tried in order for every script match; the first success
// wins. Some renderers percent-encode their state blob before embedding it.
var stateDecoders = []decoder{
	{name: "json", decode: decodeJSON},
	{name: "percent+json", decode: func(text string) (any, error) {
		unescaped, err := url.PathUnescape(text)
		if err != nil {
			return nil, err
		}
		return decodeJSON(unescaped)
	}},
}

// decodeState runs text through stateDecoders.
func decodeState(text string) (any, error) {
	for _, d := range stateDecoders {
		v, err := d.decode(text)
		if err == nil {
			return v, nil
		}
	}
	return nil, errUndecodable
}

// scanner holds the patterns compiled from a Platform.
type scanner struct {
	p      Platform
	states []*regexp.Regexp
	covers []*regexp.Regexp
	loose  *regexp.Regexp
}

func newScanner(p Platform) *scanner {
	s := &scanner{p: p}
	for _, g := range p.StateGlobals {
		s.states = append(s.states, regexp.MustCompile(`window\.`+regexp.QuoteMeta(g)+`\s*=\s*(\{[^;]+\});`))
	}
	list := regexp.QuoteMeta(p.URLListKey)
	for _, k := range p.CoverKeys {
		s.covers = append(s.covers, regexp.MustCompile(`"`+regexp.QuoteMeta(k)+`"[^}]*?"`+list+`"\s*:\s*\[([^\]]+)\]`))
	}
	if len(p.Hosts) > 0 {
		hosts := make([]string, len(p.Hosts))
		for i, h := range p.Hosts {
			hosts[i] = regexp.QuoteMeta(h)
		}
		s.loose = regexp.MustCompile(`https?://[^\s"'()]+?(?:` + strings.Join(hosts, "|") + `)[^\s"'()]*`)
	}
	return s
}

// harvest collects every candidate from body.
func (s *scanner) harvest(body []byte) *Candidates {
	raw := string(body)
	c := newPageCandidates(raw)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Debug().Err(err).Msg("html parse failed; structural scan skipped")
	} else {
		scripts := locateScripts(doc, raw)
		s.harvestMeta(doc, c)
		s.harvestPosters(doc, c)
		s.harvestJSONScripts(scripts, c)
		s.harvestStateScripts(scripts, c)
	}
	s.harvestStateGlobals(raw, c)
	c.enter(0, len(raw))
	s.harvestCovers(raw, c)
	s.harvestLoose(raw, c)
	return c
}

// script is an inline script body and its byte range in the page. When the
// parser's text cannot be found verbatim the range is empty and sits after
// the previous script.
type script struct {
	typ        string
	text       string
	start, end int
}

func locateScripts(doc *goquery.Document, raw string) []script {
	var out []script
	cursor := 0
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		sc := script{text: sel.Text(), start: cursor, end: cursor}
		sc.typ, _ = sel.Attr("type")
		if sc.text != "" {
			if i := strings.Index(raw[cursor:], sc.text); i >= 0 {
				sc.start = cursor + i
				sc.end = sc.start + len(sc.text)
				cursor = sc.end
			}
		}
		out = append(out, sc)
	})
	return out
}

// Attribute values come back entity-decoded from the parser; they are
// re-escaped so every candidate is stored as page text and unescaped once in
// Filter.
func (s *scanner) harvestMeta(doc *goquery.Document, c *Candidates) {
	doc.Find("meta").Each(func(_ int, m *goquery.Selection) {
		for _, tag := range metaImageTags {
			v, ok := m.Attr(tag[0])
			if !ok || !strings.EqualFold(strings.TrimSpace(v), tag[1]) {
				continue
			}
			if content, ok := m.Attr("content"); ok {
				c.Add(html.EscapeString(content))
			}
		}
	})
}

func (s *scanner) harvestPosters(doc *goquery.Document, c *Candidates) {
	doc.Find("video[poster]").Each(func(_ int, v *goquery.Selection) {
		poster, _ := v.Attr("poster")
		c.Add(html.EscapeString(poster))
	})
}

func (s *scanner) harvestJSONScripts(scripts []script, c *Candidates) {
	for _, sc := range scripts {
		if !strings.EqualFold(strings.TrimSpace(sc.typ), "application/json") {
			continue
		}
		text := strings.TrimSpace(sc.text)
		if text == "" {
			continue
		}
		v, err := decodeJSON(html.UnescapeString(text))
		if err != nil {
			log.Debug().Err(err).Msg("json script skipped")
			continue
		}
		c.enter(sc.start, sc.end)
		walk(v, s.p, c)
	}
}

// harvestStateScripts tries every inline script body as a state blob.
func (s *scanner) harvestStateScripts(scripts []script, c *Candidates) {
	for _, sc := range scripts {
		if strings.TrimSpace(sc.text) == "" {
			continue
		}
		v, err := decodeState(sc.text)
		if err != nil {
			continue
		}
		c.enter(sc.start, sc.end)
		walk(v, s.p, c)
	}
}

// harvestStateGlobals matches window state assignments on the raw text since
// they may span markup the parser would split.
func (s *scanner) harvestStateGlobals(raw string, c *Candidates) {
	for _, re := range s.states {
		for _, m := range re.FindAllStringSubmatchIndex(raw, -1) {
			v, err := decodeState(raw[m[2]:m[3]])
			if err != nil {
				continue
			}
			c.enter(m[2], m[3])
			walk(v, s.p, c)
		}
	}
}

func (s *scanner) harvestCovers(raw string, c *Candidates) {
	for _, re := range s.covers {
		for _, m := range re.FindAllStringSubmatch(raw, -1) {
			for _, u := range quotedHTTPURL.FindAllStringSubmatch(m[1], -1) {
				c.Add(u[1])
			}
		}
	}
}

func (s *scanner) harvestLoose(raw string, c *Candidates) {
	if s.loose == nil {
		return
	}
	c.AddAll(s.loose.FindAllString(raw, -1))
}
