package thumb

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetcherFunc func(ctx context.Context, url string) ([]byte, string, error)

func (f fetcherFunc) Get(ctx context.Context, url string) ([]byte, string, error) {
	return f(ctx, url)
}

func staticPage(body string) Fetcher {
	return fetcherFunc(func(context.Context, string) ([]byte, string, error) {
		return []byte(body), "text/html; charset=utf-8", nil
	})
}

func TestFromHTML_ImageCDNBeatsStaticAssets(t *testing.T) {
	page := `<html><head>
<link rel="icon" href="https://s3.pstatp.com/favicon.png">
</head><body>
<img src="https://s3.pstatp.com/static/logo.png">
<script>var cover = "https://p3-pc-sign.douyinpic.com/tos-cn-p-0015/abc.jpeg?x-expires=1";</script>
<img src="https://s3.pstatp.com/static/icon-share.png">
</body></html>`

	e := NewExtractor(nil, Douyin)
	assert.Equal(t, "https://p3-pc-sign.douyinpic.com/tos-cn-p-0015/abc.jpeg?x-expires=1", e.FromHTML([]byte(page)))
}

func TestFromHTML_LastImageCDNCandidateWins(t *testing.T) {
	page := `<html><head>
<meta property="og:image" content="https://p3.douyinpic.com/first.jpeg">
<meta name="twitter:image" content="https://p9.douyinpic.com/second.jpeg">
</head><body></body></html>`

	e := NewExtractor(nil, Douyin)
	assert.Equal(t, "https://p9.douyinpic.com/second.jpeg", e.FromHTML([]byte(page)))
}

func TestFromHTML_NoPlatformURLs(t *testing.T) {
	page := `<html><head>
<meta property="og:image" content="https://cdn.example.com/cover.jpg">
</head><body><video poster="https://img.example.org/poster.png"></video></body></html>`

	e := NewExtractor(nil, Douyin)
	assert.Empty(t, e.FromHTML([]byte(page)))
}

func TestFromHTML_PercentEncodedStateBlob(t *testing.T) {
	blob := `{"app":{"videoDetail":{"video":{"cover":{"url_list":["https://p3-sign.douyinpic.com/tos-cn-i-0813/cover.jpeg?x=1"]}}}}}`
	page := `<html><body><script id="RENDER_DATA" type="application/json">` +
		url.PathEscape(blob) + `</script></body></html>`

	e := NewExtractor(nil, Douyin)
	c := e.scan.harvest([]byte(page))
	assert.Contains(t, c.Values(), "https://p3-sign.douyinpic.com/tos-cn-i-0813/cover.jpeg?x=1")
	assert.Equal(t, "https://p3-sign.douyinpic.com/tos-cn-i-0813/cover.jpeg?x=1", e.FromHTML([]byte(page)))
}

func TestFromHTML_WindowStateAssignment(t *testing.T) {
	page := `<html><body><script>
window._SIGI_STATE = {"ItemModule":{"7":{"video":{"origin_cover":{"url_list":["https:\/\/p9-sign.byteimg.com\/tos-cn-i-0813\/origin.webp"]}}}}};
</script></body></html>`

	e := NewExtractor(nil, Douyin)
	assert.Equal(t, "https://p9-sign.byteimg.com/tos-cn-i-0813/origin.webp", e.FromHTML([]byte(page)))
}

func TestFromHTML_RawCoverFragment(t *testing.T) {
	// Unparseable JSON around the fragment leaves only the raw-text scan.
	page := `<html><body><div data-x='{"dynamic_cover":{"uri":"x","url_list":["https://p6.pstatp.com/large/cover.jpg","https://p6.pstatp.com/large/cover2.jpg"]' ></div></body></html>`

	e := NewExtractor(nil, Douyin)
	c := e.scan.harvest([]byte(page))
	assert.Contains(t, c.Values(), "https://p6.pstatp.com/large/cover.jpg")
	assert.Contains(t, c.Values(), "https://p6.pstatp.com/large/cover2.jpg")
}

func TestFromHTML_UnescapesEntitiesBeforeFiltering(t *testing.T) {
	page := `<html><body><div data-src="https://p3.douyinpic.com/img/a.jpeg?a=1&amp;x=1"></div></body></html>`

	e := NewExtractor(nil, Douyin)
	assert.Equal(t, "https://p3.douyinpic.com/img/a.jpeg?a=1&x=1", e.FromHTML([]byte(page)))
}

func TestFromHTML_FallsBackToExtensionlessCandidates(t *testing.T) {
	page := `<html><head><meta property="og:image" content="https://p3.douyinpic.com/obj/abcdef"></head></html>`

	e := NewExtractor(nil, Douyin)
	assert.Equal(t, "https://p3.douyinpic.com/obj/abcdef", e.FromHTML([]byte(page)))
}

func TestExtract_FetchErrorYieldsEmpty(t *testing.T) {
	f := fetcherFunc(func(context.Context, string) ([]byte, string, error) {
		return nil, "", errors.New("unexpected status: 503")
	})
	e := NewExtractor(f, Douyin)
	assert.Empty(t, e.Extract(context.Background(), "https://m.douyin.com/share/video/1"))
}

func TestExtract_FetchesAndRanks(t *testing.T) {
	e := NewExtractor(staticPage(`<video poster="https://p26-sign.douyinpic.com/poster.heic"></video>`), Douyin)
	got := e.Extract(context.Background(), "https://m.douyin.com/share/video/2")
	require.NotEmpty(t, got)
	assert.Equal(t, "https://p26-sign.douyinpic.com/poster.heic", got)
}

func TestFromHTML_LaterCandidateInDocumentWins(t *testing.T) {
	const (
		a = "https://p3.douyinpic.com/A.jpg"
		b = "https://p3.douyinpic.com/B.jpg"
	)
	tests := []struct {
		name string
		page string
	}{
		{"json siblings", `<html><body><script type="application/json">{"zitem":{"cover":"` + a + `"},"aitem":{"cover":"` + b + `"}}</script></body></html>`},
		{"poster before meta", `<html><body><video poster="` + a + `"></video><meta property="og:image" content="` + b + `"></body></html>`},
		{"media keys", `<html><body><script type="application/json">{"poster":"` + a + `","cover":"` + b + `"}</script></body></html>`},
		{"percent-encoded siblings", `<html><body><script>` +
			url.PathEscape(`{"zitem":{"cover":"`+a+`"},"aitem":{"cover":"`+b+`"}}`) + `</script></body></html>`},
	}
	e := NewExtractor(nil, Douyin)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, b, e.FromHTML([]byte(tt.page)))
		})
	}
}

func TestFromHTML_AttributeEntitiesUnescapedOnce(t *testing.T) {
	page := `<html><head><meta property="og:image" content="https://p3.douyinpic.com/a.jpg?x=1&amp;amp;y=2"></head></html>`

	e := NewExtractor(nil, Douyin)
	assert.Equal(t, "https://p3.douyinpic.com/a.jpg?x=1&amp;y=2", e.FromHTML([]byte(page)))
}
