package thumb

import "strings"

// Platform holds the host and path literals the heuristic matches against.
// Swapping the table retargets the extractor without touching the harvest or
// ranking logic.
type Platform struct {
	// DomainToken gates whether a request URL is in scope at all.
	DomainToken string
	// Hosts are substrings identifying platform-owned URLs. A candidate must
	// contain one of them to survive filtering.
	Hosts []string
	// ImageExtensions are matched case-insensitively against the path.
	ImageExtensions []string
	// ImageCDN is the dedicated thumbnail CDN, ranked first.
	ImageCDN string
	// MediaCDN is the broader asset CDN, ranked second when the URL also
	// carries one of MediaCDNSignatures.
	MediaCDN           string
	MediaCDNSignatures []string
	// StaticMarkers flag non-content assets (logos, icons, UI chrome).
	StaticMarkers []string
	// MediaKeys are the JSON object keys whose values may carry image URLs.
	MediaKeys []string
	// URLListKey names the list-valued URL field nested in media objects.
	URLListKey string
	// CoverKeys are the raw-text cover field names scanned outside JSON parsing.
	CoverKeys []string
	// StateGlobals are the window.* assignments holding client state blobs.
	StateGlobals []string
}

// Douyin is the table for m.douyin.com share pages.
var Douyin = Platform{
	DomainToken:        "douyin",
	Hosts:              []string{"douyin", "byteimg", "pstatp", "douyinpic"},
	ImageExtensions:    []string{"jpg", "jpeg", "png", "webp", "bmp", "heic"},
	ImageCDN:           "douyinpic.com",
	MediaCDN:           "byteimg.com",
	MediaCDNSignatures: []string{"tos-cn-i", "img-cn-i", "p3-sign", "p9-sign"},
	StaticMarkers:      []string{"logo", "favicon", "icon", "static", "eden-cn"},
	MediaKeys:          []string{"url_list", "cover", "origin_cover", "dynamic_cover", "poster", "download_addr", "play_addr"},
	URLListKey:         "url_list",
	CoverKeys:          []string{"origin_cover", "cover", "dynamic_cover"},
	StateGlobals:       []string{"_ROUTER_DATA", "RENDER_DATA", "_SIGI_STATE", "_MODERNJS_ROUTE_MANIFEST"},
}

// InScope reports whether a request URL should be fetched.
func (p Platform) InScope(requestURL string) bool {
	return p.DomainToken != "" && strings.Contains(requestURL, p.DomainToken)
}

func (p Platform) isPlatformURL(s string) bool {
	return containsAny(s, p.Hosts)
}
