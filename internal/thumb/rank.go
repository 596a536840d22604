package thumb

import "strings"

// Rank picks the best thumbnail from a filtered candidate list. Each tier
// returns its last match: pages list higher-resolution variants later.
// It returns "" when urls is empty.
func Rank(urls []string, p Platform) string {
	if len(urls) == 0 {
		return ""
	}
	tiers := []func(string) bool{
		func(u string) bool {
			return p.ImageCDN != "" && strings.Contains(hostOf(u), p.ImageCDN)
		},
		func(u string) bool {
			return p.MediaCDN != "" && strings.Contains(hostOf(u), p.MediaCDN) && containsAny(u, p.MediaCDNSignatures)
		},
		func(u string) bool {
			return !containsAny(u, p.StaticMarkers)
		},
	}
	for _, match := range tiers {
		if u, ok := lastMatch(urls, match); ok {
			return u
		}
	}
	return urls[len(urls)-1]
}

func lastMatch(urls []string, match func(string) bool) (string, bool) {
	for i := len(urls) - 1; i >= 0; i-- {
		if match(urls[i]) {
			return urls[i], true
		}
	}
	return "", false
}
