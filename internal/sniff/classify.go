// Package sniff locates playable stream URLs hidden inside third-party
// embed pages by driving a headless browser session, capturing the network
// traffic the page generates, and ranking the observed URLs.
package sniff

import "strings"

// RuleSet holds the substring tables used to classify captured URLs.
// A URL is accepted only when it matches none of the Reject entries and
// at least one of the Accept entries. The two-pass screen exists because
// embed pages emit large volumes of unrelated traffic (analytics, fonts,
// ads) that would otherwise pollute ranking.
type RuleSet struct {
	Reject []string
	Accept []string
}

// DefaultRules returns the built-in classification tables.
func DefaultRules() RuleSet {
	return RuleSet{
		Reject: []string{
			// Non-network schemes
			"blob:", "data:", "chrome-extension:", "about:", "javascript:",
			// Static assets
			".js", ".css", ".json", ".xml",
			".woff", ".ttf", ".svg", ".ico",
			// API/tracking endpoints and known trackers
			"/api/", "/track", "/log", "/analytics",
			"google", "facebook", "tracker",
		},
		Accept: []string{".m3u8", ".mp4", ".mkv", ".webm", ".ts"},
	}
}

// Match reports whether rawURL classifies as a plausible stream URL.
// Checks are case-insensitive; rejection always wins over acceptance.
func (r RuleSet) Match(rawURL string) bool {
	lower := strings.ToLower(rawURL)

	for _, pattern := range r.Reject {
		if strings.Contains(lower, pattern) {
			return false
		}
	}

	for _, pattern := range r.Accept {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return false
}
