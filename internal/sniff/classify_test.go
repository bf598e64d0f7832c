package sniff

import "testing"

func TestRuleSetMatch(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"m3u8 accepted", "https://cdn.example.com/stream/master.m3u8", true},
		{"mp4 accepted", "https://cdn.example.com/video_720.mp4", true},
		{"mkv accepted", "https://cdn.example.com/movie.mkv", true},
		{"webm accepted", "https://cdn.example.com/movie.webm", true},
		{"ts segment accepted", "https://cdn.example.com/seg/0001.ts", true},
		{"uppercase extension accepted", "https://cdn.example.com/MASTER.M3U8", true},

		{"script rejected", "https://cdn.example.com/player.js", false},
		{"stylesheet rejected", "https://cdn.example.com/style.css", false},
		{"font rejected", "https://cdn.example.com/font.woff", false},
		{"icon rejected", "https://cdn.example.com/favicon.ico", false},
		{"blob rejected", "blob:https://embed.example/3c1a", false},
		{"data rejected", "data:video/mp4;base64,AAAA", false},
		{"api path rejected", "https://embed.example/api/source/123.mp4", false},
		{"analytics rejected", "https://x.com/analytics/video.m3u8", false},
		{"tracker domain rejected", "https://www.google.com/stream.m3u8", false},
		{"no media marker rejected", "https://cdn.example.com/page.html", false},
		{"empty rejected", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.Match(tt.url); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

// Rejection markers dominate: a URL carrying both a media marker and a
// rejection marker is always rejected.
func TestRejectionDominates(t *testing.T) {
	rules := DefaultRules()

	urls := []string{
		"https://cdn.example.com/master.m3u8.js",
		"https://cdn.example.com/player.js?src=video.mp4",
		"blob:https://embed.example/video.m3u8",
		"javascript:play('x.mp4')",
	}

	for _, u := range urls {
		if rules.Match(u) {
			t.Errorf("Match(%q) = true, want false (rejection must win)", u)
		}
	}
}

func TestCustomRules(t *testing.T) {
	rules := RuleSet{
		Reject: []string{"/ads/"},
		Accept: []string{".m3u8"},
	}

	if !rules.Match("https://x.com/stream.m3u8") {
		t.Error("custom accept pattern should match")
	}
	if rules.Match("https://x.com/ads/stream.m3u8") {
		t.Error("custom reject pattern should win")
	}
	if rules.Match("https://x.com/video.mp4") {
		t.Error("mp4 is not in the custom accept table")
	}
}
