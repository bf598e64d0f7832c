package sniff

import (
	"sort"
	"strings"
)

// Format tags the container format inferred from a URL.
type Format string

const (
	FormatM3U8  Format = "m3u8"
	FormatMP4   Format = "mp4"
	FormatMKV   Format = "mkv"
	FormatWebM  Format = "webm"
	FormatTS    Format = "ts"
	FormatOther Format = "other"
)

// FormatOf infers the container format from a URL.
func FormatOf(rawURL string) Format {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, ".m3u8"):
		return FormatM3U8
	case strings.Contains(lower, ".mp4"):
		return FormatMP4
	case strings.Contains(lower, ".mkv"):
		return FormatMKV
	case strings.Contains(lower, ".webm"):
		return FormatWebM
	case strings.Contains(lower, ".ts"):
		return FormatTS
	default:
		return FormatOther
	}
}

// Candidate is a captured URL that survived classification.
type Candidate struct {
	URL    string
	Score  int
	Format Format
}

// Weights holds the scoring constants for ranking stream URL candidates.
// These are tuning heuristics, not hard requirements; only the relative
// ordering matters.
type Weights struct {
	M3U8Base      int
	ManifestBonus int // master/playlist manifest indicator
	M3U8Res1080   int
	M3U8Res720    int
	M3U8Res480    int

	MP4Base    int
	MP4Res1080 int
	MP4Res720  int

	MKVBase  int
	WebMBase int
	TSBase   int

	CDNBonus     int
	CDNHosts     []string
	LongURLBonus int
	LongURLLen   int
}

// DefaultWeights returns the built-in scoring constants.
func DefaultWeights() Weights {
	return Weights{
		M3U8Base:      100,
		ManifestBonus: 50,
		M3U8Res1080:   30,
		M3U8Res720:    20,
		M3U8Res480:    10,

		MP4Base:    80,
		MP4Res1080: 25,
		MP4Res720:  15,

		MKVBase:  70,
		WebMBase: 60,
		TSBase:   40, // transport stream segments rank lowest

		CDNBonus:     20,
		CDNHosts:     []string{"cloudflare", "akamai", "fastly", "bunny", "cloudfront"},
		LongURLBonus: 10,
		LongURLLen:   100,
	}
}

// Score assigns a quality score to a URL (higher = better). It is a pure
// function of the URL string: no randomness, no ordering dependence.
func (w Weights) Score(rawURL string) int {
	score := 0
	lower := strings.ToLower(rawURL)

	switch FormatOf(rawURL) {
	case FormatM3U8:
		score += w.M3U8Base
		if strings.Contains(lower, "master") || strings.Contains(lower, "playlist") {
			score += w.ManifestBonus
		}
		// Resolution tiers are mutually exclusive; highest wins.
		switch {
		case strings.Contains(lower, "1080") || strings.Contains(lower, "fhd"):
			score += w.M3U8Res1080
		case strings.Contains(lower, "720") || strings.Contains(lower, "hd"):
			score += w.M3U8Res720
		case strings.Contains(lower, "480"):
			score += w.M3U8Res480
		}

	case FormatMP4:
		score += w.MP4Base
		switch {
		case strings.Contains(lower, "1080"):
			score += w.MP4Res1080
		case strings.Contains(lower, "720"):
			score += w.MP4Res720
		}

	case FormatMKV:
		score += w.MKVBase
	case FormatWebM:
		score += w.WebMBase
	case FormatTS:
		score += w.TSBase
	}

	for _, host := range w.CDNHosts {
		if strings.Contains(lower, host) {
			score += w.CDNBonus
			break
		}
	}

	// Proper media URLs tend to carry long signed tokens; short URLs
	// are more likely placeholders.
	if len(rawURL) > w.LongURLLen {
		score += w.LongURLBonus
	}

	return score
}

// Rank deduplicates the raw captured URLs, classifies them against rules,
// scores the survivors, and returns them ordered best-first. The sort is
// stable so ties keep first-seen order.
func Rank(urls []string, rules RuleSet, weights Weights) []Candidate {
	seen := make(map[string]struct{}, len(urls))
	var candidates []Candidate

	for _, u := range urls {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}

		if !rules.Match(u) {
			continue
		}
		candidates = append(candidates, Candidate{
			URL:    u,
			Score:  weights.Score(u),
			Format: FormatOf(u),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}
