package sniff

import (
	"math/rand"
	"sync"
)

// Disguise is the set of fingerprint-level browser properties overridden
// for one session to reduce automated-session detection.
type Disguise struct {
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	Timezone       string
}

// DisguiseProvider yields the disguise for a given attempt. Implementations
// may randomize per attempt; tests supply a fixed disguise.
type DisguiseProvider interface {
	Disguise(attempt int) Disguise
}

// defaultUserAgents are realistic desktop browser agent strings to
// rotate between attempts.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
}

// viewportJitter is the maximum pixels added to each viewport dimension.
const viewportJitter = 16

// RandomDisguise rotates the user agent and jitters the viewport on each
// attempt so consecutive sessions don't share an exact fingerprint.
// Safe for concurrent use; the HTTP server shares one provider across
// all extraction requests.
type RandomDisguise struct {
	UserAgents []string
	BaseWidth  int
	BaseHeight int
	Locale     string
	Timezone   string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDisguise creates a RandomDisguise seeded from the global source.
func NewRandomDisguise(width, height int, locale, timezone string) *RandomDisguise {
	return &RandomDisguise{
		UserAgents: defaultUserAgents,
		BaseWidth:  width,
		BaseHeight: height,
		Locale:     locale,
		Timezone:   timezone,
		rng:        rand.New(rand.NewSource(rand.Int63())),
	}
}

// Disguise returns a fresh randomized disguise.
func (d *RandomDisguise) Disguise(attempt int) Disguise {
	agents := d.UserAgents
	if len(agents) == 0 {
		agents = defaultUserAgents
	}

	// rand.Rand is not safe for concurrent use.
	d.mu.Lock()
	agent := agents[d.rng.Intn(len(agents))]
	widthJitter := d.rng.Intn(viewportJitter + 1)
	heightJitter := d.rng.Intn(viewportJitter + 1)
	d.mu.Unlock()

	return Disguise{
		UserAgent:      agent,
		ViewportWidth:  d.BaseWidth + widthJitter,
		ViewportHeight: d.BaseHeight + heightJitter,
		Locale:         d.Locale,
		Timezone:       d.Timezone,
	}
}

// FixedDisguise returns the same disguise for every attempt.
type FixedDisguise struct {
	D Disguise
}

func (f FixedDisguise) Disguise(attempt int) Disguise {
	return f.D
}
