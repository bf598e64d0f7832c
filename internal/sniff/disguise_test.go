package sniff

import (
	"slices"
	"sync"
	"testing"
)

func TestFixedDisguise(t *testing.T) {
	want := Disguise{
		UserAgent:      "test-agent",
		ViewportWidth:  800,
		ViewportHeight: 600,
		Locale:         "en-US",
		Timezone:       "UTC",
	}
	p := FixedDisguise{D: want}

	for attempt := 1; attempt <= 3; attempt++ {
		if got := p.Disguise(attempt); got != want {
			t.Errorf("attempt %d: got %+v, want %+v", attempt, got, want)
		}
	}
}

func TestRandomDisguiseBounds(t *testing.T) {
	p := NewRandomDisguise(1920, 1080, "en-US", "America/New_York")

	for attempt := 1; attempt <= 50; attempt++ {
		d := p.Disguise(attempt)

		if !slices.Contains(defaultUserAgents, d.UserAgent) {
			t.Fatalf("user agent %q not from the known list", d.UserAgent)
		}
		if d.ViewportWidth < 1920 || d.ViewportWidth > 1920+viewportJitter {
			t.Fatalf("viewport width %d out of jitter range", d.ViewportWidth)
		}
		if d.ViewportHeight < 1080 || d.ViewportHeight > 1080+viewportJitter {
			t.Fatalf("viewport height %d out of jitter range", d.ViewportHeight)
		}
		if d.Locale != "en-US" || d.Timezone != "America/New_York" {
			t.Fatalf("locale/timezone not carried through: %+v", d)
		}
	}
}

// The server shares one provider across concurrent extraction requests,
// so Disguise must hold up under parallel callers (run with -race).
func TestRandomDisguiseConcurrent(t *testing.T) {
	p := NewRandomDisguise(1920, 1080, "en-US", "America/New_York")

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for attempt := 1; attempt <= 100; attempt++ {
				d := p.Disguise(attempt)
				if !slices.Contains(defaultUserAgents, d.UserAgent) {
					t.Errorf("user agent %q not from the known list", d.UserAgent)
					return
				}
				if d.ViewportWidth < 1920 || d.ViewportWidth > 1920+viewportJitter {
					t.Errorf("viewport width %d out of jitter range", d.ViewportWidth)
					return
				}
			}
		}()
	}
	wg.Wait()
}
