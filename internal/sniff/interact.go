package sniff

import (
	"context"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// playSelectors are playback-trigger candidates tried in order: explicit
// play-button classes first, generic "looks like a play control" patterns
// last, then the bare video element.
var playSelectors = []string{
	"button.vjs-big-play-button",
	".vjs-big-play-button",
	`button[aria-label*="Play" i]`,
	`button[aria-label*="play" i]`,
	".plyr__control--overlaid",
	"button.play-button",
	"button.play",
	".play-overlay",
	`[class*="play"][class*="button"]`,
	"video",
}

// clickTimeout bounds each individual trigger attempt.
const clickTimeout = 2 * time.Second

// pageSettleDelay gives the page a moment to finish rendering its player
// before any trigger is attempted.
const pageSettleDelay = 3 * time.Second

// triggerPlayback walks the trigger selectors, clicking the first that
// responds; if none do, it falls back to a single blind click at the
// viewport center. Reports whether any trigger fired; a false return is
// not a failure, since some pages autoplay without a click.
func (s *session) triggerPlayback(d Disguise) bool {
	for _, sel := range playSelectors {
		clickCtx, cancel := context.WithTimeout(s.ctx, clickTimeout)
		err := chromedp.Run(clickCtx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible))
		cancel()

		if err == nil {
			slog.Debug("play trigger clicked", "selector", sel)
			return true
		}
	}

	// Blind click at the viewport center.
	clickCtx, cancel := context.WithTimeout(s.ctx, clickTimeout)
	defer cancel()

	x := float64(d.ViewportWidth) / 2
	y := float64(d.ViewportHeight) / 2
	if err := chromedp.Run(clickCtx, chromedp.MouseClickXY(x, y, chromedp.ButtonLeft)); err != nil {
		slog.Debug("blind center click failed", "error", err)
		return false
	}

	slog.Debug("blind center click fired", "x", x, "y", y)
	return true
}
