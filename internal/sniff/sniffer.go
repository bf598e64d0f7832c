package sniff

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"lonelymovie/internal/media"
)

// noStreamMessage is the diagnostic attached to an exhausted extraction.
const noStreamMessage = "no stream detected after retries"

// Request identifies one extraction job.
type Request struct {
	EmbedURL string
	Source   string
	MediaID  string
}

// Options configures a Sniffer.
type Options struct {
	MaxRetries        int
	NavigationTimeout time.Duration
	PostTriggerWait   time.Duration
	SettleWait        time.Duration
	RetryDelay        time.Duration
	Headless          bool
	ScratchDir        string

	Rules     RuleSet
	Weights   Weights
	Disguises DisguiseProvider
}

// withDefaults fills unset option fields.
func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = 2
	}
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = 20 * time.Second
	}
	if o.PostTriggerWait <= 0 {
		o.PostTriggerWait = 8 * time.Second
	}
	if o.SettleWait <= 0 {
		o.SettleWait = 5 * time.Second
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 2 * time.Second
	}
	if o.ScratchDir == "" {
		o.ScratchDir = os.TempDir()
	}
	if len(o.Rules.Accept) == 0 && len(o.Rules.Reject) == 0 {
		o.Rules = DefaultRules()
	}
	if o.Weights.M3U8Base == 0 && o.Weights.MP4Base == 0 {
		o.Weights = DefaultWeights()
	}
	if o.Disguises == nil {
		o.Disguises = NewRandomDisguise(1920, 1080, "en-US", "America/New_York")
	}
	return o
}

// state tracks the retry orchestrator's position.
type state int

const (
	stateIdle state = iota
	stateAttempting
	stateSucceeded
	stateExhausted
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAttempting:
		return "attempting"
	case stateSucceeded:
		return "succeeded"
	case stateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// attemptRunner executes one browser attempt and returns the raw captured
// URLs. A non-empty diagnostic carries a recovered per-attempt failure
// (navigation timeout, capture parse error); a non-nil error is an
// unexpected failure that aborts the whole extraction.
type attemptRunner interface {
	runAttempt(ctx context.Context, req Request, attempt int) (urls []string, diagnostic string, err error)
}

// Sniffer runs bounded extraction attempts against an embed page and
// selects the best captured stream URL.
type Sniffer struct {
	opts Options
	run  attemptRunner
}

// New creates a Sniffer backed by a real headless browser.
func New(opts Options) *Sniffer {
	o := opts.withDefaults()
	return &Sniffer{opts: o, run: &browserRunner{opts: o}}
}

// Extract drives up to MaxRetries sequential browser attempts against the
// request's embed page and returns the best candidate stream. Per-attempt
// failures are absorbed as zero-candidate attempts; an extraction that
// never finds a stream is a valid result carrying a diagnostic message,
// not an error. Only truly unexpected failures (e.g. the browser cannot
// launch) return an error.
func (s *Sniffer) Extract(ctx context.Context, req Request) (*media.ExtractionResult, error) {
	st := stateIdle
	var winning []Candidate
	attempts := 0

	for attempt := 1; attempt <= s.opts.MaxRetries; attempt++ {
		st = stateAttempting
		attempts = attempt
		slog.Info("extraction attempt",
			"attempt", attempt,
			"max_retries", s.opts.MaxRetries,
			"media_id", req.MediaID,
			"source", req.Source,
		)

		urls, diagnostic, err := s.run.runAttempt(ctx, req, attempt)
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %w", attempt, err)
		}
		if diagnostic != "" {
			slog.Warn("attempt degraded", "attempt", attempt, "diagnostic", diagnostic)
		}

		candidates := Rank(urls, s.opts.Rules, s.opts.Weights)
		slog.Debug("attempt finished",
			"attempt", attempt,
			"captured", len(urls),
			"candidates", len(candidates),
		)

		if len(candidates) > 0 {
			winning = candidates
			st = stateSucceeded
			break
		}

		if attempt == s.opts.MaxRetries {
			st = stateExhausted
			break
		}

		// Back-off against transient load or blocking before retrying.
		select {
		case <-time.After(s.opts.RetryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	slog.Info("extraction finished", "state", st.String(), "attempts", attempts, "media_id", req.MediaID)

	if st == stateExhausted {
		return &media.ExtractionResult{
			Source:       req.Source,
			Alternatives: []string{},
			Message:      noStreamMessage,
			Attempts:     attempts,
		}, nil
	}

	result := selectResult(winning, req.Source)
	result.Attempts = attempts
	return result, nil
}

// selectResult packages ranked candidates: the top entry becomes the
// primary stream, the next two become alternatives.
func selectResult(candidates []Candidate, source string) *media.ExtractionResult {
	best := candidates[0]

	alternatives := []string{}
	for _, c := range candidates[1:] {
		if len(alternatives) == 2 {
			break
		}
		alternatives = append(alternatives, c.URL)
	}

	streamType := "mp4"
	if best.Format == FormatM3U8 {
		streamType = "m3u8"
	}

	url := best.URL
	return &media.ExtractionResult{
		StreamURL:    &url,
		Type:         &streamType,
		Source:       source,
		Alternatives: alternatives,
	}
}

// browserRunner is the real attemptRunner: one isolated browser session,
// passive traffic capture to an attempt-scoped log, playback triggering,
// settle waits, then log parse and removal.
type browserRunner struct {
	opts Options
}

func (r *browserRunner) runAttempt(ctx context.Context, req Request, attempt int) ([]string, string, error) {
	disguise := r.opts.Disguises.Disguise(attempt)
	logPath := captureLogPath(r.opts.ScratchDir, req.MediaID, attempt)

	capture, err := newCaptureLog(logPath)
	if err != nil {
		return nil, "", err
	}

	sess, err := newSession(ctx, disguise, r.opts)
	if err != nil {
		// Failing to spawn a browser at all is not a page problem;
		// surface it instead of burning the remaining retries.
		capture.Close()
		removeCaptureLog(logPath)
		return nil, "", err
	}

	diagnostic := r.drive(sess, req, attempt, disguise, capture)

	if err := capture.Close(); err != nil {
		slog.Warn("closing capture log failed", "error", err)
	}

	requests, parseErr := parseCaptureLog(logPath)
	removeCaptureLog(logPath)
	if parseErr != nil {
		// A broken log downgrades to a zero-capture attempt.
		return nil, parseErr.Error(), nil
	}

	urls := make([]string, len(requests))
	for i, cr := range requests {
		urls[i] = cr.URL
	}
	return urls, diagnostic, nil
}

// drive runs the browser portion of one attempt. Navigation and
// interaction failures are absorbed and reported as a diagnostic. The
// session is torn down on every exit path before the capture log is
// parsed.
func (r *browserRunner) drive(sess *session, req Request, attempt int, disguise Disguise, capture *captureLog) string {
	defer sess.Close()

	chromedp.ListenTarget(sess.ctx, func(ev any) {
		if e, ok := ev.(*network.EventRequestWillBeSent); ok {
			capture.Record(e.Request.URL, attempt)
		}
	})

	if err := sess.navigate(req.EmbedURL, disguise, r.opts.NavigationTimeout); err != nil {
		// Whatever was captured before the failure still counts.
		return fmt.Sprintf("navigation: %v", err)
	}

	sess.wait(pageSettleDelay)

	if sess.triggerPlayback(disguise) {
		sess.wait(r.opts.PostTriggerWait)
		sess.wait(r.opts.SettleWait)
	} else {
		// Some pages autoplay; wait the full window regardless.
		sess.wait(r.opts.PostTriggerWait + r.opts.SettleWait)
	}

	return ""
}
