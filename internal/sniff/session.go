package sniff

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// stealthScript hides the most common automation fingerprints before any
// page script runs.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3, 4, 5]});
Object.defineProperty(navigator, 'languages', {get: () => ['en-US', 'en']});
window.chrome = {runtime: {}};
`

// deadlineSlack is added to the attempt deadline on top of the configured
// navigation and settle windows, covering browser launch and teardown.
const deadlineSlack = 10 * time.Second

// session owns one isolated browser context for a single extraction
// attempt: launch, disguise, navigation and teardown.
type session struct {
	ctx context.Context

	timeoutCancel context.CancelFunc
	taskCancel    context.CancelFunc
	allocCancel   context.CancelFunc
}

// newSession launches an isolated browser context disguised with d. The
// returned session carries the attempt's overall deadline; callers must
// Close it on every exit path.
func newSession(parent context.Context, d Disguise, o Options) (*session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-web-security", true),
		chromedp.Flag("disable-features", "IsolateOrigins,site-per-process"),
		chromedp.UserAgent(d.UserAgent),
		chromedp.WindowSize(d.ViewportWidth, d.ViewportHeight),
	)
	if !o.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	deadline := o.NavigationTimeout + o.PostTriggerWait + o.SettleWait + deadlineSlack
	taskCtx, timeoutCancel := context.WithTimeout(taskCtx, deadline)

	s := &session{
		ctx:           taskCtx,
		timeoutCancel: timeoutCancel,
		taskCancel:    taskCancel,
		allocCancel:   allocCancel,
	}

	// Spawning the browser process can fail outright (missing binary,
	// resource exhaustion); surface that before any navigation.
	if err := chromedp.Run(taskCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return s, nil
}

// Close tears the session down. Safe to call multiple times.
func (s *session) Close() {
	s.timeoutCancel()
	s.taskCancel()
	s.allocCancel()
}

// navigate applies fingerprint overrides and loads the embed page,
// bounded by the navigation timeout.
func (s *session) navigate(url string, d Disguise, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	err := chromedp.Run(navCtx,
		network.Enable(),
		emulation.SetUserAgentOverride(d.UserAgent).WithAcceptLanguage(d.Locale),
		emulation.SetTimezoneOverride(d.Timezone),
		emulation.SetDeviceMetricsOverride(int64(d.ViewportWidth), int64(d.ViewportHeight), 1, false),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(url),
	)
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}

	slog.Debug("navigation completed", "url", url)
	return nil
}

// wait sleeps for d or until the session deadline expires.
func (s *session) wait(d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-s.ctx.Done():
	}
}
