package sniff

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// stubRunner replays canned per-attempt captures without a browser.
type stubRunner struct {
	attempts [][]string // captured URLs per attempt, cycled from index 0
	diags    []string
	err      error
	calls    int
}

func (s *stubRunner) runAttempt(ctx context.Context, req Request, attempt int) ([]string, string, error) {
	s.calls++
	if s.err != nil {
		return nil, "", s.err
	}
	var urls []string
	if attempt-1 < len(s.attempts) {
		urls = s.attempts[attempt-1]
	}
	var diag string
	if attempt-1 < len(s.diags) {
		diag = s.diags[attempt-1]
	}
	return urls, diag, nil
}

func testSniffer(t *testing.T, run attemptRunner, maxRetries int) *Sniffer {
	t.Helper()
	opts := Options{
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
		ScratchDir: t.TempDir(),
		Disguises:  FixedDisguise{D: Disguise{UserAgent: "test", ViewportWidth: 800, ViewportHeight: 600}},
	}.withDefaults()
	return &Sniffer{opts: opts, run: run}
}

func testRequest() Request {
	return Request{
		EmbedURL: "https://vidsrc.me/embed/movie?imdb=tt1234567",
		Source:   "vidsrc.me",
		MediaID:  "tt1234567",
	}
}

// A runner that never captures anything must be called exactly maxRetries
// times and end exhausted.
func TestExtractRetryBound(t *testing.T) {
	stub := &stubRunner{}
	s := testSniffer(t, stub, 3)

	result, err := s.Extract(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if stub.calls != 3 {
		t.Errorf("runner called %d times, want 3", stub.calls)
	}
	if result.Found() {
		t.Error("result should carry no stream")
	}
	if result.Type != nil {
		t.Error("type should be nil when no stream was found")
	}
	if len(result.Alternatives) != 0 {
		t.Errorf("alternatives = %v, want empty", result.Alternatives)
	}
	if result.Message != "no stream detected after retries" {
		t.Errorf("message = %q, want the exhaustion diagnostic", result.Message)
	}
	if result.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", result.Attempts)
	}
}

// A hit on the first attempt must short-circuit the loop.
func TestExtractEarlyTermination(t *testing.T) {
	stub := &stubRunner{attempts: [][]string{
		{"https://cdn.example.com/master.m3u8"},
	}}
	s := testSniffer(t, stub, 3)

	result, err := s.Extract(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if stub.calls != 1 {
		t.Errorf("runner called %d times, want 1", stub.calls)
	}
	if !result.Found() {
		t.Fatal("expected a stream")
	}
	if *result.StreamURL != "https://cdn.example.com/master.m3u8" {
		t.Errorf("stream = %q", *result.StreamURL)
	}
	if result.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", result.Attempts)
	}
}

// Only the winning attempt's captures feed the result; earlier attempts
// contribute nothing.
func TestExtractUsesWinningAttemptOnly(t *testing.T) {
	stub := &stubRunner{attempts: [][]string{
		{"https://x.com/junk.js"}, // classifies to zero candidates
		{"https://x.com/video_720.mp4"},
	}}
	s := testSniffer(t, stub, 2)

	result, err := s.Extract(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if stub.calls != 2 {
		t.Errorf("runner called %d times, want 2", stub.calls)
	}
	if !result.Found() || *result.StreamURL != "https://x.com/video_720.mp4" {
		t.Fatalf("result = %+v, want the second attempt's mp4", result)
	}
	if len(result.Alternatives) != 0 {
		t.Errorf("alternatives = %v, want empty", result.Alternatives)
	}
}

// Junk plus a long CDN-hosted master playlist: the playlist wins and the
// junk never appears.
func TestExtractScenarioPlaylistBeatsJunk(t *testing.T) {
	playlist := "https://cdn.akamai.net/playlist/master.m3u8?tok=" + strings.Repeat("a", 80)
	stub := &stubRunner{attempts: [][]string{
		{"https://cdn.example.com/x.js", playlist},
	}}
	s := testSniffer(t, stub, 2)

	result, err := s.Extract(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !result.Found() || *result.StreamURL != playlist {
		t.Fatalf("stream = %v, want the playlist", result.StreamURL)
	}
	if *result.Type != "m3u8" {
		t.Errorf("type = %q, want m3u8", *result.Type)
	}
	if len(result.Alternatives) != 0 {
		t.Errorf("alternatives = %v, want empty", result.Alternatives)
	}
	if result.Message != "" {
		t.Errorf("message = %q, want empty on success", result.Message)
	}
}

// Two progressive streams: the higher resolution becomes primary, the
// other the sole alternative.
func TestExtractScenarioResolutionPreference(t *testing.T) {
	stub := &stubRunner{attempts: [][]string{
		{"https://x.com/video_720.mp4", "https://x.com/video_480.mp4"},
	}}
	s := testSniffer(t, stub, 2)

	result, err := s.Extract(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !result.Found() || *result.StreamURL != "https://x.com/video_720.mp4" {
		t.Fatalf("stream = %v, want the 720p mp4", result.StreamURL)
	}
	if *result.Type != "mp4" {
		t.Errorf("type = %q, want mp4", *result.Type)
	}
	want := []string{"https://x.com/video_480.mp4"}
	if len(result.Alternatives) != 1 || result.Alternatives[0] != want[0] {
		t.Errorf("alternatives = %v, want %v", result.Alternatives, want)
	}
}

func TestExtractAlternativesCapped(t *testing.T) {
	stub := &stubRunner{attempts: [][]string{{
		"https://x.com/master.m3u8",
		"https://x.com/a.mp4",
		"https://x.com/b.mkv",
		"https://x.com/c.webm",
		"https://x.com/d.ts",
	}}}
	s := testSniffer(t, stub, 1)

	result, err := s.Extract(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Alternatives) != 2 {
		t.Errorf("alternatives = %v, want exactly 2", result.Alternatives)
	}
}

// Unexpected failures abort the extraction instead of masquerading as
// "no stream found".
func TestExtractUnexpectedFailure(t *testing.T) {
	boom := errors.New("browser executable not found")
	stub := &stubRunner{err: boom}
	s := testSniffer(t, stub, 3)

	_, err := s.Extract(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error %v should wrap the runner failure", err)
	}
	if stub.calls != 1 {
		t.Errorf("runner called %d times, want 1", stub.calls)
	}
}

func TestExtractContextCancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubRunner{}
	s := testSniffer(t, stub, 3)

	_, err := s.Extract(ctx, testRequest())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// Recovered per-attempt diagnostics must not fail the extraction.
func TestExtractDiagnosticAbsorbed(t *testing.T) {
	stub := &stubRunner{
		attempts: [][]string{nil, {"https://x.com/v.mp4"}},
		diags:    []string{"parsing capture log line 3: unexpected end of JSON input"},
	}
	s := testSniffer(t, stub, 2)

	result, err := s.Extract(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !result.Found() {
		t.Fatal("expected the second attempt to succeed")
	}
}

func TestWithDefaults(t *testing.T) {
	o := Options{}.withDefaults()

	if o.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", o.MaxRetries)
	}
	if o.NavigationTimeout != 20*time.Second {
		t.Errorf("NavigationTimeout = %v, want 20s", o.NavigationTimeout)
	}
	if len(o.Rules.Accept) == 0 {
		t.Error("Rules should default")
	}
	if o.Weights.M3U8Base == 0 {
		t.Error("Weights should default")
	}
	if o.Disguises == nil {
		t.Error("Disguises should default")
	}
	if o.ScratchDir == "" {
		t.Error("ScratchDir should default to the temp dir")
	}
}
