package sniff

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"lonelymovie/internal/httputil"
)

// CapturedRequest is one network request observed during a browser session.
type CapturedRequest struct {
	URL     string `json:"url"`
	Attempt int    `json:"attempt"`
}

// captureLogPath returns the deterministic, attempt-scoped log path for a
// media identifier.
func captureLogPath(scratchDir, mediaID string, attempt int) string {
	name := fmt.Sprintf("lonelymovie_requests_%s_%d.log", httputil.SanitizeFilename(mediaID), attempt)
	return filepath.Join(scratchDir, name)
}

// captureLog appends observed request URLs to an attempt-scoped file as
// JSON lines. Writes are passive observers of browser events and must
// never block or alter page behavior; write errors are swallowed and the
// log simply ends short.
type captureLog struct {
	mu  sync.Mutex
	f   *os.File
	buf *bufio.Writer
	enc *json.Encoder
}

func newCaptureLog(path string) (*captureLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("creating capture log %s: %w", path, err)
	}
	buf := bufio.NewWriter(f)
	return &captureLog{f: f, buf: buf, enc: json.NewEncoder(buf)}, nil
}

// Record appends one request to the log. Safe for concurrent use; no-op
// after Close.
func (c *captureLog) Record(url string, attempt int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.f == nil {
		return
	}
	if err := c.enc.Encode(CapturedRequest{URL: url, Attempt: attempt}); err != nil {
		slog.Debug("capture log write failed", "error", err)
	}
}

// Close flushes and closes the underlying file.
func (c *captureLog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.f == nil {
		return nil
	}
	flushErr := c.buf.Flush()
	closeErr := c.f.Close()
	c.f = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// parseCaptureLog reads an attempt's capture log into an ordered list of
// requests. The caller owns removal of the file regardless of outcome.
func parseCaptureLog(path string) ([]CapturedRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening capture log: %w", err)
	}
	defer f.Close()

	var requests []CapturedRequest
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var req CapturedRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("parsing capture log line %d: %w", line, err)
		}
		requests = append(requests, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading capture log: %w", err)
	}

	return requests, nil
}

// removeCaptureLog deletes an attempt's log file. Best effort; a capture
// log must never outlive its attempt.
func removeCaptureLog(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("removing capture log failed", "path", path, "error", err)
	}
}
