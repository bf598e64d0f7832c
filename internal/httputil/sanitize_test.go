package httputil

import "testing"

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https", "https://vidsrc.me/embed/movie?imdb=tt1234567", false},
		{"valid https with path", "https://www.imdb.com/title/tt0111161/", false},
		{"http rejected", "http://example.com", true},
		{"javascript scheme", "javascript:alert(1)", true},
		{"data scheme", "data:text/html,<script>", true},
		{"no host", "https://", true},
		{"garbage", "::not a url::", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"tt1234567", "tt1234567"},
		{"../../etc/passwd", "passwd"},
		{"file:name*bad?.log", "file_name_bad_.log"},
		{"", "untitled"},
		{".", "untitled"},
		// ".." hits the replacer before the dot-name fallback.
		{"..", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
