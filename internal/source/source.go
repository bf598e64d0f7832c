// Package source maps IMDB identifiers to third-party embed page URLs
// for a fixed set of known providers.
package source

import (
	"fmt"
	"regexp"
	"sort"
)

// Default is the provider used when none (or an unknown one) is requested.
const Default = "vidsrc.me"

// imdbIDPattern matches IMDB title identifiers, e.g. "tt1234567".
var imdbIDPattern = regexp.MustCompile(`^tt\d+$`)

// embedTemplates maps provider names to embed URL templates.
// %s is replaced with the IMDB identifier.
var embedTemplates = map[string]string{
	"vidsrc.me":    "https://vidsrc.me/embed/movie?imdb=%s",
	"vidsrc.to":    "https://vidsrc.to/embed/movie/%s",
	"embed.su":     "https://embed.su/embed/movie/%s",
	"2embed.cc":    "https://www.2embed.cc/embed/%s",
	"smashystream": "https://player.smashy.stream/movie/%s",
}

// ValidateIMDBID checks that id is a well-formed IMDB title identifier.
func ValidateIMDBID(id string) error {
	if !imdbIDPattern.MatchString(id) {
		return fmt.Errorf("invalid IMDB ID format %q (expected like tt1234567)", id)
	}
	return nil
}

// IsKnown reports whether name is a recognized embed provider.
func IsKnown(name string) bool {
	_, ok := embedTemplates[name]
	return ok
}

// Names returns the known provider names in sorted order.
func Names() []string {
	names := make([]string, 0, len(embedTemplates))
	for name := range embedTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EmbedURL builds the embed page URL for the given provider and IMDB ID.
// Unknown or empty provider names fall back to the default provider.
func EmbedURL(name, imdbID string) string {
	tmpl, ok := embedTemplates[name]
	if !ok {
		tmpl = embedTemplates[Default]
	}
	return fmt.Sprintf(tmpl, imdbID)
}

// IMDBURL returns the canonical IMDB title page URL for an identifier.
func IMDBURL(imdbID string) string {
	return fmt.Sprintf("https://www.imdb.com/title/%s/", imdbID)
}
