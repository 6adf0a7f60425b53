package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reMultiSpace = regexp.MustCompile(`\s+`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func collapseWhitespace(s string) string {
	return reMultiSpace.ReplaceAllString(s, " ")
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeDisplayText normalizes free-text fields shown back to users
// (room names, addresses, descriptions, amenities).
func SanitizeDisplayText(input string) string {
	p := Pipeline{
		stripControl,
		collapseWhitespace,
		trim,
	}
	return p.Apply(input)
}

// SanitizeEmail lowercases and trims an email address for storage and
// lookup. Format validation happens separately.
func SanitizeEmail(input string) string {
	p := Pipeline{
		trim,
		strings.ToLower,
	}
	return p.Apply(input)
}
