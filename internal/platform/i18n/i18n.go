// Package i18n defines the locale set supported across chipline services.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var supportedTags = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supportedTags)

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// SupportedTags returns the supported language tags in priority order.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// ParseTag parses value into a supported tag. It reports false when the value
// is blank, malformed, or does not match any supported language closely
// enough to be usable.
func ParseTag(value string) (language.Tag, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return language.Tag{}, false
	}
	parsed, err := language.Parse(trimmed)
	if err != nil {
		return language.Tag{}, false
	}
	if _, index, confidence := matcher.Match(parsed); confidence >= language.High {
		return supportedTags[index], true
	}
	return language.Tag{}, false
}

// MatchTags returns the best supported tag for the caller's ordered
// preferences, falling back to the default tag.
func MatchTags(preferred []language.Tag) language.Tag {
	if len(preferred) == 0 {
		return DefaultTag()
	}
	_, index, _ := matcher.Match(preferred...)
	return supportedTags[index]
}
