package templates

import (
	"fmt"

	"golang.org/x/text/message"
)

// Localizer provides translated strings for wizard components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string or a key-derived fallback.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if keyString, ok := key.(string); ok {
		if len(args) > 0 {
			return fmt.Sprintf(keyString, args...)
		}
		return keyString
	}
	return ""
}

// pageText exposes translated lookups to embedded template files.
type pageText struct {
	loc Localizer
}

// T returns the translated string for key.
func (p pageText) T(key string) string {
	return T(p.loc, key)
}
