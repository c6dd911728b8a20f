package templates

import (
	sharedi18n "github.com/millfloor/chipline/internal/services/shared/i18nhttp"
	"golang.org/x/text/language"
)

// LanguageOption represents a supported language option in the UI.
type LanguageOption = sharedi18n.LanguageOption

type languageLink struct {
	URL    string
	Label  string
	Active bool
}

// LanguageOptions returns supported language options with active selection.
func LanguageOptions(lang string, loc Localizer) []LanguageOption {
	return sharedi18n.BuildLanguageOptions(sharedi18n.Supported(), lang, func(tag language.Tag) string {
		return T(loc, sharedi18n.LanguageKeyLabel(tag))
	})
}

func languageLinks(opts LayoutOptions) []languageLink {
	options := LanguageOptions(opts.Lang, opts.Loc)
	links := make([]languageLink, 0, len(options))
	for _, option := range options {
		links = append(links, languageLink{
			URL:    sharedi18n.LanguageURL(opts.CurrentPath, opts.CurrentQuery, option.Tag),
			Label:  option.Label,
			Active: option.Active,
		})
	}
	return links
}
