package domain

type Locale string

const (
	LocaleUA Locale = "ua"
	LocaleEN Locale = "en"
	LocaleRU Locale = "ru"
)

var Locales = []Locale{
	LocaleUA,
	LocaleEN,
	LocaleRU,
}

// LocalizedText maps a locale to its translation of one piece of text.
type LocalizedText map[Locale]string

// Get returns the text for the locale, falling back to English.
func (t LocalizedText) Get(locale Locale) string {
	if text, ok := t[locale]; ok {
		return text
	}
	return t[LocaleEN]
}
