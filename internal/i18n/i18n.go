// Package i18n provides static translations for user facing strings.
// Turkish is the primary locale, English is the fallback.
package i18n

// DefaultLanguage is used when no language preference is stored.
const DefaultLanguage = "tr"

var locales = map[string]map[string]string{
	"tr": tr,
	"en": en,
}

// T returns the translation of key in lang. Unknown languages fall back
// to English, unknown keys return the key itself.
func T(lang, key string) string {
	m, ok := locales[lang]
	if !ok {
		m = en
	}
	if s, ok := m[key]; ok {
		return s
	}
	if s, ok := en[key]; ok {
		return s
	}
	return key
}

// Supported reports whether lang has a locale table.
func Supported(lang string) bool {
	_, ok := locales[lang]
	return ok
}
