package task

import "strings"

// Locale selects category labels and UI wording.
type Locale string

const (
	// LocalePT matches the labels the reference service accepts.
	LocalePT Locale = "pt"
	// LocaleEN uses English labels.
	LocaleEN Locale = "en"

	DefaultLocale = LocalePT
)

var categories = map[Locale][]string{
	LocalePT: {"Trabalho", "Pessoal", "Casa", "Saúde", "Finanças"},
	LocaleEN: {"Work", "Personal", "Home", "Health", "Finance"},
}

// ParseLocale normalizes a locale name. Unknown names fall back to DefaultLocale.
func ParseLocale(s string) (Locale, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pt", "pt-br", "pt_br", "portuguese":
		return LocalePT, true
	case "en", "en-us", "en_us", "english":
		return LocaleEN, true
	}
	return DefaultLocale, false
}

// Categories returns the ordered category labels for the locale.
func (l Locale) Categories() []string {
	cats, ok := categories[l]
	if !ok {
		cats = categories[DefaultLocale]
	}
	out := make([]string, len(cats))
	copy(out, cats)
	return out
}

// HasCategory reports whether name is one of the locale's categories.
func (l Locale) HasCategory(name string) bool {
	for _, c := range l.Categories() {
		if c == name {
			return true
		}
	}
	return false
}

// CategoryIndex returns the position of name in the category list, or -1.
func (l Locale) CategoryIndex(name string) int {
	for i, c := range l.Categories() {
		if c == name {
			return i
		}
	}
	return -1
}
