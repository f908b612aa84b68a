package words

import "strings"

// FilterFunc reports whether a word belongs in a loaded list.
type FilterFunc func(string) bool

// FilterForLang picks the cleanup rule applied while loading a language's
// word list. Languages without a dedicated rule keep every word.
func FilterForLang(lang string) FilterFunc {
	if strings.EqualFold(lang, DefaultLanguage) {
		return isLowerASCIIWord
	}
	return func(string) bool { return true }
}

// isLowerASCIIWord accepts words made only of a-z. Non-letter tokens come
// from the modifier sets, never from the base english list.
func isLowerASCIIWord(word string) bool {
	if word == "" {
		return false
	}
	return strings.IndexFunc(word, func(r rune) bool {
		return r < 'a' || r > 'z'
	}) < 0
}
