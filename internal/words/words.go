// Package words provides language word lists and modifier token sets.
package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrDictionaryUnavailable reports that no word list exists for a language.
// A session must not start when the generator surfaces this error.
var ErrDictionaryUnavailable = errors.New("dictionary unavailable")

// DefaultLanguage is always available through the embedded word list.
const DefaultLanguage = "english"

// Modifier token sets drawn from when the matching flag is enabled.
var (
	symbolSet      = []rune("@#$%&*()+-/=?<>^_`{|}~")
	punctuationSet = []rune(".,!?;:")
	numberSet      = []rune("0123456789")
)

// Library resolves language word lists from a directory of installed lists,
// falling back to the embedded default language.
type Library struct {
	dir   string
	cache map[string][]string
}

// NewLibrary builds a Library over the given word list directory. The
// directory may not exist yet; only the embedded list is available then.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir, cache: map[string][]string{}}
}

// Words returns the word list for a language. Installed files take
// precedence over the embedded default so users can override it.
func (l *Library) Words(lang string) ([]string, error) {
	if lang == "" {
		return nil, fmt.Errorf("%w: empty language", ErrDictionaryUnavailable)
	}
	if cached, ok := l.cache[lang]; ok {
		return cached, nil
	}

	path := filepath.Join(l.dir, lang+".txt")
	words, err := loadWords(path, FilterForLang(lang))
	if err == nil {
		l.cache[lang] = words
		return words, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load word list for %q: %w", lang, err)
	}
	if lang == DefaultLanguage {
		words = embeddedEnglish()
		l.cache[lang] = words
		return words, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrDictionaryUnavailable, lang)
}

// Symbols returns the symbol token set.
func (l *Library) Symbols() []rune { return symbolSet }

// Numbers returns the digit token set.
func (l *Library) Numbers() []rune { return numberSet }

// Punctuation returns the punctuation token set.
func (l *Library) Punctuation() []rune { return punctuationSet }

// Installed lists the languages available to this library, embedded default
// included, sorted by name.
func (l *Library) Installed() []string {
	seen := map[string]bool{DefaultLanguage: true}
	entries, err := os.ReadDir(l.dir)
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
				continue
			}
			seen[strings.TrimSuffix(name, ".txt")] = true
		}
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// loadWords reads one word per line, dropping words the filter rejects.
func loadWords(path string, keep FilterFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !keep(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
