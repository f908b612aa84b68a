package words

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed english.txt
var englishRaw string

var (
	englishOnce  sync.Once
	englishWords []string
)

// embeddedEnglish parses the bundled default word list once.
func embeddedEnglish() []string {
	englishOnce.Do(func() {
		for _, line := range strings.Split(englishRaw, "\n") {
			word := strings.TrimSpace(line)
			if word == "" {
				continue
			}
			englishWords = append(englishWords, word)
		}
	})
	return englishWords
}
