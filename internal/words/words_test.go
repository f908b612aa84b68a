package words

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultLanguage(t *testing.T) {
	lib := NewLibrary(filepath.Join(t.TempDir(), "missing"))
	got, err := lib.Words(DefaultLanguage)
	if err != nil {
		t.Fatalf("expected embedded english to load: %v", err)
	}
	if len(got) < 100 {
		t.Fatalf("expected a usable embedded list, got %d words", len(got))
	}
	for _, w := range got {
		if !isLowerASCIIWord(w) {
			t.Fatalf("embedded word %q is not lowercase ascii", w)
		}
	}
}

func TestInstalledListOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	content := "alpha\nbeta\n\ngamma\n"
	if err := os.WriteFile(filepath.Join(dir, "english.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write word list: %v", err)
	}
	lib := NewLibrary(dir)
	got, err := lib.Words("english")
	if err != nil {
		t.Fatalf("load installed list: %v", err)
	}
	if len(got) != 3 || got[0] != "alpha" || got[2] != "gamma" {
		t.Fatalf("unexpected words: %v", got)
	}
}

func TestUnknownLanguage(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	if _, err := lib.Words("klingon"); !errors.Is(err, ErrDictionaryUnavailable) {
		t.Fatalf("expected ErrDictionaryUnavailable, got %v", err)
	}
	if _, err := lib.Words(""); !errors.Is(err, ErrDictionaryUnavailable) {
		t.Fatalf("expected ErrDictionaryUnavailable for empty language, got %v", err)
	}
}

func TestInstalledListing(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"spanish.txt", "german.txt", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("palabra\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	lib := NewLibrary(dir)
	got := lib.Installed()
	want := []string{"english", "german", "spanish"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestTokenSets(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	if len(lib.Symbols()) == 0 || len(lib.Numbers()) != 10 || len(lib.Punctuation()) == 0 {
		t.Fatalf("expected non-empty token sets")
	}
}
