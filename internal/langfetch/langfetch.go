// Package langfetch downloads community word lists and installs them as
// plain text files for offline use.
package langfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBaseURL serves the monkeytype language files, one JSON document
// per language.
const DefaultBaseURL = "https://raw.githubusercontent.com/monkeytypegame/monkeytype/master/frontend/static/languages"

// Result describes one installed word list.
type Result struct {
	Language string
	Path     string
	Words    int
	Cached   bool
}

// languageFile is the upstream document shape.
type languageFile struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

// Fetch downloads the word list for lang from baseURL and installs it as
// <lang>.txt under dir. An already installed list short-circuits the
// download unless force is set. The file is written to a temp path first
// and renamed, so readers never observe a partial list.
func Fetch(ctx context.Context, baseURL, dir, lang string, force bool) (Result, error) {
	if lang == "" {
		return Result{}, fmt.Errorf("language is required")
	}
	if dir == "" {
		return Result{}, fmt.Errorf("target directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create language dir: %w", err)
	}

	destPath := filepath.Join(dir, lang+".txt")
	if !force {
		if _, err := os.Stat(destPath); err == nil {
			return Result{Language: lang, Path: destPath, Cached: true}, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return Result{}, fmt.Errorf("failed to stat installed list: %w", err)
		}
	}

	url := fmt.Sprintf("%s/%s.json", strings.TrimSuffix(baseURL, "/"), lang)
	resp, err := get(ctx, url)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return Result{}, fmt.Errorf("no upstream word list for %q", lang)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("unexpected status for %q: %s", lang, resp.Status)
	}

	var payload languageFile
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, fmt.Errorf("failed to decode language file: %w", err)
	}
	words := cleanWords(payload.Words)
	if len(words) == 0 {
		return Result{}, fmt.Errorf("upstream list for %q contained no words", lang)
	}

	tmpFile, err := os.CreateTemp(dir, lang+"-*.txt")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create temp list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.WriteString(strings.Join(words, "\n") + "\n"); err != nil {
		return Result{}, fmt.Errorf("failed to write word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to close temp list: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return Result{}, fmt.Errorf("failed to install word list: %w", err)
	}

	return Result{Language: lang, Path: destPath, Words: len(words)}, nil
}

// cleanWords drops entries that cannot live in a one-word-per-line file.
func cleanWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || strings.ContainsAny(w, " \t\n") {
			continue
		}
		out = append(out, w)
	}
	return out
}

// fetchClient bounds the whole download. Language files are small, so a
// single generous timeout covers slow links.
var fetchClient = &http.Client{Timeout: 60 * time.Second}

func get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	return resp, nil
}
