// Package store handles SQLite persistence of completed test results.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typr/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for result history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			language TEXT NOT NULL,
			mode_type TEXT NOT NULL,
			mode_value INTEGER NOT NULL,
			punctuation INTEGER NOT NULL,
			numbers INTEGER NOT NULL,
			symbols INTEGER NOT NULL,
			wpm REAL NOT NULL,
			raw_wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			consistency REAL NOT NULL,
			duration_ms INTEGER NOT NULL,
			chars_typed INTEGER NOT NULL,
			wrong_chars INTEGER NOT NULL,
			wrong_words INTEGER NOT NULL,
			total_keystrokes INTEGER NOT NULL,
			correct_keystrokes INTEGER NOT NULL,
			backspaces INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_completed_at ON results(completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_results_mode ON results(mode_type, mode_value, language);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

const resultColumns = `id, started_at, completed_at, language, mode_type, mode_value,
	punctuation, numbers, symbols, wpm, raw_wpm, accuracy, consistency,
	duration_ms, chars_typed, wrong_chars, wrong_words,
	total_keystrokes, correct_keystrokes, backspaces`

// InsertResult stores one completed test result.
func (s *Store) InsertResult(ctx context.Context, res model.Result) (int64, error) {
	out, err := s.db.ExecContext(ctx,
		`INSERT INTO results (started_at, completed_at, language, mode_type, mode_value,
			punctuation, numbers, symbols, wpm, raw_wpm, accuracy, consistency,
			duration_ms, chars_typed, wrong_chars, wrong_words,
			total_keystrokes, correct_keystrokes, backspaces)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.StartedAt.Format(time.RFC3339Nano),
		res.CompletedAt.Format(time.RFC3339Nano),
		res.Language,
		res.Mode.Kind.String(),
		res.Mode.Value(),
		res.Punctuation,
		res.Numbers,
		res.Symbols,
		res.WPM,
		res.RawWPM,
		res.Accuracy,
		res.Consistency,
		res.DurationMs,
		res.CharsTyped,
		res.WrongChars,
		res.WrongWords,
		res.TotalKeystrokes,
		res.CorrectKeystrokes,
		res.Backspaces,
	)
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

// ListResults returns stored results matching the filter, oldest first.
func (s *Store) ListResults(ctx context.Context, filter model.HistoryFilter) ([]model.StoredResult, error) {
	where, args := filterWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM results WHERE %s ORDER BY completed_at ASC`,
		resultColumns, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

// topResultsDefaultLimit caps the leaderboard when the caller passes no limit.
const topResultsDefaultLimit = 25

// TopResults returns the best results by wpm matching the filter. A limit
// of zero or less falls back to the default of 25.
func (s *Store) TopResults(ctx context.Context, filter model.HistoryFilter, limit int) ([]model.StoredResult, error) {
	if limit <= 0 {
		limit = topResultsDefaultLimit
	}
	where, args := filterWhere(filter)
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s FROM results WHERE %s
		ORDER BY wpm DESC, completed_at ASC
		LIMIT ?`, resultColumns, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanResults(rows)
}

func filterWhere(filter model.HistoryFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Language != "" {
		clauses = append(clauses, "language = ?")
		args = append(args, filter.Language)
	}
	if filter.Mode != "" {
		clauses = append(clauses, "mode_type = ?")
		args = append(args, filter.Mode)
	}
	if filter.Since != nil {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, filter.Since.Format(time.RFC3339Nano))
	}
	return strings.Join(clauses, " AND "), args
}

// IsPersonalBest reports whether the result beats every stored result for
// the same language, mode setting, and modifier flags. Call it before
// inserting the result.
func (s *Store) IsPersonalBest(ctx context.Context, res model.Result) (bool, error) {
	if res.WPM <= 0 {
		return false, nil
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM results
		 WHERE language = ? AND mode_type = ? AND mode_value = ?
		   AND punctuation = ? AND numbers = ? AND symbols = ?
		   AND wpm >= ?`,
		res.Language, res.Mode.Kind.String(), res.Mode.Value(),
		res.Punctuation, res.Numbers, res.Symbols, res.WPM).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func scanResults(rows *sql.Rows) ([]model.StoredResult, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.StoredResult
	for rows.Next() {
		var (
			sr                   model.StoredResult
			startedAt, completed string
			modeType             string
			modeValue            int
		)
		if err := rows.Scan(
			&sr.ID,
			&startedAt,
			&completed,
			&sr.Language,
			&modeType,
			&modeValue,
			&sr.Punctuation,
			&sr.Numbers,
			&sr.Symbols,
			&sr.WPM,
			&sr.RawWPM,
			&sr.Accuracy,
			&sr.Consistency,
			&sr.DurationMs,
			&sr.CharsTyped,
			&sr.WrongChars,
			&sr.WrongWords,
			&sr.TotalKeystrokes,
			&sr.CorrectKeystrokes,
			&sr.Backspaces,
		); err != nil {
			return nil, err
		}
		started, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		ended, err := time.Parse(time.RFC3339Nano, completed)
		if err != nil {
			return nil, err
		}
		sr.StartedAt = started
		sr.CompletedAt = ended
		sr.Mode = parseMode(modeType, modeValue)
		results = append(results, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseMode(modeType string, value int) model.Mode {
	switch modeType {
	case "time":
		return model.Mode{Kind: model.ModeTime, Duration: time.Duration(value) * time.Second}
	case "words":
		return model.Mode{Kind: model.ModeWords, Count: value}
	case "quote":
		return model.Mode{Kind: model.ModeQuote, Length: model.QuoteLength(value)}
	default:
		return model.Mode{}
	}
}
