// Package main provides the CLI entrypoint for typr.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typr/internal/config"
	"github.com/verte-zerg/typr/internal/generator"
	"github.com/verte-zerg/typr/internal/langfetch"
	"github.com/verte-zerg/typr/internal/model"
	"github.com/verte-zerg/typr/internal/quotes"
	"github.com/verte-zerg/typr/internal/stats"
	"github.com/verte-zerg/typr/internal/statsui"
	"github.com/verte-zerg/typr/internal/store"
	"github.com/verte-zerg/typr/internal/tui"
	"github.com/verte-zerg/typr/internal/words"
)

const (
	defaultLanguage     = "english"
	defaultTimeSeconds  = 30
	defaultWordCount    = 25
	defaultQuoteLength  = "short"
	defaultVisibleLines = 3
	defaultCurveWindow  = 20
	fallbackStatsWidth  = 100
)

var (
	testLanguage    string
	testTime        int
	testWords       int
	testQuote       string
	testPunctuation bool
	testNumbers     bool
	testSymbols     bool
	testLines       int
	testSeed        int64
	testNoSave      bool

	dbPath string

	statsLanguage string
	statsMode     string
	statsSince    string
	statsLast     int
	statsWindow   int
	statsTop      int
	statsUI       bool

	langsFetch string
	langsForce bool

	configInit bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typr",
		Short:         "Terminal typing test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTypingCmd,
	}

	rootCmd.Flags().StringVar(&testLanguage, "language", defaultLanguage, "word list name")
	rootCmd.Flags().IntVar(&testTime, "time", defaultTimeSeconds, "time mode: test duration in seconds")
	rootCmd.Flags().IntVar(&testWords, "words", defaultWordCount, "words mode: words per test")
	rootCmd.Flags().StringVar(&testQuote, "quote", defaultQuoteLength, "quote mode: quote length (short, medium, long)")
	rootCmd.Flags().BoolVar(&testPunctuation, "punctuation", false, "blend punctuation into words")
	rootCmd.Flags().BoolVar(&testNumbers, "numbers", false, "blend numbers into words")
	rootCmd.Flags().BoolVar(&testSymbols, "symbols", false, "blend symbols into words")
	rootCmd.Flags().IntVar(&testLines, "lines", defaultVisibleLines, "visible lines of target text")
	rootCmd.Flags().Int64Var(&testSeed, "seed", 0, "seed for reproducible targets (0 means random)")
	rootCmd.Flags().BoolVar(&testNoSave, "no-save", false, "do not record the result")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "results database path (default: XDG data dir)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runTypingCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "language", &testLanguage, fileCfg.Test.Language)
	applyConfig(cmd, "time", &testTime, fileCfg.Test.Time)
	applyConfig(cmd, "words", &testWords, fileCfg.Test.Words)
	applyConfig(cmd, "quote", &testQuote, fileCfg.Test.Quote)
	applyConfig(cmd, "punctuation", &testPunctuation, fileCfg.Test.Punctuation)
	applyConfig(cmd, "numbers", &testNumbers, fileCfg.Test.Numbers)
	applyConfig(cmd, "symbols", &testSymbols, fileCfg.Test.Symbols)
	applyConfig(cmd, "lines", &testLines, fileCfg.Test.VisibleLines)

	mode, err := resolveMode(cmd, fileCfg.Test)
	if err != nil {
		return err
	}
	if testLines < 1 {
		return fmt.Errorf("--lines must be >= 1")
	}

	saveResults := true
	if fileCfg.Test.SaveResults != nil {
		saveResults = *fileCfg.Test.SaveResults
	}
	if cmd.Flags().Changed("no-save") {
		saveResults = !testNoSave
	}

	cfg := model.Config{
		Language:     testLanguage,
		Mode:         mode,
		Punctuation:  testPunctuation,
		Numbers:      testNumbers,
		Symbols:      testSymbols,
		VisibleLines: testLines,
		Seed:         testSeed,
		SaveResults:  saveResults,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := store.Open(resolveDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	lib := words.NewLibrary(config.DefaultLanguageDir())
	qlib, err := newQuoteLibrary(cfg.Seed)
	if err != nil {
		return fmt.Errorf("failed to load quotes: %w", err)
	}

	m, err := tui.NewModel(cfg, st, newGenerator(cfg.Seed), lib, qlib, lib.Installed())
	if err != nil {
		if errors.Is(err, words.ErrDictionaryUnavailable) {
			return languageLoadError(cfg.Language, err)
		}
		return fmt.Errorf("failed to build typing test: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveMode picks the test mode from flags first, the config file second.
// The scalar values already carry the flag-over-file merge.
func resolveMode(cmd *cobra.Command, fileCfg config.TestConfig) (model.Mode, error) {
	changed := 0
	for _, name := range []string{"time", "words", "quote"} {
		if cmd.Flags().Changed(name) {
			changed++
		}
	}
	if changed > 1 {
		return model.Mode{}, fmt.Errorf("--time, --words and --quote are mutually exclusive")
	}

	kind := ""
	switch {
	case cmd.Flags().Changed("time"):
		kind = "time"
	case cmd.Flags().Changed("words"):
		kind = "words"
	case cmd.Flags().Changed("quote"):
		kind = "quote"
	case fileCfg.Mode != nil:
		kind = *fileCfg.Mode
	default:
		kind = "time"
	}

	switch kind {
	case "time":
		if testTime <= 0 {
			return model.Mode{}, fmt.Errorf("--time must be > 0")
		}
		return model.Mode{Kind: model.ModeTime, Duration: time.Duration(testTime) * time.Second}, nil
	case "words":
		if testWords <= 0 {
			return model.Mode{}, fmt.Errorf("--words must be > 0")
		}
		return model.Mode{Kind: model.ModeWords, Count: testWords}, nil
	case "quote":
		length, err := model.ParseQuoteLength(testQuote)
		if err != nil {
			return model.Mode{}, fmt.Errorf("invalid --quote value: %w", err)
		}
		return model.Mode{Kind: model.ModeQuote, Length: length}, nil
	default:
		return model.Mode{}, fmt.Errorf("unknown mode %q in config (want time, words or quote)", kind)
	}
}

func newGenerator(seed int64) *generator.Generator {
	if seed != 0 {
		return generator.NewSeeded(seed)
	}
	return generator.New()
}

func newQuoteLibrary(seed int64) (*quotes.Library, error) {
	if seed != 0 {
		return quotes.NewSeeded(seed)
	}
	return quotes.New()
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.Flags().BoolVar(&configInit, "init", false, "write a commented template config")
	return cmd
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if configInit {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		tmpFile, err := os.CreateTemp(dir, "config-*.toml")
		if err != nil {
			return fmt.Errorf("failed to create temp config: %w", err)
		}
		tmpPath := tmpFile.Name()
		defer func() {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}()
		if _, err := tmpFile.WriteString(defaultConfigTemplate()); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		if err := tmpFile.Close(); err != nil {
			return fmt.Errorf("failed to close temp config: %w", err)
		}
		if err := os.Rename(tmpPath, path); err != nil {
			return fmt.Errorf("failed to install config: %w", err)
		}
		logErrf("Wrote %s\n", path)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logErrf("No config at %s (create one with: typr config --init)\n", path)
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), string(data)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "langs",
		Short: "List or download word lists",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
	cmd.Flags().StringVar(&langsFetch, "fetch", "", "download a word list by name")
	cmd.Flags().BoolVar(&langsForce, "force", false, "refresh an already installed list")
	return cmd
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	dir := config.DefaultLanguageDir()
	if langsFetch != "" {
		res, err := langfetch.Fetch(context.Background(), langfetch.DefaultBaseURL, dir, langsFetch, langsForce)
		if err != nil {
			return fmt.Errorf("failed to fetch %q: %w", langsFetch, err)
		}
		if res.Cached {
			logErrf("%s is already installed at %s (use --force to refresh)\n", res.Language, res.Path)
		} else {
			logErrf("Installed %s (%d words) at %s\n", res.Language, res.Words, res.Path)
		}
		return nil
	}

	for _, lang := range words.NewLibrary(dir).Installed() {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show result history and aggregates",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLanguage, "language", "", "language filter")
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter (time, words or quote)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&statsWindow, "window", defaultCurveWindow, "moving average window for curves")
	cmd.Flags().IntVar(&statsTop, "top", 0, "show only the top N results by wpm (0 uses the default of 25)")
	cmd.Flags().BoolVar(&statsUI, "ui", false, "open the interactive history browser")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	filter, err := buildHistoryFilter()
	if err != nil {
		return err
	}
	if statsTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}

	st, err := store.Open(resolveDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsUI {
		program := tea.NewProgram(statsui.NewModel(st, filter), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	if cmd.Flags().Changed("top") {
		top, err := st.TopResults(context.Background(), filter, statsTop)
		if err != nil {
			return fmt.Errorf("failed to load top results: %w", err)
		}
		return stats.RenderTopTable(os.Stdout, top)
	}

	report, err := stats.BuildReport(context.Background(), st, filter)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return stats.RenderReport(os.Stdout, report, statsOutputWidth(), statsUseColor())
}

func buildHistoryFilter() (model.HistoryFilter, error) {
	var since *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.HistoryFilter{}, fmt.Errorf("invalid --since value: %w", err)
		}
		since = &parsed
	}
	switch statsMode {
	case "", "time", "words", "quote":
	default:
		return model.HistoryFilter{}, fmt.Errorf("invalid --mode value %q (want time, words or quote)", statsMode)
	}
	if statsLast < 0 {
		return model.HistoryFilter{}, fmt.Errorf("--last must be >= 0")
	}
	if statsWindow < 1 {
		return model.HistoryFilter{}, fmt.Errorf("--window must be >= 1")
	}
	return model.HistoryFilter{
		Language:    statsLanguage,
		Mode:        statsMode,
		Since:       since,
		Last:        statsLast,
		CurveWindow: statsWindow,
	}, nil
}

func statsOutputWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallbackStatsWidth
}

func statsUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return config.DefaultDBPath()
}

// applyConfig fills a flag variable from the config file value. Flags set
// on the command line keep their value; nil config values are ignored.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typr configuration
# Uncomment a line to set it. Flags passed on the command line win.

[test]
# language = %q      # Word list name
# mode = "time"            # One of: time, words, quote
# time = %d                # Seconds for time mode
# words = %d               # Word count for words mode
# quote = %q          # Quote length: short, medium, long
# punctuation = false      # Blend punctuation into words
# numbers = false          # Blend numbers into words
# symbols = false          # Blend symbols into words
# visible-lines = %d       # Lines of target text on screen
# save-results = true      # Record results in the local database
`,
		defaultLanguage,
		defaultTimeSeconds,
		defaultWordCount,
		defaultQuoteLength,
		defaultVisibleLines,
	)
}

func languageLoadError(lang string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to build typing test: %v", err),
		fmt.Sprintf("expected word list at: %s", config.DefaultLanguagePath(lang)),
		"Installed languages: typr langs",
		fmt.Sprintf("Download: typr langs --fetch %s", lang),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
