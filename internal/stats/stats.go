// Package stats aggregates stored typing results and renders text reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/verte-zerg/typr/internal/model"
)

const sparkChars = " .:-=+*#%@"

// trendWidth caps the wpm sparkline in the summary section.
const trendWidth = 40

// Summary holds aggregate figures over a set of results.
type Summary struct {
	Tests          int
	AvgWPM         float64
	BestWPM        float64
	AvgRawWPM      float64
	AvgAccuracy    float64
	AvgConsistency float64
	TimeTyped      time.Duration
	Keystrokes     int
}

// BuildSummary aggregates the results into summary figures.
func BuildSummary(results []model.StoredResult) Summary {
	s := Summary{Tests: len(results)}
	if len(results) == 0 {
		return s
	}
	for _, r := range results {
		s.AvgWPM += r.WPM
		s.AvgRawWPM += r.RawWPM
		s.AvgAccuracy += r.Accuracy
		s.AvgConsistency += r.Consistency
		s.TimeTyped += time.Duration(r.DurationMs) * time.Millisecond
		s.Keystrokes += r.TotalKeystrokes
		if r.WPM > s.BestWPM {
			s.BestWPM = r.WPM
		}
	}
	n := float64(len(results))
	s.AvgWPM /= n
	s.AvgRawWPM /= n
	s.AvgAccuracy /= n
	s.AvgConsistency /= n
	return s
}

// MovingAverage smooths values with a trailing mean of at most window
// points. Early entries average over what exists, so the output keeps the
// input's length.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		span := i + 1
		if span > window {
			sum -= values[i-window]
			span = window
		}
		out[i] = sum / float64(span)
	}
	return out
}

// Sparkline renders one ramp glyph per value, scaled to the series range.
// A flat series renders as the middle glyph.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	cells := make([]byte, len(values))
	if hi-lo < 1e-9 {
		for i := range cells {
			cells[i] = sparkChars[len(sparkChars)/2]
		}
		return string(cells)
	}
	top := float64(len(sparkChars) - 1)
	for i, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * top))
		if idx < 0 {
			idx = 0
		} else if idx > len(sparkChars)-1 {
			idx = len(sparkChars) - 1
		}
		cells[i] = sparkChars[idx]
	}
	return string(cells)
}

// RenderSummary prints aggregate figures for the results.
func RenderSummary(w io.Writer, results []model.StoredResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	s := BuildSummary(results)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Tests: %d\n", s.Tests); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.2f\n", s.AvgWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %.2f\n", s.BestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Raw WPM: %.2f\n", s.AvgRawWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.2f%%\n", s.AvgAccuracy*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Consistency: %.2f%%\n", s.AvgConsistency*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Time Typed: %s\n", s.TimeTyped.Round(time.Second)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Keystrokes: %d\n", s.Keystrokes); err != nil {
		return err
	}
	if len(results) >= 2 {
		wpms := make([]float64, len(results))
		for i, r := range results {
			wpms[i] = r.WPM
		}
		if len(wpms) > trendWidth {
			wpms = wpms[len(wpms)-trendWidth:]
		}
		if _, err := fmt.Fprintf(w, "Trend: %s\n", Sparkline(wpms)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderModeTable prints a per-mode breakdown of the results.
func RenderModeTable(w io.Writer, results []model.StoredResult) error {
	if len(results) == 0 {
		return nil
	}
	type modeAgg struct {
		label   string
		tests   int
		sumWPM  float64
		bestWPM float64
		sumAcc  float64
	}
	byMode := map[string]*modeAgg{}
	for _, r := range results {
		label := r.Mode.Label()
		agg, ok := byMode[label]
		if !ok {
			agg = &modeAgg{label: label}
			byMode[label] = agg
		}
		agg.tests++
		agg.sumWPM += r.WPM
		agg.sumAcc += r.Accuracy
		if r.WPM > agg.bestWPM {
			agg.bestWPM = r.WPM
		}
	}
	aggs := make([]*modeAgg, 0, len(byMode))
	for _, agg := range byMode {
		aggs = append(aggs, agg)
	}
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].tests == aggs[j].tests {
			return aggs[i].label < aggs[j].label
		}
		return aggs[i].tests > aggs[j].tests
	})

	if _, err := fmt.Fprintln(w, "By Mode"); err != nil {
		return err
	}
	tbl := newTextTable("Mode", "Tests", "Avg WPM", "Best WPM", "Avg Accuracy").alignRight(1, 2, 3, 4)
	for _, agg := range aggs {
		n := float64(agg.tests)
		tbl.addRow(
			agg.label,
			fmt.Sprintf("%d", agg.tests),
			fmt.Sprintf("%.2f", agg.sumWPM/n),
			fmt.Sprintf("%.2f", agg.bestWPM),
			fmt.Sprintf("%.2f%%", agg.sumAcc/n*100),
		)
	}
	if err := tbl.write(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// recentTableLimit caps the recent-results table in the text report.
const recentTableLimit = 10

// RenderRecentTable prints the most recent results, newest first.
func RenderRecentTable(w io.Writer, results []model.StoredResult) error {
	if len(results) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Recent Tests"); err != nil {
		return err
	}
	start := len(results) - recentTableLimit
	if start < 0 {
		start = 0
	}
	tbl := newTextTable("Completed", "Mode", "WPM", "Raw", "Accuracy", "Consistency").alignRight(2, 3, 4, 5)
	for i := len(results) - 1; i >= start; i-- {
		r := results[i]
		tbl.addRow(
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			r.Mode.Label(),
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f", r.RawWPM),
			fmt.Sprintf("%.1f%%", r.Accuracy*100),
			fmt.Sprintf("%.1f%%", r.Consistency*100),
		)
	}
	if err := tbl.write(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderTopTable prints a leaderboard of the given results, best first.
// The caller supplies results already ordered by wpm.
func RenderTopTable(w io.Writer, results []model.StoredResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Top Results"); err != nil {
		return err
	}
	tbl := newTextTable("#", "Completed", "Mode", "Language", "WPM", "Raw", "Accuracy", "Consistency").alignRight(0, 4, 5, 6, 7)
	for i, r := range results {
		tbl.addRow(
			fmt.Sprintf("%d", i+1),
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			r.Mode.Label(),
			r.Language,
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f", r.RawWPM),
			fmt.Sprintf("%.1f%%", r.Accuracy*100),
			fmt.Sprintf("%.1f%%", r.Consistency*100),
		)
	}
	return tbl.write(w)
}

// RenderCurves prints progress curves for speed and accuracy.
func RenderCurves(w io.Writer, results []model.StoredResult, window int) error {
	return RenderCurvesWithSize(w, results, window, 0, 10, false)
}

// RenderCurvesWithSize prints progress curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, results []model.StoredResult, window, totalWidth, height int, useColor bool) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	raws := make([]float64, len(results))
	accs := make([]float64, len(results))
	cons := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = r.WPM
		raws[i] = r.RawWPM
		accs[i] = r.Accuracy * 100
		cons[i] = r.Consistency * 100
	}
	wpms = MovingAverage(wpms, window)
	raws = MovingAverage(raws, window)
	accs = MovingAverage(accs, window)
	cons = MovingAverage(cons, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	if err := PlotSeriesWithColor(w, "Speed", []Series{
		{Name: "WPM", Values: wpms},
		{Name: "Raw WPM", Values: raws},
	}, width, height, useColor); err != nil {
		return err
	}
	return PlotSeriesWithColor(w, "Accuracy", []Series{
		{Name: "Accuracy", Values: accs},
		{Name: "Consistency", Values: cons},
	}, width, height, useColor)
}
