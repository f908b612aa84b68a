package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/typr/internal/model"
	"github.com/verte-zerg/typr/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Results     []model.StoredResult
	Summary     Summary
	CurveWindow int
}

// BuildReport loads and prepares result history for rendering.
func BuildReport(ctx context.Context, st *store.Store, filter model.HistoryFilter) (Report, error) {
	results, err := st.ListResults(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	if filter.Last > 0 && len(results) > filter.Last {
		results = results[len(results)-filter.Last:]
	}
	window := filter.CurveWindow
	if window <= 0 {
		window = 1
	}
	return Report{
		Results:     results,
		Summary:     BuildSummary(results),
		CurveWindow: window,
	}, nil
}

// RenderReport prints the full text report: summary, breakdowns and curves.
func RenderReport(w io.Writer, report Report, totalWidth int, useColor bool) error {
	if err := RenderSummary(w, report.Results); err != nil {
		return err
	}
	if len(report.Results) == 0 {
		return nil
	}
	if err := RenderModeTable(w, report.Results); err != nil {
		return err
	}
	if err := RenderRecentTable(w, report.Results); err != nil {
		return err
	}
	return RenderCurvesWithSize(w, report.Results, report.CurveWindow, totalWidth, 10, useColor)
}
