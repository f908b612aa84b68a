package stats

import "testing"

func TestPlotWidthFor(t *testing.T) {
	total := 80
	expected := total - axisLabelWidth - len([]rune(axisSeparator))
	if expected < minPlotWidth {
		expected = minPlotWidth
	}
	if got := PlotWidthFor(total); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("expected narrow terminals clamped to %d, got %d", minPlotWidth, got)
	}
}
