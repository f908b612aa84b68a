package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series is a named sequence of values plotted as one curve.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	axisLabelWidth    = 6
	axisSeparator     = " │ "
	widthFallback     = 80
	colorReset        = "\x1b[0m"
	brailleBase       = '⠀'
)

// dashPattern masks which x positions of a curve are drawn, over an
// eight-dot period. Solid is all ones.
type dashPattern struct {
	name string
	bits uint8
}

func (p dashPattern) at(x int) bool {
	if x < 0 {
		x = -x
	}
	return p.bits&(1<<uint(x%8)) != 0
}

var dashPatterns = []dashPattern{
	{name: "solid", bits: 0xFF},
	{name: "dashed", bits: 0x77},
	{name: "dotted", bits: 0x11},
	{name: "dashdot", bits: 0x53},
}

var plotColors = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
	"\x1b[34m", // blue
}

// PlotSeries renders the series as overlaid braille curves.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return renderPlot(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders braille curves and can force ANSI colors on
// for writers that are not terminals.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	return renderPlot(w, title, series, width, height, forceColor)
}

func renderPlot(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	curves := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			curves = append(curves, s)
		}
	}
	if len(curves) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	// Axis labels and row mapping use the range of the original values;
	// resampled points are convex combinations so they never leave it.
	canvas := newDotCanvas(width, height)
	ranges := make([]valueRange, len(curves))
	for si, s := range curves {
		ranges[si] = rangeOf(s.Values)
		drawCurve(canvas, si, resample(s.Values, width), ranges[si])
	}

	useColor := colorEnabled(w, forceColor)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for si, s := range curves {
		if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.Name, ranges[si].lo, ranges[si].hi); err != nil {
			return err
		}
	}
	for row := 0; row < height; row++ {
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%*s%s", axisLabelWidth, axisLabel(ranges[0], height, row), axisSeparator))
		for col := 0; col < width; col++ {
			ch, owner := canvas.cell(col, row)
			if useColor && owner >= 0 {
				b.WriteString(plotColors[owner%len(plotColors)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
			} else {
				b.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, legend(curves, useColor)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func drawCurve(c *dotCanvas, series int, values []float64, rng valueRange) {
	pat := dashPatterns[series%len(dashPatterns)]
	prevX, prevY := -1, -1
	for i, v := range values {
		x := i * 2
		y := rng.row(v, c.rows*4)
		if prevX < 0 {
			if pat.at(x) {
				c.set(series, x, y)
			}
		} else {
			c.line(series, pat, prevX, prevY, x, y)
		}
		prevX, prevY = x, y
	}
}

// axisLabel labels the top, middle and bottom rows with the first series'
// bounds; other rows stay blank.
func axisLabel(r valueRange, rows, row int) string {
	var v float64
	switch {
	case row == 0:
		v = r.hi
	case rows > 1 && row == rows-1:
		v = r.lo
	case rows > 2 && row == rows/2:
		v = r.lo + (r.hi-r.lo)/2
	default:
		return ""
	}
	s := fmt.Sprintf("%.1f", v)
	if len(s) > axisLabelWidth {
		s = fmt.Sprintf("%.0f", v)
	}
	return s
}

func legend(curves []Series, useColor bool) string {
	parts := make([]string, 0, len(curves))
	for i, s := range curves {
		pat := dashPatterns[i%len(dashPatterns)]
		part := fmt.Sprintf("%c %s (%s)", '⠁', s.Name, pat.name)
		if useColor {
			part = plotColors[i%len(plotColors)] + part + colorReset
		}
		parts = append(parts, part)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// PlotWidthFor fits a plot into a total terminal width, reserving the axis
// gutter.
func PlotWidthFor(totalWidth int) int {
	w := totalWidth - axisLabelWidth - len([]rune(axisSeparator))
	if w < minPlotWidth {
		return minPlotWidth
	}
	return w
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return widthFallback
}

func colorEnabled(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// valueRange is the observed span of one series. A flat series is widened
// by one unit each way so it plots mid-canvas instead of dividing by zero.
type valueRange struct {
	lo, hi float64
}

func rangeOf(values []float64) valueRange {
	if len(values) == 0 {
		return valueRange{}
	}
	r := valueRange{lo: math.Inf(1), hi: math.Inf(-1)}
	for _, v := range values {
		r.lo = math.Min(r.lo, v)
		r.hi = math.Max(r.hi, v)
	}
	if r.hi-r.lo < 1e-9 {
		r.lo--
		r.hi++
	}
	return r
}

// row maps a value onto a dot row, row zero at the top.
func (r valueRange) row(v float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	t := (v - r.lo) / (r.hi - r.lo)
	row := int(math.Round((1 - t) * float64(rows-1)))
	if row < 0 {
		return 0
	}
	if row >= rows {
		return rows - 1
	}
	return row
}

// resample stretches or shrinks a series to the plot width. Shrinking
// averages whole buckets, stretching interpolates linearly.
func resample(values []float64, width int) []float64 {
	switch {
	case len(values) == 0 || width <= 0:
		return nil
	case len(values) == width:
		out := make([]float64, width)
		copy(out, values)
		return out
	case len(values) > width:
		return bucketMeans(values, width)
	default:
		return interpolate(values, width)
	}
}

func bucketMeans(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		if hi == lo {
			hi = lo + 1
		}
		sum := 0.0
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

func interpolate(values []float64, width int) []float64 {
	out := make([]float64, width)
	if len(values) == 1 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	step := float64(len(values)-1) / float64(width-1)
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		t := pos - float64(j)
		out[i] = values[j]*(1-t) + values[j+1]*t
	}
	return out
}

// dotCanvas is a braille raster. Every text cell holds a 2x4 dot grid; the
// first series to touch a cell decides its color.
type dotCanvas struct {
	cols, rows int
	mask       []uint8
	owner      []int
}

func newDotCanvas(cols, rows int) *dotCanvas {
	return &dotCanvas{
		cols:  cols,
		rows:  rows,
		mask:  make([]uint8, cols*rows),
		owner: make([]int, cols*rows),
	}
}

// dotBits[y][x] is the braille mask bit for a dot within its cell.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func (c *dotCanvas) set(series, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.cols || row >= c.rows {
		return
	}
	i := row*c.cols + col
	if c.mask[i] == 0 {
		c.owner[i] = series
	}
	c.mask[i] |= dotBits[y%4][x%2]
}

// cell returns the braille rune at a text cell and the owning series, or -1
// for an empty cell.
func (c *dotCanvas) cell(col, row int) (rune, int) {
	i := row*c.cols + col
	if c.mask[i] == 0 {
		return brailleBase, -1
	}
	return brailleBase + rune(c.mask[i]), c.owner[i]
}

// line draws with Bresenham stepping, skipping dots the pattern masks out.
func (c *dotCanvas) line(series int, pat dashPattern, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	stepX, stepY := 1, 1
	if x1 < x0 {
		stepX = -1
	}
	if y1 < y0 {
		stepY = -1
	}
	diff := dx - dy
	for {
		if pat.at(x0) {
			c.set(series, x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		d2 := diff * 2
		if d2 > -dy {
			diff -= dy
			x0 += stepX
		}
		if d2 < dx {
			diff += dx
			y0 += stepY
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
