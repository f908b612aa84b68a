// Package layout lays target text out into lines and derives the visible
// window. Line boundaries are a function of the text and the current width
// only; nothing here is stored between calls.
package layout

import "github.com/mattn/go-runewidth"

// Line is a half-open rune index range [Start, End) into the target text.
// Every rune belongs to exactly one line; a separator space closes the line
// it follows.
type Line struct {
	Start int
	End   int
}

// Lines word-wraps the target runes into lines of at most width display
// cells, breaking at spaces when possible. A word wider than the whole line
// is split mid-word. A trailing separator space may overflow the width; it
// occupies no visible cell at the end of a line.
func Lines(chars []rune, width int) []Line {
	if len(chars) == 0 {
		return nil
	}
	if width <= 0 {
		return []Line{{Start: 0, End: len(chars)}}
	}

	var lines []Line
	start := 0
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(chars); {
		w := runewidth.RuneWidth(chars[i])
		if lineWidth+w > width && i > start {
			if chars[i] == ' ' {
				lines = append(lines, Line{Start: start, End: i + 1})
				start = i + 1
				lineWidth = 0
				lastSpace = -1
				i++
				continue
			}
			if lastSpace >= start {
				lines = append(lines, Line{Start: start, End: lastSpace + 1})
				start = lastSpace + 1
			} else {
				lines = append(lines, Line{Start: start, End: i})
				start = i
			}
			lineWidth = widthOf(chars[start:i])
			lastSpace = lastSpaceIn(chars, start, i)
			continue
		}
		lineWidth += w
		if chars[i] == ' ' {
			lastSpace = i
		}
		i++
	}
	if start < len(chars) {
		lines = append(lines, Line{Start: start, End: len(chars)})
	}
	return lines
}

// LineOf returns the index of the line containing the cursor position. A
// cursor sitting one past the final rune stays on the last line.
func LineOf(lines []Line, cursor int) int {
	if len(lines) == 0 {
		return 0
	}
	for i, line := range lines {
		if cursor < line.End {
			return i
		}
	}
	return len(lines) - 1
}

// Window derives the visible half-open line range [first, end). Once enough
// lines precede the cursor, its line sits second from the bottom of the
// window, leaving one line of lookahead below.
func Window(cursorLine, lineCount, maxVisible int) (first, end int) {
	if lineCount <= 0 || maxVisible <= 0 {
		return 0, 0
	}
	offset := maxVisible - 2
	if offset < 0 {
		offset = 0
	}
	first = cursorLine - offset
	if first < 0 {
		first = 0
	}
	end = first + maxVisible
	if end > lineCount {
		end = lineCount
	}
	return first, end
}

func widthOf(chars []rune) int {
	total := 0
	for _, r := range chars {
		total += runewidth.RuneWidth(r)
	}
	return total
}

func lastSpaceIn(chars []rune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		if chars[i] == ' ' {
			return i
		}
	}
	return -1
}
