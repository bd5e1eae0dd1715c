// Package overlay composites a rendered box over a rendered background at a
// cell position. Both strings may carry ANSI styling; widths are measured
// and cut with ansi-aware helpers so styled backgrounds survive the splice.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Composite places fg over bg with fg's top-left corner at (row, col).
// Rows of fg that fall outside bg are dropped; bg rows are padded with
// spaces when fg extends past their width.
func Composite(fg, bg string, row, col int) string {
	if fg == "" {
		return bg
	}
	if col < 0 {
		col = 0
	}
	if row < 0 {
		row = 0
	}

	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")

	for i, fgLine := range fgLines {
		y := row + i
		if y >= len(bgLines) {
			break
		}
		bgLines[y] = spliceLine(bgLines[y], fgLine, col)
	}

	return strings.Join(bgLines, "\n")
}

// BottomRight places fg in the lower-right corner of a width x height
// canvas rendered as bg, inset one column from the right edge.
func BottomRight(fg, bg string, width, height int) string {
	if fg == "" {
		return bg
	}

	fgW := widestLine(fg)
	fgH := strings.Count(fg, "\n") + 1

	col := width - fgW - 1
	row := height - fgH
	return Composite(fg, bg, row, col)
}

// spliceLine overwrites bg from column col with fg, keeping whatever of bg
// extends past the spliced region.
func spliceLine(bg, fg string, col int) string {
	fgW := ansi.StringWidth(fg)
	if fgW == 0 {
		return bg
	}

	left := ansi.Truncate(bg, col, "")
	if pad := col - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}

	right := ansi.TruncateLeft(bg, col+fgW, "")

	return left + fg + right
}

func widestLine(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		if lw := ansi.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w
}
