package pdftext

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/ledongthuc/pdf"
)

// lineTolerance is the largest baseline difference, in points, between
// glyphs that belong to the same visual line.
const lineTolerance = 1.0

// wordGap is the horizontal gap, as a fraction of the font size, above which
// two runs on one line are separated by a space.
const wordGap = 0.2

// textLine collects the glyph runs sharing one baseline.
type textLine struct {
	y    float64
	runs []pdf.Text
}

// layoutText rebuilds the page text from positioned glyph runs: runs are
// grouped into lines by baseline, lines are ordered top to bottom and runs
// left to right. Lines are joined with "\n".
func layoutText(texts []pdf.Text) string {
	var lines []*textLine

	for _, t := range texts {
		if t.S == "" {
			continue
		}

		var line *textLine
		for _, l := range lines {
			if math.Abs(l.y-t.Y) <= lineTolerance {
				line = l
				break
			}
		}
		if line == nil {
			line = &textLine{y: t.Y}
			lines = append(lines, line)
		}
		line.runs = append(line.runs, t)
	}

	// PDF y grows upwards.
	slices.SortStableFunc(lines, func(a, b *textLine) int {
		return cmp.Compare(b.y, a.y)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.text()
	}
	return strings.Join(out, "\n")
}

// text joins the runs of the line in x order.
func (l *textLine) text() string {
	slices.SortStableFunc(l.runs, func(a, b pdf.Text) int {
		return cmp.Compare(a.X, b.X)
	})

	var b strings.Builder
	var end float64
	spaced := true

	for i, r := range l.runs {
		startsSpaced := strings.HasPrefix(r.S, " ")
		if i > 0 && !spaced && !startsSpaced && r.X-end > wordGap*r.FontSize {
			b.WriteByte(' ')
		}
		b.WriteString(r.S)

		end = r.X + r.W
		spaced = strings.HasSuffix(r.S, " ")
	}

	return b.String()
}
