package tui

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/njchilds90/integralcalc/internal/plot"
)

const (
	glyphCurve = '•'
	glyphArea  = '░'
	glyphAxisX = '─'
	glyphAxisY = '│'
	glyphCross = '┼'
)

// renderChart draws the figure's samples as a width by height character
// grid. The y range always includes zero so the x axis is visible.
func renderChart(fig *plot.Figure, width, height int) string {
	width, height = max(width, 10), max(height, 4)
	title := centered(fig.Title, width)
	if !fig.Drawn() {
		body := strings.Repeat(strings.Repeat(" ", width)+"\n", height-1)
		return title + "\n" + body + HelpStyle.Render("no curve to show")
	}

	xmin, xmax := fig.CurveX[0], fig.CurveX[len(fig.CurveX)-1]
	ys := finiteSamples(fig.CurveY)
	ymin, ymax := math.Min(floats.Min(ys), 0), math.Max(floats.Max(ys), 0)
	if ymax == ymin {
		ymin, ymax = ymin-1, ymax+1
	}
	col := func(x float64) int {
		return clamp(int(math.Round((x-xmin)/(xmax-xmin)*float64(width-1))), 0, width-1)
	}
	row := func(y float64) int {
		return clamp(int(math.Round((ymax-y)/(ymax-ymin)*float64(height-1))), 0, height-1)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	zero := row(0)
	for c := range grid[zero] {
		grid[zero][c] = glyphAxisX
	}
	if xmin <= 0 && xmax >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = glyphAxisY
		}
		grid[zero][c] = glyphCross
	}
	for i, x := range fig.FillX {
		if !finite(fig.FillY[i]) {
			continue
		}
		c, r := col(x), row(fig.FillY[i])
		lo, hi := min(r, zero), max(r, zero)
		for k := lo; k <= hi; k++ {
			if k != zero {
				grid[k][c] = glyphArea
			}
		}
	}
	for i, x := range fig.CurveX {
		if finite(fig.CurveY[i]) {
			grid[row(fig.CurveY[i])][col(x)] = glyphCurve
		}
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	for _, line := range grid {
		b.WriteString(paint(line))
		b.WriteByte('\n')
	}
	b.WriteString(HelpStyle.Render(fmt.Sprintf("x ∈ [%.3g, %.3g]   y ∈ [%.3g, %.3g]", xmin, xmax, ymin, ymax)))
	return b.String()
}

// paint colours runs of equal glyphs.
func paint(line []rune) string {
	var b strings.Builder
	for i := 0; i < len(line); {
		j := i
		for j < len(line) && line[j] == line[i] {
			j++
		}
		run := string(line[i:j])
		switch line[i] {
		case glyphCurve:
			run = CurveStyle.Render(run)
		case glyphArea:
			run = AreaStyle.Render(run)
		case glyphAxisX, glyphAxisY, glyphCross:
			run = AxisStyle.Render(run)
		}
		b.WriteString(run)
		i = j
	}
	return b.String()
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// finiteSamples drops the gaps where the function is undefined.
func finiteSamples(vs []float64) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if finite(v) {
			out = append(out, v)
		}
	}
	return out
}

func centered(s string, width int) string {
	pad := (width - len([]rune(s))) / 2
	if pad <= 0 {
		return LabelStyle.Render(s)
	}
	return strings.Repeat(" ", pad) + LabelStyle.Render(s)
}

func clamp(v, lo, hi int) int { return min(max(v, lo), hi) }
