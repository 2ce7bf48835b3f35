package cmd

import (
	"image/color"
	"math"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
)

// PlotLines opens a chart sized to the segments and blocks while it is displayed
func PlotLines(lines map[color.RGBA][]float32) {
	xMin, xMax, yMin, yMax := lineBounds(lines, 0.05)
	ch := chart2d.NewChart2D(xMin, xMax, yMin, yMax,
		1024, 1024, utils2.WHITE, utils2.BLACK)
	for col, line := range lines {
		ch.AddLine(line, col)
	}
	for {
	}
}

// AddLine appends the segment (x1,y1)-(x2,y2) to the lines drawn in col
func AddLine(x1, y1, x2, y2 float64, col color.RGBA,
	lines map[color.RGBA][]float32) {
	lines[col] = append(lines[col],
		float32(x1), float32(y1),
		float32(x2), float32(y2),
	)
}

// lineBounds returns the extent of every vertex, padded by margin times the
// range on each side
func lineBounds(lines map[color.RGBA][]float32, margin float32) (xMin, xMax, yMin, yMax float32) {
	xMin, xMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
	yMin, yMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
	for _, line := range lines {
		for i := 0; i+1 < len(line); i += 2 {
			x, y := line[i], line[i+1]
			xMin, xMax = min(xMin, x), max(xMax, x)
			yMin, yMax = min(yMin, y), max(yMax, y)
		}
	}
	if xMin > xMax {
		return 0, 1, 0, 1
	}
	dx, dy := margin*(xMax-xMin), margin*(yMax-yMin)
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	return xMin - dx, xMax + dx, yMin - dy, yMax + dy
}
