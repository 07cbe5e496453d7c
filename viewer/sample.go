// Package viewer shows rendered images in a window or a terminal and turns key presses into view changes.
package viewer

import (
	"image/color"
	"math"

	"MandelbrotRenderer/task"
)

// Sample returns the color img shows at pixel (column, row) of view. When img was rendered for another view it is
// stretched and moved the way the view changed, so the old image stands in until a new one arrives. ok is false
// outside of img.
func Sample(img task.Image, view task.Parameters, column int, row int) (c color.RGBA, ok bool) {
	if img.Pixels == nil || img.ScaleFactorUsed <= 0 {
		return color.RGBA{}, false
	}
	x := view.CenterX + float64(column-view.Width/2)*view.ScaleFactor
	y := view.CenterY + float64(row-view.Height/2)*view.ScaleFactor

	source := img.Parameters
	sourceColumn := int(math.Floor((x-source.CenterX)/img.ScaleFactorUsed + 0.5)) + source.Width/2
	sourceRow := int(math.Floor((y-source.CenterY)/img.ScaleFactorUsed + 0.5)) + source.Height/2
	if sourceColumn < 0 || sourceColumn >= source.Width || sourceRow < 0 || sourceRow >= source.Height {
		return color.RGBA{}, false
	}
	return img.Pixels.RGBAAt(sourceColumn, sourceRow), true
}
