package renderer

import "fmt"

// traceCoords maps a (x, y_normalized) pair into screen space, flipping y
// (normalized 0 is the bottom of the row) and applying the row offset and
// height scaling, matching the reference implementation's closure of the
// same name.
func traceCoords(vp Viewport, offset, heightScalingFactor float32) func(x, yNorm float32) Point {
	return func(x, yNorm float32) Point {
		return vp.ToScreen(x, (1.0-yNorm)*vp.LineHeight*heightScalingFactor+offset)
	}
}

// processAnalogPoints walks consecutive region pairs, emitting a filled
// rectangle for special/non-numeric regions and delegating numeric regions
// to pointEmit, which decides what connects consecutive numeric points
// (step's vertical+horizontal pair, or interpolated's single diagonal).
func processAnalogPoints(commands DrawingCommands, offset, heightScalingFactor float32, minVal, maxVal float64, vp Viewport, pointEmit func(start, end Point, lastPoint *Point) []Primitive) []Primitive {
	var out []Primitive
	valueRange := maxVal - minVal
	coords := traceCoords(vp, offset, heightScalingFactor)

	var lastPoint *Point

	values := commands.Values
	for i := 0; i+1 < len(values); i++ {
		oldX := values[i].X
		newX := values[i+1].X
		region := values[i].Inner
		if region == nil {
			continue
		}

		numericValue, numOk := ParseNumericValue(region.Value)
		if isSpecialKind(region.Kind) || !numOk {
			rectMin := vp.ToScreen(oldX, offset)
			rectMax := vp.ToScreen(newX, offset+vp.LineHeight*heightScalingFactor)
			out = append(out, FilledRect{
				XMin: rectMin.X, YMin: rectMin.Y,
				XMax: rectMax.X, YMax: rectMax.Y,
				Color: region.Kind,
			})
			lastPoint = nil
			continue
		}

		var normalized float32
		if abs64(valueRange) > epsilon {
			normalized = float32((numericValue - minVal) / valueRange)
		} else {
			normalized = 0.5
		}

		start := coords(oldX, normalized)
		end := coords(newX, normalized)
		out = append(out, pointEmit(start, end, lastPoint)...)
		lastPoint = &start
	}
	return out
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// renderStepMode emits a vertical transition segment whenever the row
// changes by more than one screen pixel between consecutive regions, then
// the horizontal segment for the current region's duration.
func renderStepMode(commands DrawingCommands, offset, heightScalingFactor float32, minVal, maxVal float64, vp Viewport) []Primitive {
	return processAnalogPoints(commands, offset, heightScalingFactor, minVal, maxVal, vp, func(start, end Point, lastPoint *Point) []Primitive {
		var prims []Primitive
		if lastPoint != nil {
			if abs32(lastPoint.Y-start.Y) > 1.0 {
				prims = append(prims, Line{From: Point{X: start.X, Y: lastPoint.Y}, To: start})
			}
		}
		prims = append(prims, Line{From: start, To: end})
		return prims
	})
}

// renderInterpolatedMode connects each region's start point to the
// previous one with a single diagonal segment.
func renderInterpolatedMode(commands DrawingCommands, offset, heightScalingFactor float32, minVal, maxVal float64, vp Viewport) []Primitive {
	return processAnalogPoints(commands, offset, heightScalingFactor, minVal, maxVal, vp, func(start, _ Point, lastPoint *Point) []Primitive {
		if lastPoint == nil {
			return nil
		}
		return []Primitive{Line{From: *lastPoint, To: start}}
	})
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// drawAmplitudeLabels emits the "max: …" / "min: …" labels, right-justified
// against frameWidth, each with a translucent background rectangle sized
// from the caller-supplied glyph measurer.
func drawAmplitudeLabels(offset, heightScalingFactor float32, minVal, maxVal float64, frameWidth float32, vp Viewport, cfg Config, measure GlyphMeasurer) []Primitive {
	coords := traceCoords(vp, offset, heightScalingFactor)

	textSizeMultiplier := cfg.TextSizeMultiplierHigh
	if heightScalingFactor <= cfg.TextSizeMultiplierThreshold {
		textSizeMultiplier = cfg.TextSizeMultiplierLow
	}
	textSize := vp.TextSize * textSizeMultiplier

	maxText := fmt.Sprintf("max: %.2f", maxVal)
	minText := fmt.Sprintf("min: %.2f", minVal)

	maxW, maxH := measure(maxText, textSize)
	minW, minH := measure(minText, textSize)

	maxTextWidth := maxW
	if minW > maxTextWidth {
		maxTextWidth = minW
	}
	labelX := frameWidth - maxTextWidth - 5.0

	maxPos := coords(labelX, 1.0)
	minPos := coords(labelX, 0.0)

	return []Primitive{
		Label{
			TextPos: maxPos, Align: "top", Text: maxText,
			TextSize: textSize, TextAlpha: cfg.LabelAlpha, BackgroundAlpha: cfg.BackgroundAlpha,
			BgMin: Point{X: maxPos.X - 2.0, Y: maxPos.Y - 2.0},
			BgMax: Point{X: maxPos.X - 2.0 + maxW + 4.0, Y: maxPos.Y - 2.0 + maxH + 4.0},
		},
		Label{
			TextPos: minPos, Align: "bottom", Text: minText,
			TextSize: textSize, TextAlpha: cfg.LabelAlpha, BackgroundAlpha: cfg.BackgroundAlpha,
			BgMin: Point{X: minPos.X - 2.0, Y: minPos.Y - minH - 2.0},
			BgMax: Point{X: minPos.X - 2.0 + minW + 4.0, Y: minPos.Y - minH - 2.0 + minH + 4.0},
		},
	}
}
