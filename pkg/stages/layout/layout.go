// Package layout implements the sprite grid calculation stage.
package layout

import (
	"context"

	"github.com/user/framesnap/pkg/pipeline"
)

// Stage calculates where each frame goes on the sprite sheet.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute calculates the grid based on the input parameters.
func (s *Stage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	return ComputeLayout(input), nil
}

// ComputeLayout performs the grid calculation.
// This is exposed as a standalone function for testing and reuse.
//
// Cells are filled row by row. Each cell is surrounded by its border, and
// the optional label sits below the border. Gap separates bordered cells,
// label included; Padding surrounds the whole grid.
func ComputeLayout(input pipeline.LayoutInput) pipeline.LayoutResult {
	padding := max(input.Padding, 0)
	gap := max(input.Gap, 0)
	border := max(input.BorderWidth, 0)
	label := max(input.LabelHeight, 0)
	cellWidth := max(input.CellWidth, 1)
	cellHeight := max(input.CellHeight, 1)

	if input.FrameCount <= 0 {
		return pipeline.LayoutResult{
			Canvas: pipeline.Dimension{Width: max(padding*2, 1), Height: max(padding*2, 1)},
			Cells:  []pipeline.Rectangle{},
		}
	}

	columns := max(input.Columns, 1)
	if columns > input.FrameCount {
		columns = input.FrameCount
	}
	rows := (input.FrameCount + columns - 1) / columns

	// Pitch is the distance between the origins of neighboring cells.
	outerWidth := cellWidth + border*2
	outerHeight := cellHeight + border*2 + label
	pitchX := outerWidth + gap
	pitchY := outerHeight + gap

	cells := make([]pipeline.Rectangle, input.FrameCount)
	var labels []pipeline.Rectangle
	if label > 0 {
		labels = make([]pipeline.Rectangle, input.FrameCount)
	}

	for i := 0; i < input.FrameCount; i++ {
		col := i % columns
		row := i / columns
		outerX := padding + col*pitchX
		outerY := padding + row*pitchY

		cells[i] = pipeline.Rectangle{
			X:      outerX + border,
			Y:      outerY + border,
			Width:  cellWidth,
			Height: cellHeight,
		}
		if labels != nil {
			labels[i] = pipeline.Rectangle{
				X:      outerX,
				Y:      outerY + border*2 + cellHeight,
				Width:  outerWidth,
				Height: label,
			}
		}
	}

	return pipeline.LayoutResult{
		Canvas: pipeline.Dimension{
			Width:  padding*2 + columns*outerWidth + (columns-1)*gap,
			Height: padding*2 + rows*outerHeight + (rows-1)*gap,
		},
		Columns: columns,
		Rows:    rows,
		Border:  border,
		Cells:   cells,
		Labels:  labels,
	}
}
