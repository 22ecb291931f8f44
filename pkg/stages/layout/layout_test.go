package layout

import (
	"context"
	"testing"

	"github.com/user/framesnap/pkg/pipeline"
)

func TestComputeLayout_Grid(t *testing.T) {
	input := pipeline.LayoutInput{
		FrameCount:  7,
		CellWidth:   160,
		CellHeight:  90,
		Columns:     3,
		Gap:         4,
		Padding:     8,
		BorderWidth: 1,
	}

	result := ComputeLayout(input)

	if result.Columns != 3 || result.Rows != 3 {
		t.Errorf("grid: expected 3x3, got %dx%d", result.Columns, result.Rows)
	}
	// 8*2 + 3*162 + 2*4 = 510, 8*2 + 3*92 + 2*4 = 300
	if result.Canvas.Width != 510 || result.Canvas.Height != 300 {
		t.Errorf("canvas: expected 510x300, got %dx%d", result.Canvas.Width, result.Canvas.Height)
	}
	if len(result.Cells) != 7 {
		t.Fatalf("expected 7 cells, got %d", len(result.Cells))
	}

	expected := map[int]pipeline.Rectangle{
		0: {X: 9, Y: 9, Width: 160, Height: 90},
		2: {X: 341, Y: 9, Width: 160, Height: 90},
		4: {X: 175, Y: 105, Width: 160, Height: 90},
		6: {X: 9, Y: 201, Width: 160, Height: 90},
	}
	for i, want := range expected {
		if got := result.Cells[i]; got != want {
			t.Errorf("cells[%d]: expected %+v, got %+v", i, want, got)
		}
	}

	if result.Labels != nil {
		t.Errorf("expected no labels, got %v", result.Labels)
	}

	// The last cell's border touches the padding on the right.
	last := result.Cells[2]
	if right := last.X + last.Width + input.BorderWidth + input.Padding; right != result.Canvas.Width {
		t.Errorf("right edge: expected %d, got %d", result.Canvas.Width, right)
	}
}

func TestComputeLayout_Labels(t *testing.T) {
	result := ComputeLayout(pipeline.LayoutInput{
		FrameCount:  3,
		CellWidth:   160,
		CellHeight:  90,
		Columns:     3,
		Gap:         4,
		Padding:     8,
		BorderWidth: 1,
		LabelHeight: 14,
	})

	if result.Canvas.Height != 8*2+106 {
		t.Errorf("canvas height: expected %d, got %d", 8*2+106, result.Canvas.Height)
	}
	if len(result.Labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(result.Labels))
	}
	want := pipeline.Rectangle{X: 8, Y: 100, Width: 162, Height: 14}
	if result.Labels[0] != want {
		t.Errorf("labels[0]: expected %+v, got %+v", want, result.Labels[0])
	}
	if result.Labels[1].X != 8+166 {
		t.Errorf("labels[1].X: expected %d, got %d", 8+166, result.Labels[1].X)
	}
}

func TestComputeLayout_FewerFramesThanColumns(t *testing.T) {
	result := ComputeLayout(pipeline.LayoutInput{
		FrameCount: 2,
		CellWidth:  100,
		CellHeight: 50,
		Columns:    5,
	})

	if result.Columns != 2 || result.Rows != 1 {
		t.Errorf("grid: expected 2x1, got %dx%d", result.Columns, result.Rows)
	}
	if result.Canvas.Width != 200 || result.Canvas.Height != 50 {
		t.Errorf("canvas: expected 200x50, got %dx%d", result.Canvas.Width, result.Canvas.Height)
	}
}

func TestComputeLayout_Degenerate(t *testing.T) {
	tests := []struct {
		name  string
		input pipeline.LayoutInput
		cells int
		cols  int
	}{
		{"no frames", pipeline.LayoutInput{FrameCount: 0, CellWidth: 10, CellHeight: 10, Columns: 3, Padding: 4}, 0, 0},
		{"zero columns", pipeline.LayoutInput{FrameCount: 3, CellWidth: 10, CellHeight: 10, Columns: 0}, 3, 1},
		{"negative spacing", pipeline.LayoutInput{FrameCount: 2, CellWidth: 10, CellHeight: 10, Columns: 2, Gap: -5, Padding: -5}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeLayout(tt.input)
			if len(result.Cells) != tt.cells {
				t.Errorf("expected %d cells, got %d", tt.cells, len(result.Cells))
			}
			if result.Columns != tt.cols {
				t.Errorf("expected %d columns, got %d", tt.cols, result.Columns)
			}
			if result.Canvas.Width < 1 || result.Canvas.Height < 1 {
				t.Errorf("canvas must be at least 1x1, got %+v", result.Canvas)
			}
			for i, c := range result.Cells {
				if c.X < 0 || c.Y < 0 {
					t.Errorf("cells[%d] outside canvas: %+v", i, c)
				}
			}
		})
	}
}

func TestStage_Execute(t *testing.T) {
	input := pipeline.DefaultLayoutInput()
	input.FrameCount = 10
	input.CellWidth = 128
	input.CellHeight = 72

	result, err := NewStage().Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Columns != 5 || result.Rows != 2 {
		t.Errorf("grid: expected 5x2, got %dx%d", result.Columns, result.Rows)
	}
	if len(result.Cells) != 10 {
		t.Errorf("expected 10 cells, got %d", len(result.Cells))
	}
}
