package viz

import (
	"strings"
	"testing"
)

const blank = rune(0x2800)

// on reports whether the sub-pixel at (x, y) is lit.
func on(c *Canvas, x, y int) bool {
	col, row := x/2, y/4
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func countLit(c *Canvas) int {
	n := 0
	for _, row := range c.Grid {
		for _, cell := range row {
			if cell != blank {
				n++
			}
		}
	}
	return n
}

func TestCanvasDimensions(t *testing.T) {
	c := NewCanvas(10, 4)
	out := c.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	for i, line := range lines {
		if got := len([]rune(line)); got != 10 {
			t.Errorf("line %d width = %d, want 10", i, got)
		}
	}
	if countLit(c) != 0 {
		t.Errorf("new canvas has %d lit cells, want 0", countLit(c))
	}
}

func TestSetAccumulatesWithinCell(t *testing.T) {
	c := NewCanvas(10, 4)
	c.Set(0, 0)
	c.Set(1, 1)
	want := blank | rune(pixelMap[0][0]) | rune(pixelMap[1][1])
	if c.Grid[0][0] != want {
		t.Fatalf("cell = %q, want %q", c.Grid[0][0], want)
	}
	if !on(c, 0, 0) || !on(c, 1, 1) {
		t.Error("set sub-pixels not reported lit")
	}
	if on(c, 1, 0) {
		t.Error("unset sub-pixel reported lit")
	}
}

func TestSetIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(10, 4)
	c.Set(-1, 2)
	c.Set(2, -5)
	c.Set(20, 0)
	c.Set(0, 16)
	if countLit(c) != 0 {
		t.Fatalf("out-of-range sets lit %d cells", countLit(c))
	}
}

func TestClear(t *testing.T) {
	c := NewCanvas(10, 4)
	c.DrawLine(0, 0, 19, 15)
	if countLit(c) == 0 {
		t.Fatal("line drew nothing")
	}
	c.Clear()
	if countLit(c) != 0 {
		t.Fatalf("%d cells lit after clear", countLit(c))
	}
}

func TestDrawLineHorizontal(t *testing.T) {
	c := NewCanvas(10, 4)
	c.DrawLine(0, 0, 7, 0)
	for x := 0; x <= 7; x++ {
		if !on(c, x, 0) {
			t.Errorf("sub-pixel (%d,0) not lit", x)
		}
	}
	if on(c, 8, 0) {
		t.Error("line overshoots endpoint")
	}
}

func TestRectOutline(t *testing.T) {
	c := NewCanvas(10, 4)
	c.Rect(2, 2, 17, 13)

	for _, p := range [][2]int{{2, 2}, {17, 2}, {2, 13}, {17, 13}, {9, 2}, {9, 13}, {2, 9}, {17, 9}} {
		if !on(c, p[0], p[1]) {
			t.Errorf("edge sub-pixel (%d,%d) not lit", p[0], p[1])
		}
	}
	if on(c, 9, 9) {
		t.Error("interior sub-pixel lit")
	}
	if on(c, 0, 0) {
		t.Error("sub-pixel outside rect lit")
	}
}

func TestRectNormalizesCorners(t *testing.T) {
	a := NewCanvas(10, 4)
	a.Rect(2, 2, 17, 13)
	b := NewCanvas(10, 4)
	b.Rect(17, 13, 2, 2)
	if a.String() != b.String() {
		t.Fatal("corner order changed the rectangle")
	}
}

func TestMarker(t *testing.T) {
	c := NewCanvas(10, 4)
	c.Marker(10, 8, 1)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if !on(c, 10+dx, 8+dy) {
				t.Errorf("blob sub-pixel (%d,%d) not lit", 10+dx, 8+dy)
			}
		}
	}
	if on(c, 12, 8) {
		t.Error("marker spills past its radius")
	}
}

func TestCrossLeavesCenterClear(t *testing.T) {
	c := NewCanvas(10, 4)
	c.Cross(10, 8, 3)
	for d := 1; d <= 3; d++ {
		for _, p := range [][2]int{{10 - d, 8}, {10 + d, 8}, {10, 8 - d}, {10, 8 + d}} {
			if !on(c, p[0], p[1]) {
				t.Errorf("arm sub-pixel (%d,%d) not lit", p[0], p[1])
			}
		}
	}
	if on(c, 10, 8) {
		t.Error("crosshair center lit")
	}
}
