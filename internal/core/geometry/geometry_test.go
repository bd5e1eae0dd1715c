package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampWidth(t *testing.T) {
	tests := []struct {
		name                         string
		desired, min, max, available int
		want                         int
	}{
		{"within bounds", 50, 30, 80, 100, 50},
		{"below minimum", 10, 30, 80, 100, 30},
		{"above maximum", 95, 30, 80, 100, 80},
		{"container narrower than min", 50, 30, 80, 20, 20},
		{"no max", 95, 30, 0, 100, 95},
		{"never below one", 0, 0, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampWidth(tt.desired, tt.min, tt.max, tt.available))
		})
	}
}

func TestAnchorAt(t *testing.T) {
	anchor := Rect{Row: 5, Col: 2, Width: 40, Height: 3}

	got := AnchorAt(anchor, 6, 24)
	assert.Equal(t, Rect{Row: 5, Col: 2, Width: 40, Height: 6}, got)

	// Pushed up when it would overflow the container bottom.
	got = AnchorAt(Rect{Row: 21, Col: 0, Width: 40, Height: 2}, 6, 24)
	assert.Equal(t, 18, got.Row)

	// Never negative, even in a container shorter than the box.
	got = AnchorAt(Rect{Row: 0, Col: 0, Width: 40, Height: 1}, 10, 4)
	assert.Equal(t, 0, got.Row)
}

func TestAnchorBelow(t *testing.T) {
	anchor := Rect{Row: 5, Col: 2, Width: 40, Height: 3}

	got := AnchorBelow(anchor, 1, 24)
	assert.Equal(t, 8, got.Row, "directly below the anchor's last row")
	assert.Equal(t, 2, got.Col)

	// Clamped to the last container row at the bottom.
	got = AnchorBelow(Rect{Row: 22, Col: 0, Width: 40, Height: 2}, 1, 24)
	assert.Equal(t, 23, got.Row)
}
