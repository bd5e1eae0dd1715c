package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposite(t *testing.T) {
	bg := "aaaaaaaa\nbbbbbbbb\ncccccccc"

	got := Composite("XX\nYY", bg, 1, 3)
	assert.Equal(t, "aaaaaaaa\nbbbXXbbb\ncccYYccc", got)
}

func TestCompositePadsShortBackground(t *testing.T) {
	got := Composite("XX", "ab\ncd", 0, 4)
	assert.Equal(t, "ab  XX\ncd", got)
}

func TestCompositeDropsOverflowRows(t *testing.T) {
	got := Composite("X\nY\nZ", "aa\nbb", 1, 0)
	assert.Equal(t, "aa\nXb", got)
}

func TestCompositeNegativePositionClampsToOrigin(t *testing.T) {
	got := Composite("XX", "aaaa", -2, -2)
	assert.Equal(t, "XXaa", got)
}

func TestBottomRight(t *testing.T) {
	bg := "aaaaaaaaaa\nbbbbbbbbbb\ncccccccccc"

	got := BottomRight("TT", bg, 10, 3)
	assert.Equal(t, "aaaaaaaaaa\nbbbbbbbbbb\ncccccccTTc", got)
}

func TestCompositeEmptyOverlayIsNoop(t *testing.T) {
	assert.Equal(t, "aa\nbb", Composite("", "aa\nbb", 0, 0))
}
