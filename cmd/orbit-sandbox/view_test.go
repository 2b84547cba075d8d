package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestCameraRoundTrip(t *testing.T) {
	c := camera{center: mgl64.Vec3{10, -4, 0}, scale: 0.5, width: 80, height: 24}

	x, y, ok := c.toCell(c.center)
	assert.True(t, ok)
	assert.Equal(t, 40, x)
	assert.Equal(t, 12, y)

	for _, cell := range [][2]int{{0, 0}, {40, 12}, {79, 23}} {
		w := c.toWorld(cell[0], cell[1])
		x, y, ok := c.toCell(w)
		assert.True(t, ok)
		assert.Equal(t, cell[0], x)
		assert.Equal(t, cell[1], y)
	}
}

func TestCameraYUp(t *testing.T) {
	c := camera{scale: 1, width: 40, height: 20}
	_, yUp, _ := c.toCell(mgl64.Vec3{0, 6, 0})
	_, yDown, _ := c.toCell(mgl64.Vec3{0, -6, 0})
	assert.Less(t, yUp, yDown)

	_, _, ok := c.toCell(mgl64.Vec3{1000, 0, 0})
	assert.False(t, ok)
}

func TestDiskCells(t *testing.T) {
	c := camera{scale: 1, width: 40, height: 20}

	// Tiny body still gets its center cell
	assert.Len(t, c.diskCells(mgl64.Vec3{}, 0.01), 1)

	big := c.diskCells(mgl64.Vec3{}, 5)
	assert.Greater(t, len(big), 10)
	for _, cell := range big {
		assert.LessOrEqual(t, c.toWorld(cell[0], cell[1]).Len(), 5.0)
	}
}

func TestCameraZoomClamp(t *testing.T) {
	c := camera{scale: 1}
	c.zoom(1e-9)
	assert.Equal(t, 1e-3, c.scale)
	c.zoom(1e12)
	assert.Equal(t, 1e6, c.scale)
}
