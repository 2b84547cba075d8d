package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// cellAspect compensates for terminal cells being about twice as tall as wide
const cellAspect = 2.0

// camera maps simulation-plane coordinates to terminal cells, +Y up
type camera struct {
	center mgl64.Vec3
	scale  float64 // Simulation units per cell column
	width  int
	height int
}

// toCell returns the cell of world point p and whether it is on screen
func (c camera) toCell(p mgl64.Vec3) (x, y int, ok bool) {
	d := p.Sub(c.center)
	fx := float64(c.width)/2 + d.X()/c.scale
	fy := float64(c.height)/2 - d.Y()/(c.scale*cellAspect)
	x, y = int(math.Floor(fx)), int(math.Floor(fy))
	ok = x >= 0 && x < c.width && y >= 0 && y < c.height
	return x, y, ok
}

// toWorld returns the world point at the center of cell x, y
func (c camera) toWorld(x, y int) mgl64.Vec3 {
	dx := (float64(x) + 0.5 - float64(c.width)/2) * c.scale
	dy := (float64(c.height)/2 - float64(y) - 0.5) * c.scale * cellAspect
	return c.center.Add(mgl64.Vec3{dx, dy, 0})
}

// zoom scales the view by factor, clamped to sane bounds
func (c *camera) zoom(factor float64) {
	c.scale = min(max(c.scale*factor, 1e-3), 1e6)
}

// diskCells returns the screen cells covered by a disk, at least its center cell
func (c camera) diskCells(center mgl64.Vec3, radius float64) [][2]int {
	cx, cy, ok := c.toCell(center)
	var cells [][2]int

	rx := int(math.Ceil(radius / c.scale))
	ry := int(math.Ceil(radius / (c.scale * cellAspect)))
	for y := cy - ry; y <= cy+ry; y++ {
		for x := cx - rx; x <= cx+rx; x++ {
			if x < 0 || x >= c.width || y < 0 || y >= c.height {
				continue
			}
			if c.toWorld(x, y).Sub(center).Len() <= radius {
				cells = append(cells, [2]int{x, y})
			}
		}
	}

	if len(cells) == 0 && ok {
		cells = append(cells, [2]int{cx, cy})
	}
	return cells
}
