package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/gravpath/vmath"
)

// Integrate advances one semi-implicit Euler step on the simulation plane
// Velocity first, then position with the new velocity
// Shared by live dead reckoning and background path generation so both stay consistent
func Integrate(position, velocity, accel mgl64.Vec3, dt float64) (newPos, newVel mgl64.Vec3) {
	newVel = vmath.Flatten(velocity.Add(accel.Mul(dt)))
	newPos = vmath.Flatten(position.Add(newVel.Mul(dt)))
	return newPos, newVel
}
