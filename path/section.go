package path

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/gravpath/vmath"
)

// Section is a fixed-stride run of (position, velocity) samples
// Sample i sits at StartTick + i*TickStep; TickStep is a power of two
type Section struct {
	StartTick int64
	TickStep  int64

	positions  []mgl64.Vec3
	velocities []mgl64.Vec3
}

// NewSection creates an empty section, panics on a non power-of-two step
func NewSection(startTick, tickStep int64) *Section {
	if !vmath.IsPowerOfTwo(tickStep) {
		panic(fmt.Sprintf("path: tick step %d is not a power of two", tickStep))
	}
	return &Section{
		StartTick: startTick,
		TickStep:  tickStep,
	}
}

// Len returns the sample count
func (s *Section) Len() int {
	return len(s.positions)
}

// EndTick returns the tick of the last sample, StartTick when empty
func (s *Section) EndTick() int64 {
	if len(s.positions) == 0 {
		return s.StartTick
	}
	return s.StartTick + int64(len(s.positions)-1)*s.TickStep
}

// DurationTicks returns (len-1) * TickStep, zero when empty
func (s *Section) DurationTicks() int64 {
	return s.EndTick() - s.StartTick
}

// Covers reports whether tick can be interpolated
func (s *Section) Covers(tick int64) bool {
	return len(s.positions) > 0 && tick >= s.StartTick && tick <= s.EndTick()
}

// Sample returns stored sample i
func (s *Section) Sample(i int) (pos, vel mgl64.Vec3) {
	return s.positions[i], s.velocities[i]
}

// Last returns the final sample, panics when empty
func (s *Section) Last() (pos, vel mgl64.Vec3) {
	if len(s.positions) == 0 {
		panic("path: last sample of empty section")
	}
	n := len(s.positions) - 1
	return s.positions[n], s.velocities[n]
}

// Add appends a sample flattened to the simulation plane
func (s *Section) Add(position, velocity mgl64.Vec3) {
	s.positions = append(s.positions, vmath.Flatten(position))
	s.velocities = append(s.velocities, vmath.Flatten(velocity))
}

// Clone returns a deep copy
func (s *Section) Clone() *Section {
	c := &Section{
		StartTick:  s.StartTick,
		TickStep:   s.TickStep,
		positions:  make([]mgl64.Vec3, len(s.positions)),
		velocities: make([]mgl64.Vec3, len(s.velocities)),
	}
	copy(c.positions, s.positions)
	copy(c.velocities, s.velocities)
	return c
}

// locate maps tick to bounding sample index and fraction
// rem == 0 means tick sits exactly on sample i
func (s *Section) locate(tick int64) (i int, frac float64) {
	if !s.Covers(tick) {
		panic(fmt.Sprintf("path: tick %d outside section [%d, %d]", tick, s.StartTick, s.EndTick()))
	}
	offset := tick - s.StartTick
	i = int(offset / s.TickStep)
	rem := offset % s.TickStep
	return i, float64(rem) / float64(s.TickStep)
}

// PositionVelocity linearly interpolates both channels at tick
// dt is unused by the linear form, kept for signature parity with the Hermite query
func (s *Section) PositionVelocity(tick int64, dt float64) (pos, vel mgl64.Vec3) {
	i, frac := s.locate(tick)
	if frac == 0 {
		return s.positions[i], s.velocities[i]
	}
	return vmath.Lerp(s.positions[i], s.positions[i+1], frac),
		vmath.Lerp(s.velocities[i], s.velocities[i+1], frac)
}

// PositionVelocityHermite interpolates position with a cubic Hermite spline
// Tangents are sample velocities scaled by the segment time TickStep*dt
// Velocity stays linear
func (s *Section) PositionVelocityHermite(tick int64, dt float64) (pos, vel mgl64.Vec3) {
	i, frac := s.locate(tick)
	if frac == 0 {
		return s.positions[i], s.velocities[i]
	}

	segment := float64(s.TickStep) * dt
	m0 := s.velocities[i].Mul(segment)
	m1 := s.velocities[i+1].Mul(segment)

	pos = vmath.Hermite(s.positions[i], m0, s.positions[i+1], m1, frac)
	vel = vmath.Lerp(s.velocities[i], s.velocities[i+1], frac)
	return pos, vel
}

// TrimStart drops samples before beforeTick that are not needed to interpolate it
// Afterwards StartTick <= beforeTick < StartTick+TickStep while beforeTick is covered
// Trimming past EndTick empties the section
func (s *Section) TrimStart(beforeTick int64) {
	n := len(s.positions)
	if n == 0 || beforeTick <= s.StartTick {
		return
	}

	drop := int((beforeTick - s.StartTick) / s.TickStep)
	if beforeTick > s.EndTick() {
		drop = n
	}
	if drop == 0 {
		return
	}

	kept := copy(s.positions, s.positions[drop:])
	copy(s.velocities, s.velocities[drop:])
	s.positions = s.positions[:kept]
	s.velocities = s.velocities[:kept]
	s.StartTick += int64(drop) * s.TickStep
}

// Append extends s with other, which must continue exactly from s's last sample
// The shared boundary sample is stored once
func (s *Section) Append(other *Section) {
	if other.TickStep != s.TickStep {
		panic(fmt.Sprintf("path: append tick step %d onto %d", other.TickStep, s.TickStep))
	}
	if len(s.positions) == 0 || len(other.positions) == 0 {
		panic("path: append with empty section")
	}
	if other.StartTick != s.EndTick() {
		panic(fmt.Sprintf("path: append starts at tick %d, section ends at %d", other.StartTick, s.EndTick()))
	}

	lastPos, lastVel := s.Last()
	if !sameBits(lastPos, other.positions[0]) || !sameBits(lastVel, other.velocities[0]) {
		panic(fmt.Sprintf("path: append boundary mismatch at tick %d: %v/%v vs %v/%v",
			other.StartTick, lastPos, lastVel, other.positions[0], other.velocities[0]))
	}

	s.positions = append(s.positions, other.positions[1:]...)
	s.velocities = append(s.velocities, other.velocities[1:]...)
}

func sameBits(a, b mgl64.Vec3) bool {
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}
