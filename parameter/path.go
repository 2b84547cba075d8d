package parameter

// Path Prediction
const (
	// PathTickStep is the sample stride of generated paths, power of two
	PathTickStep = 32

	// PathTargetTicks is the horizon a live body keeps predicted ahead
	PathTargetTicks = 8192

	// PathExtendDivisor sets the minimum extension chunk as target/divisor
	// Avoids a new generation every tick once the horizon dips below target
	PathExtendDivisor = 4

	// PathSliceBudget is internal steps per Step call in cooperative generation mode
	PathSliceBudget = 16

	// CollisionRadius is the default body radius used for crash sweeps
	CollisionRadius = 0.5
)

// Gravity
const (
	// GravityConstant is the default G of a scenario
	GravityConstant = 1.0

	// ForceRescaling damps sources outside the primary's ancestor chain, 1 disables
	ForceRescaling = 2.0
)
