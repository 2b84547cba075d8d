package parameter

// Sandbox camera configuration
const (
	// CameraInitialScale is simulation units per cell column at startup
	CameraInitialScale = 1.0

	// CameraZoomStep is the scale factor applied per zoom key
	CameraZoomStep = 2.0

	// CameraHUDRows is reserved for the status lines at the bottom
	CameraHUDRows = 2
)

// Sandbox thrust
const (
	// ThrustAccel is the external acceleration of one burst
	ThrustAccel = 4.0

	// ThrustBurstTicks is how long one key press thrusts, terminals report no key release
	ThrustBurstTicks = 10
)
