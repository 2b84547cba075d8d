package main

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/gravpath/engine"
)

// thrustController turns key presses into short constant-thrust bursts
// Terminals report no key release, so each press holds thrust for burstTicks
type thrustController struct {
	mu         sync.Mutex
	dir        mgl64.Vec3
	remaining  int64
	accel      float64
	burstTicks int64

	crashed chan<- string
	name    string
}

func newThrustController(accel float64, burstTicks int64, name string, crashed chan<- string) *thrustController {
	return &thrustController{
		accel:      accel,
		burstTicks: burstTicks,
		name:       name,
		crashed:    crashed,
	}
}

// Push starts or refreshes a burst toward dir
func (c *thrustController) Push(dir mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dir = dir
	c.remaining = c.burstTicks
}

// Cut ends the current burst
func (c *thrustController) Cut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = 0
}

// Thrusting reports whether a burst is active
func (c *thrustController) Thrusting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining > 0
}

func (c *thrustController) ExternalForce(tick int64, body *engine.SectionedSimPath) mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining <= 0 || c.dir.Len() == 0 {
		return mgl64.Vec3{}
	}
	c.remaining--
	return c.dir.Normalize().Mul(c.accel)
}

func (c *thrustController) OnCrash(tick int64, body *engine.SectionedSimPath) {
	notifyCrash(c.crashed, c.name)
}

// coastController is a passive craft that only reports its crash
type coastController struct {
	crashed chan<- string
	name    string
}

func (c coastController) ExternalForce(int64, *engine.SectionedSimPath) mgl64.Vec3 {
	return mgl64.Vec3{}
}

func (c coastController) OnCrash(tick int64, body *engine.SectionedSimPath) {
	notifyCrash(c.crashed, c.name)
}

func notifyCrash(ch chan<- string, name string) {
	if ch == nil {
		return
	}
	select {
	case ch <- name:
	default:
	}
}
