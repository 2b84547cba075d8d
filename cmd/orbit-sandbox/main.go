// orbit-sandbox flies crafts through a scenario with live trajectory prediction
// Arrows: thrust | Space: pause | +/-: warp | z/x: zoom | c: follow | m: mute | Esc: quit
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/lixenwraith/gravpath/audio"
	"github.com/lixenwraith/gravpath/config"
	"github.com/lixenwraith/gravpath/core"
	"github.com/lixenwraith/gravpath/engine"
	"github.com/lixenwraith/gravpath/parameter"
	"github.com/lixenwraith/gravpath/physics"
)

const defaultScenario = `
[simulation]
tickstep = 32
targetticks = 8192

[body "sun"]
mass = 2000
radius = 6

[body "planet"]
parent = sun
mass = 60
radius = 2
periapsis = 90
apoapsis = 110

[body "moon"]
parent = planet
mass = 4
radius = 0.6
periapsis = 12
phase = 45

[craft "probe"]
around = planet
altitude = 4

[craft "drone"]
around = sun
altitude = 40
clockwise = true
`

var (
	styleBg     = tcell.StyleDefault.Background(tcell.NewRGBColor(26, 27, 38))
	styleBody   = styleBg.Foreground(tcell.NewRGBColor(255, 200, 80))
	styleLabel  = styleBg.Foreground(tcell.NewRGBColor(150, 150, 160))
	stylePath   = styleBg.Foreground(tcell.NewRGBColor(0, 200, 200))
	styleOther  = styleBg.Foreground(tcell.NewRGBColor(120, 120, 200))
	styleCraft  = styleBg.Foreground(tcell.NewRGBColor(0, 255, 0)).Bold(true)
	styleCrash  = styleBg.Foreground(tcell.NewRGBColor(255, 60, 60)).Bold(true)
	styleHUD    = styleBg.Foreground(tcell.NewRGBColor(200, 200, 200))
	styleThrust = styleBg.Foreground(tcell.NewRGBColor(255, 160, 50)).Bold(true)
)

type craft struct {
	id   uuid.UUID
	name string
	body *engine.SectionedSimPath
	ctrl *thrustController // nil for passive crafts
}

type sandbox struct {
	screen tcell.Screen
	sim    *engine.Simulation
	clock  *engine.ClockScheduler
	alerts *audio.AlertPlayer

	crafts  []*craft
	player  *craft
	cam     camera
	follow  bool
	warned  int64 // Predicted crash tick already pinged
	message string

	crashed <-chan string
}

func main() {
	scenarioPath := flag.String("scenario", "", "scenario INI file (built-in demo when empty)")
	debug := flag.Bool("debug", false, "write logs to "+logDir+"/"+logFileName)
	warp := flag.Int("warp", 1, "initial tick-rate multiplier")
	mute := flag.Bool("mute", false, "disable audio cues")
	flag.Parse()

	if logFile := setupLogging(*debug); logFile != nil {
		defer logFile.Close()
	}

	sc, err := loadScenario(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "orbit-sandbox: %v\n", err)
		os.Exit(1)
	}

	sb, err := newSandbox(sc, *warp, *mute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "orbit-sandbox: %v\n", err)
		os.Exit(1)
	}
	defer sb.cleanup()

	sb.run()
}

func loadScenario(path string) (*config.Scenario, error) {
	if path == "" {
		return config.Parse(defaultScenario)
	}
	return config.Load(path)
}

func newSandbox(sc *config.Scenario, warp int, mute bool) (*sandbox, error) {
	sim := engine.NewSimulation(sc.Options())
	if err := sim.DelayedInit(sc.Scene()); err != nil {
		return nil, err
	}

	crashed := make(chan string, 8)
	sb := &sandbox{
		sim:     sim,
		alerts:  audio.NewAlertPlayer(),
		follow:  true,
		warned:  -1,
		crashed: crashed,
	}

	for i, cc := range sc.Crafts() {
		pos, vel, err := cc.InitialState(sim.Field(), sc.Simulation.G)
		if err != nil {
			return nil, err
		}
		c := &craft{
			name: cc.Name,
			body: sim.CreateSectionedSimPath(pos, vel, sc.Simulation.TargetTicks, cc.CollisionRadius),
		}
		if i == 0 {
			c.ctrl = newThrustController(parameter.ThrustAccel, parameter.ThrustBurstTicks, cc.Name, crashed)
			c.id = sim.Register(c.body, c.ctrl)
			sb.player = c
		} else {
			c.id = sim.Register(c.body, coastController{crashed: crashed, name: cc.Name})
		}
		sb.crafts = append(sb.crafts, c)
	}
	if sb.player == nil {
		return nil, fmt.Errorf("scenario has no craft to fly")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	sb.screen = screen
	core.OnCrash(screen.Fini)

	w, h := screen.Size()
	sb.cam = camera{center: sb.player.body.Position(), scale: parameter.CameraInitialScale, width: w, height: h - parameter.CameraHUDRows}

	if !mute {
		if err := sb.alerts.Initialize(); err != nil {
			// Non-fatal, sandbox runs without sound
			log.Printf("audio initialization failed: %v", err)
		}
	}

	// Rendering runs on its own frame ticker, the interval signal is unused
	sb.clock, _ = engine.NewClockScheduler(sim, parameter.TickInterval)
	sb.clock.SetWarp(warp)

	log.Printf("sandbox: %d sources, %d crafts, mode %s", sim.Field().Len(), len(sb.crafts), sim.Options().Mode)
	return sb, nil
}

func (sb *sandbox) run() {
	sb.clock.Start()

	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := sb.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	for {
		select {
		case ev := <-eventChan:
			if !sb.handleInput(ev) {
				return
			}

		case name := <-sb.crashed:
			sb.message = fmt.Sprintf("%s crashed at tick %d", name, sb.sim.Tick())
			log.Printf("sandbox: %s", sb.message)
			sb.alerts.PlayCrash()

		case <-ticker.C:
			sb.checkWarning()
			sb.draw()
		}
	}
}

func (sb *sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			sb.player.ctrl.Push(mgl64.Vec3{0, 1, 0})
		case tcell.KeyDown:
			sb.player.ctrl.Push(mgl64.Vec3{0, -1, 0})
		case tcell.KeyLeft:
			sb.player.ctrl.Push(mgl64.Vec3{-1, 0, 0})
		case tcell.KeyRight:
			sb.player.ctrl.Push(mgl64.Vec3{1, 0, 0})
		case tcell.KeyRune:
			sb.handleRune(ev.Rune())
		}

	case *tcell.EventResize:
		w, h := sb.screen.Size()
		sb.cam.width, sb.cam.height = w, h-parameter.CameraHUDRows
		sb.screen.Sync()
	}
	return true
}

func (sb *sandbox) handleRune(r rune) {
	switch r {
	case ' ':
		if sb.clock.IsPaused() {
			sb.clock.Resume()
		} else {
			sb.clock.Pause()
		}
	case '+', '=':
		sb.clock.SetWarp(sb.clock.Warp() * 2)
	case '-', '_':
		sb.clock.SetWarp(sb.clock.Warp() / 2)
	case 'z':
		sb.cam.zoom(1 / parameter.CameraZoomStep)
	case 'x':
		sb.cam.zoom(parameter.CameraZoomStep)
	case 'c':
		sb.follow = !sb.follow
	case 'm':
		sb.alerts.SetMuted(!sb.alerts.Muted())
	case 'k':
		sb.player.ctrl.Cut()
	}
}

// checkWarning pings once per predicted crash when it comes within range
func (sb *sandbox) checkWarning() {
	tick, _, ok := sb.player.body.Crash()
	if !ok || tick == sb.warned {
		return
	}
	if tick-sb.player.body.Tick() <= parameter.WarningTicks {
		sb.warned = tick
		sb.alerts.PlayWarning()
	}
}

func (sb *sandbox) draw() {
	s := sb.screen
	s.SetStyle(styleBg)
	s.Clear()

	if sb.follow && !sb.player.body.Crashed() {
		sb.cam.center = sb.player.body.Position()
	}

	field := sb.sim.Field()
	states := sb.sim.SourceStates()
	for i, st := range states {
		src := field.Source(physics.SourceID(i))
		for _, cell := range sb.cam.diskCells(st.Position, src.Radius) {
			s.SetContent(cell[0], cell[1], 'O', nil, styleBody)
		}
		if x, y, ok := sb.cam.toCell(st.Position); ok {
			sb.drawString(x+1, y-1, src.Name, styleLabel)
		}
	}

	for _, c := range sb.crafts {
		style := styleOther
		if c == sb.player {
			style = stylePath
		}
		sb.drawPath(c, style)
	}

	for _, c := range sb.crafts {
		x, y, ok := sb.cam.toCell(c.body.Position())
		if !ok {
			continue
		}
		switch {
		case c.body.Crashed():
			s.SetContent(x, y, 'X', nil, styleCrash)
		case c == sb.player && c.ctrl.Thrusting():
			s.SetContent(x, y, '@', nil, styleThrust)
		default:
			s.SetContent(x, y, '@', nil, styleCraft)
		}
	}

	sb.drawHUD()
	s.Show()
}

func (sb *sandbox) drawPath(c *craft, style tcell.Style) {
	sec := c.body.GetAbsolutePath()
	if sec == nil {
		return
	}
	for i := 0; i < sec.Len(); i++ {
		pos, _ := sec.Sample(i)
		if x, y, ok := sb.cam.toCell(pos); ok {
			sb.screen.SetContent(x, y, '·', nil, style)
		}
	}
	if _, at, ok := c.body.Crash(); ok {
		if x, y, ok := sb.cam.toCell(at); ok {
			sb.screen.SetContent(x, y, 'x', nil, styleCrash)
		}
	}
}

func (sb *sandbox) drawHUD() {
	p := sb.player.body
	field := sb.sim.Field()

	soiName := "-"
	if soi, ok := p.CurrentSOI(); ok {
		soiName = field.Source(soi.Source).Name
	}

	paused := ""
	if sb.clock.IsPaused() {
		paused = " [PAUSED]"
	}

	line1 := fmt.Sprintf("tick %d  warp x%d%s  %s: %s  soi %s  |v_rel| %.2f",
		sb.sim.Tick(), sb.clock.Warp(), paused, sb.player.name, p.State(), soiName, p.RelativeVelocity().Len())
	if tick, _, ok := p.Crash(); ok {
		line1 += fmt.Sprintf("  IMPACT in %d", tick-p.Tick())
	}

	reg := sb.sim.Status().Ints
	line2 := fmt.Sprintf("gen %d  discarded %d  regen %d  | arrows thrust  space pause  +/- warp  z/x zoom  c follow  m mute  esc quit",
		reg.Get("path.generations").Load(), reg.Get("path.discarded").Load(), reg.Get("path.regen_requests").Load())
	if sb.message != "" {
		line2 = sb.message + "  | " + line2
	}

	_, h := sb.screen.Size()
	sb.drawString(0, h-parameter.CameraHUDRows, line1, styleHUD)
	sb.drawString(0, h-1, line2, styleHUD)
}

func (sb *sandbox) drawString(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		sb.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (sb *sandbox) cleanup() {
	if sb.clock != nil {
		sb.clock.Stop()
	}
	sb.alerts.Cleanup()
	if sb.screen != nil {
		sb.screen.Fini()
	}
}
