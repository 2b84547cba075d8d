package path

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/gravpath/physics"
)

// SimPath is one prediction: an absolute section, one relative section per
// gravity source, the ordered SOI list and an optional crash
// Every section shares StartTick, TickStep and sample count
type SimPath struct {
	Absolute *Section
	Relative map[physics.SourceID]*Section
	SOIs     []SOI

	Crashed       bool
	CrashTick     int64
	CrashPosition mgl64.Vec3
	CrashSource   physics.SourceID
}

// NewSimPath creates an empty path with one relative section per source
func NewSimPath(startTick, tickStep int64, sourceCount int) *SimPath {
	p := &SimPath{
		Absolute:    NewSection(startTick, tickStep),
		Relative:    make(map[physics.SourceID]*Section, sourceCount),
		CrashSource: physics.NoSource,
	}
	for i := 0; i < sourceCount; i++ {
		p.Relative[physics.SourceID(i)] = NewSection(startTick, tickStep)
	}
	return p
}

// StartTick returns the first sampled tick
func (p *SimPath) StartTick() int64 { return p.Absolute.StartTick }

// EndTick returns the last sampled tick
func (p *SimPath) EndTick() int64 { return p.Absolute.EndTick() }

// CrashedBy reports whether the predicted crash tick has been reached
func (p *SimPath) CrashedBy(tick int64) bool {
	return p.Crashed && p.CrashTick <= tick
}

// RelativeTo returns the section expressed relative to source id
func (p *SimPath) RelativeTo(id physics.SourceID) (*Section, bool) {
	s, ok := p.Relative[id]
	return s, ok
}

// SOIAt returns the sphere of influence active at tick
func (p *SimPath) SOIAt(tick int64) (SOI, bool) {
	return soiAt(p.SOIs, tick)
}

// TrimStart trims every section in lock-step and drops SOIs that ended before the new start
func (p *SimPath) TrimStart(beforeTick int64) {
	p.Absolute.TrimStart(beforeTick)
	for _, s := range p.Relative {
		s.TrimStart(beforeTick)
	}

	start := p.Absolute.StartTick
	drop := 0
	for drop < len(p.SOIs) && p.SOIs[drop].EndTick < start {
		drop++
	}
	if drop > 0 {
		p.SOIs = p.SOIs[drop:]
	}
}

// Append extends p with a continuation generated from p's last sample
// A crashed path cannot be extended; crash fields are taken from other
func (p *SimPath) Append(other *SimPath) {
	if p.Crashed {
		panic(fmt.Sprintf("path: extending a path that crashed at tick %d", p.CrashTick))
	}
	if len(other.Relative) != len(p.Relative) {
		panic(fmt.Sprintf("path: append with %d relative sections onto %d", len(other.Relative), len(p.Relative)))
	}

	p.Absolute.Append(other.Absolute)
	for id, s := range p.Relative {
		o, ok := other.Relative[id]
		if !ok {
			panic(fmt.Sprintf("path: append missing relative section for source %d", id))
		}
		s.Append(o)
	}

	p.SOIs = mergeSOIs(p.SOIs, other.SOIs)

	p.Crashed = other.Crashed
	p.CrashTick = other.CrashTick
	p.CrashPosition = other.CrashPosition
	p.CrashSource = other.CrashSource
}

// Clone returns a deep copy safe to hand to another goroutine
func (p *SimPath) Clone() *SimPath {
	c := &SimPath{
		Absolute:      p.Absolute.Clone(),
		Relative:      make(map[physics.SourceID]*Section, len(p.Relative)),
		SOIs:          make([]SOI, len(p.SOIs)),
		Crashed:       p.Crashed,
		CrashTick:     p.CrashTick,
		CrashPosition: p.CrashPosition,
		CrashSource:   p.CrashSource,
	}
	for id, s := range p.Relative {
		c.Relative[id] = s.Clone()
	}
	copy(c.SOIs, p.SOIs)
	return c
}
