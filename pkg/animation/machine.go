package animation

import (
	"math"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
)

// Machine is the animation state machine for a single flight view. It does
// no scheduling of its own: callers feed it wall-clock instants via Tick.
// A Machine is not safe for concurrent use; Sequencer confines one to a
// single goroutine.
type Machine struct {
	timeline Timeline

	route      geo.RoutePath
	wide       geo.ViewportRegion
	fit        geo.ViewportRegion
	staticHead float64

	state      State
	phaseStart time.Time
	tick       uint64
	generation uint64
}

// NewMachine returns an Idle machine using tl (zero fields take defaults).
func NewMachine(tl Timeline) *Machine {
	return &Machine{timeline: tl.withDefaults()}
}

// Timeline returns the effective timeline.
func (m *Machine) Timeline() Timeline { return m.timeline }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.state.Phase }

// State returns a copy of the current state.
func (m *Machine) State() State { return m.state }

// Generation counts Load and Dismiss calls; frames from an older run carry
// an older generation.
func (m *Machine) Generation() uint64 { return m.generation }

// Route returns the path of the current run.
func (m *Machine) Route() geo.RoutePath { return m.route }

// Load starts a new run for route with the given computed progress. Any run
// in progress is discarded first; two flights are never blended.
func (m *Machine) Load(route geo.RoutePath, staticProgress float64, now time.Time) Frame {
	m.reset()

	if math.IsNaN(staticProgress) {
		staticProgress = 0
	}
	m.route = route
	m.wide = geo.Cover(route.First(), route.Last()).Widen(m.timeline.ZoomOutFactor)
	m.fit = geo.FitRoute(route.First(), route.Last(), m.timeline.FitPadding, m.timeline.BottomPanel)
	m.staticHead = geo.Heading(route.First(), route.Last())

	m.state = State{
		StaticProgress: geo.Clamp(staticProgress, 0, 1),
		Viewport:       m.wide,
		Phase:          ZoomOut,
	}
	m.phaseStart = now
	return m.Frame()
}

// Dismiss tears the run down and returns to Idle. Ticks after Dismiss are
// no-ops until the next Load.
func (m *Machine) Dismiss() Frame {
	m.reset()
	return m.Frame()
}

func (m *Machine) reset() {
	m.generation++
	m.tick = 0
	m.route = geo.RoutePath{}
	m.wide, m.fit = geo.ViewportRegion{}, geo.ViewportRegion{}
	m.staticHead = 0
	m.state = State{Phase: Idle}
	m.phaseStart = time.Time{}
}

// Tick advances the machine to now and returns the resulting frame. If now
// lies past one or more phase boundaries, every skipped phase is completed
// in order. Ticks in Idle or Settled change nothing.
func (m *Machine) Tick(now time.Time) Frame {
	if !m.state.Phase.Running() {
		return m.Frame()
	}
	m.tick++

	for m.state.Phase.Running() {
		d := m.timeline.duration(m.state.Phase)
		elapsed := now.Sub(m.phaseStart)
		if d > 0 && elapsed < d {
			m.apply(float64(elapsed) / float64(d))
			break
		}
		m.complete()
		m.phaseStart = m.phaseStart.Add(d)
		m.state.Phase++
	}
	return m.Frame()
}

// apply sets the values of the current phase at fraction f of its duration.
func (m *Machine) apply(f float64) {
	f = geo.Clamp(f, 0, 1)
	switch m.state.Phase {
	case RevealPath:
		m.state.PathRevealProgress = EaseInOut(f)
	case ZoomToFit:
		m.state.Viewport = geo.LerpViewport(EaseInOut(f), m.wide, m.fit)
	case Traveling:
		m.state.AnimatedProgress = m.state.StaticProgress * EaseInOut(f)
	}
}

// complete sets the end values of the current phase exactly.
func (m *Machine) complete() {
	switch m.state.Phase {
	case RevealPath:
		m.state.PathRevealProgress = 1
	case ZoomToFit:
		m.state.Viewport = m.fit
	case Traveling:
		m.state.AnimatedProgress = m.state.StaticProgress
	}
}

// Frame derives the render output from the current state.
func (m *Machine) Frame() Frame {
	f := Frame{
		State:      m.state,
		Generation: m.generation,
		Tick:       m.tick,
	}
	if m.state.Phase == Idle || m.route.Empty() {
		return f
	}

	f.RevealedIndex = m.route.IndexFor(m.state.PathRevealProgress)
	f.TraveledIndex = m.route.IndexFor(m.state.AnimatedProgress * m.state.PathRevealProgress)
	f.MarkerIndex = m.route.IndexFor(m.state.AnimatedProgress)
	f.Marker = m.route.At(f.MarkerIndex)
	f.Pixel = geo.Project(f.Marker, m.state.Viewport, m.timeline.Size)
	f.MarkerVisible = m.state.Phase >= RevealPath

	if m.state.Phase >= Traveling {
		f.Heading = m.route.HeadingAt(f.MarkerIndex)
	} else {
		f.Heading = m.staticHead
	}
	return f
}
