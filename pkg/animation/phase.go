// Package animation drives the scripted route animation for one flight:
// zoom out, reveal the route, zoom to fit, then move the marker from the
// origin to the flight's computed progress.
//
// Machine is the pure state machine, advanced by explicit Tick calls.
// Sequencer owns a Machine on a single goroutine and ticks it from a timer.
package animation

import (
	"fmt"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
)

// Phase is the animation phase. Phases only move forward within a run.
type Phase int

const (
	Idle Phase = iota
	ZoomOut
	RevealPath
	ZoomToFit
	Traveling
	Settled
)

var phaseNames = [...]string{"idle", "zoom_out", "reveal_path", "zoom_to_fit", "traveling", "settled"}

func (p Phase) String() string {
	if p < Idle || p > Settled {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts the names produced by String.
func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown animation phase %q", text)
}

// Running reports whether the phase still expects ticks.
func (p Phase) Running() bool {
	return p > Idle && p < Settled
}

// State is the animation state of one flight view.
// 0 <= AnimatedProgress <= StaticProgress holds at all times.
type State struct {
	StaticProgress     float64            `json:"static_progress"`
	AnimatedProgress   float64            `json:"animated_progress"`
	PathRevealProgress float64            `json:"path_reveal_progress"`
	Viewport           geo.ViewportRegion `json:"viewport"`
	Phase              Phase              `json:"phase"`
}

// Frame is the immutable output of one tick: the state plus everything the
// renderer needs to draw the marker and the traveled part of the route.
type Frame struct {
	State

	Generation uint64 `json:"generation"`
	Tick       uint64 `json:"tick"`

	MarkerIndex   int            `json:"marker_index"`
	Marker        geo.GeoPoint   `json:"marker"`
	Pixel         geo.PixelPoint `json:"pixel"`
	Heading       float64        `json:"heading"`
	MarkerVisible bool           `json:"marker_visible"`

	// Route points [0, RevealedIndex] are drawn faint, [0, TraveledIndex] solid.
	RevealedIndex int `json:"revealed_index"`
	TraveledIndex int `json:"traveled_index"`
}
