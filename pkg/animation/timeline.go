package animation

import (
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
)

// Timeline holds the fixed durations and framing constants of a run.
type Timeline struct {
	TickRate int `json:"tick_rate"` // ticks per second

	ZoomOutHold    time.Duration `json:"zoom_out_hold"`
	RevealDuration time.Duration `json:"reveal_duration"`
	ZoomDuration   time.Duration `json:"zoom_duration"`
	TravelDuration time.Duration `json:"travel_duration"`

	ZoomOutFactor float64  `json:"zoom_out_factor"`
	FitPadding    float64  `json:"fit_padding"`
	BottomPanel   float64  `json:"bottom_panel"` // fraction of the screen height covered by the detail panel
	Size          geo.Size `json:"size"`
}

// DefaultTimeline matches the phone-sized detail screen.
func DefaultTimeline() Timeline {
	return Timeline{
		TickRate:       30,
		ZoomOutHold:    600 * time.Millisecond,
		RevealDuration: 1200 * time.Millisecond,
		ZoomDuration:   1000 * time.Millisecond,
		TravelDuration: 2500 * time.Millisecond,
		ZoomOutFactor:  1.8,
		FitPadding:     0.2,
		BottomPanel:    0.35,
		Size:           geo.Size{W: 390, H: 844},
	}
}

// withDefaults fills unset fields from DefaultTimeline. Durations may be
// zero on purpose, so only negative values are replaced.
func (t Timeline) withDefaults() Timeline {
	d := DefaultTimeline()
	if t.TickRate <= 0 {
		t.TickRate = d.TickRate
	}
	if t.ZoomOutHold < 0 {
		t.ZoomOutHold = d.ZoomOutHold
	}
	if t.RevealDuration < 0 {
		t.RevealDuration = d.RevealDuration
	}
	if t.ZoomDuration < 0 {
		t.ZoomDuration = d.ZoomDuration
	}
	if t.TravelDuration < 0 {
		t.TravelDuration = d.TravelDuration
	}
	if t.ZoomOutFactor < 1 {
		t.ZoomOutFactor = d.ZoomOutFactor
	}
	if t.FitPadding < 0 {
		t.FitPadding = d.FitPadding
	}
	if t.BottomPanel < 0 || t.BottomPanel >= 1 {
		t.BottomPanel = d.BottomPanel
	}
	if t.Size.W <= 0 || t.Size.H <= 0 {
		t.Size = d.Size
	}
	return t
}

// TickInterval is the period between ticks.
func (t Timeline) TickInterval() time.Duration {
	rate := t.TickRate
	if rate <= 0 {
		rate = DefaultTimeline().TickRate
	}
	return time.Second / time.Duration(rate)
}

// Total is the wall-clock length of a complete run.
func (t Timeline) Total() time.Duration {
	return t.ZoomOutHold + t.RevealDuration + t.ZoomDuration + t.TravelDuration
}

func (t Timeline) duration(p Phase) time.Duration {
	switch p {
	case ZoomOut:
		return t.ZoomOutHold
	case RevealPath:
		return t.RevealDuration
	case ZoomToFit:
		return t.ZoomDuration
	case Traveling:
		return t.TravelDuration
	}
	return 0
}

// EaseInOut is the quadratic ease-in-out curve, clamped to [0, 1].
func EaseInOut(t float64) float64 {
	t = geo.Clamp(t, 0, 1)
	var v float64
	if t < 0.5 {
		v = 2 * t * t
	} else {
		v = -1 + (4-2*t)*t
	}
	return geo.Clamp(v, 0, 1)
}
