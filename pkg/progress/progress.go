// Package progress turns a flight's status text and its scheduled,
// estimated and actual timestamps into a completion fraction in [0, 1].
package progress

import (
	"strings"
	"time"

	anyascii "github.com/anyascii/go"
	"golang.org/x/text/cases"
)

// JustDeparted is the fixed progress reported for flights whose status says
// they have only just left the gate or runway.
const JustDeparted = 0.1

// Window is the set of candidate timestamps and the status of one flight,
// as received from the flight record. Empty strings mean "not provided".
type Window struct {
	ScheduledDeparture string `json:"scheduled_departure"`
	EstimatedDeparture string `json:"estimated_departure,omitempty"`
	ActualDeparture    string `json:"actual_departure,omitempty"`
	ScheduledArrival   string `json:"scheduled_arrival"`
	EstimatedArrival   string `json:"estimated_arrival,omitempty"`
	ActualArrival      string `json:"actual_arrival,omitempty"`
	Status             string `json:"status"`

	// Locations used for zone-less departure/arrival timestamps, typically
	// the airports' time zones. Nil falls back to the calculator default.
	DepartureLocation *time.Location `json:"-"`
	ArrivalLocation   *time.Location `json:"-"`
}

// Class is the coarse flight phase derived from the status text.
type Class int

const (
	Unclassified Class = iota
	PreDeparture
	Arrived
	Airborne
	Departed
)

func (c Class) String() string {
	switch c {
	case PreDeparture:
		return "pre_departure"
	case Arrived:
		return "arrived"
	case Airborne:
		return "airborne"
	case Departed:
		return "departed"
	default:
		return "unclassified"
	}
}

func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Keywords per class, matched as substrings of the normalised status in
// this order.
var classKeywords = []struct {
	class    Class
	keywords []string
}{
	{PreDeparture, []string{"scheduled", "boarding", "delayed"}},
	{Arrived, []string{"arrived", "landed"}},
	{Airborne, []string{"air", "enroute", "en-route", "en route", "active"}},
	{Departed, []string{"departed", "takeoff", "take-off"}},
}

// Classify maps free-text status to a Class using case-insensitive
// substring matching. Accents and non-Latin scripts are transliterated to
// ASCII first.
func Classify(status string) Class {
	s := cases.Fold().String(anyascii.Transliterate(strings.TrimSpace(status)))
	if s == "" {
		return Unclassified
	}
	for _, ck := range classKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(s, kw) {
				return ck.class
			}
		}
	}
	return Unclassified
}

// Result is the outcome of evaluating a Window at a point in time.
type Result struct {
	Progress       float64   `json:"progress"`
	Class          Class     `json:"class"`
	Departure      time.Time `json:"departure"`
	Arrival        time.Time `json:"arrival"`
	TimesAvailable bool      `json:"times_available"`
}

// Calculator computes flight progress. The zero value is usable and reads
// zone-less timestamps as UTC.
type Calculator struct {
	// Location for zone-less timestamps when the Window does not carry one.
	Location *time.Location
}

// NewCalculator returns a Calculator that reads zone-less timestamps in loc.
func NewCalculator(loc *time.Location) *Calculator {
	return &Calculator{Location: loc}
}

// Compute returns the completion fraction of the flight at now.
func (c *Calculator) Compute(w Window, now time.Time) float64 {
	return c.Evaluate(w, now).Progress
}

// Evaluate is Compute with the intermediate classification and the chosen
// departure and arrival instants.
func (c *Calculator) Evaluate(w Window, now time.Time) Result {
	r := Result{Class: Classify(w.Status)}

	// Status alone settles these two; timestamps are irrelevant.
	switch r.Class {
	case PreDeparture:
		r.Progress = 0
		return r
	case Arrived:
		r.Progress = 1
		return r
	}

	dep, depOK := BestTimestamp(c.location(w.DepartureLocation),
		w.ActualDeparture, w.EstimatedDeparture, w.ScheduledDeparture)
	arr, arrOK := BestTimestamp(c.location(w.ArrivalLocation),
		w.ActualArrival, w.EstimatedArrival, w.ScheduledArrival)
	if !depOK || !arrOK {
		return r
	}
	r.Departure, r.Arrival, r.TimesAvailable = dep, arr, true

	switch r.Class {
	case Airborne:
		r.Progress = timeRatio(dep, arr, now)
	case Departed:
		r.Progress = JustDeparted
	default:
		switch {
		case now.Before(dep):
			r.Progress = 0
		case now.After(arr):
			r.Progress = 1
		default:
			r.Progress = timeRatio(dep, arr, now)
		}
	}
	return r
}

func (c *Calculator) location(loc *time.Location) *time.Location {
	if loc != nil {
		return loc
	}
	if c != nil && c.Location != nil {
		return c.Location
	}
	return time.UTC
}

// timeRatio is (now-dep)/(arr-dep) clamped to [0, 1]. A zero (or negative)
// duration counts as complete once now reaches departure.
func timeRatio(dep, arr, now time.Time) float64 {
	total := arr.Sub(dep)
	if total <= 0 {
		if now.Before(dep) {
			return 0
		}
		return 1
	}
	f := float64(now.Sub(dep)) / float64(total)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
