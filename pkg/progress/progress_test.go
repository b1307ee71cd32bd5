package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

// compute evaluates w with zone-less timestamps read as UTC.
func compute(w Window, now time.Time) float64 {
	return NewCalculator(nil).Compute(w, now)
}

func activeWindow(status string) Window {
	return Window{
		ScheduledDeparture: "2025-06-18T10:00:00Z",
		ScheduledArrival:   "2025-06-18T14:00:00Z",
		Status:             status,
	}
}

func TestCompute_ActiveHalfway(t *testing.T) {
	now := mustTime(t, "2025-06-18T12:00:00Z")
	assert.Equal(t, 0.5, compute(activeWindow("active"), now))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status   string
		expected Class
	}{
		{"Scheduled", PreDeparture},
		{"BOARDING", PreDeparture},
		{"delayed", PreDeparture},
		{"Arrived", Arrived},
		{"Landed 14:02", Arrived},
		{"In Air", Airborne},
		{"Airborne", Airborne},
		{"EnRoute", Airborne},
		{"en-route", Airborne},
		{"En Route", Airborne},
		{"active", Airborne},
		{"Departed", Departed},
		{"Takeoff", Departed},
		{"Cancelled", Unclassified},
		{"", Unclassified},
		{"   ", Unclassified},
		{"ÀRRIVED", Arrived},
		{"Décollé", Unclassified},
		{"Atterri", Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.status))
		})
	}
}

func TestCompute_StatusOnlyClasses(t *testing.T) {
	windows := []Window{
		activeWindow(""),
		{},
		{ScheduledDeparture: "garbage", ScheduledArrival: "2025-06-18T14:00:00Z"},
		{ActualDeparture: "2025-06-18T10:00:00Z", ActualArrival: "2025-06-18T10:00:00Z"},
	}
	nows := []time.Time{
		mustTime(t, "2000-01-01T00:00:00Z"),
		mustTime(t, "2025-06-18T12:00:00Z"),
		mustTime(t, "2099-01-01T00:00:00Z"),
	}

	for _, w := range windows {
		for _, now := range nows {
			w.Status = "Landed"
			assert.Equal(t, 1.0, compute(w, now))
			w.Status = "flight scheduled"
			assert.Equal(t, 0.0, compute(w, now))
		}
	}
}

func TestCompute_UnavailableTimestamps(t *testing.T) {
	now := mustTime(t, "2025-06-18T12:00:00Z")

	w := activeWindow("active")
	w.ScheduledArrival = ""
	assert.Equal(t, 0.0, compute(w, now))

	w = activeWindow("departed")
	w.ScheduledDeparture = "18/06/2025 10:00"
	assert.Equal(t, 0.0, compute(w, now))

	w = activeWindow("unknown")
	w.ScheduledDeparture = "not a time"
	assert.Equal(t, 0.0, compute(w, now))
}

func TestCompute_JustDeparted(t *testing.T) {
	now := mustTime(t, "2025-06-18T13:30:00Z")
	assert.Equal(t, JustDeparted, compute(activeWindow("Departed"), now))
}

func TestCompute_AirborneClamps(t *testing.T) {
	w := activeWindow("en-route")
	assert.Equal(t, 0.0, compute(w, mustTime(t, "2025-06-18T09:00:00Z")))
	assert.Equal(t, 1.0, compute(w, mustTime(t, "2025-06-18T15:00:00Z")))
	assert.Equal(t, 0.25, compute(w, mustTime(t, "2025-06-18T11:00:00Z")))
}

func TestCompute_Unclassified(t *testing.T) {
	w := activeWindow("Diverted")
	assert.Equal(t, 0.0, compute(w, mustTime(t, "2025-06-18T09:59:59Z")))
	assert.Equal(t, 1.0, compute(w, mustTime(t, "2025-06-18T14:00:01Z")))
	assert.Equal(t, 0.75, compute(w, mustTime(t, "2025-06-18T13:00:00Z")))
	assert.Equal(t, 0.0, compute(w, mustTime(t, "2025-06-18T10:00:00Z")))
	assert.Equal(t, 1.0, compute(w, mustTime(t, "2025-06-18T14:00:00Z")))
}

func TestCompute_ZeroDuration(t *testing.T) {
	for _, status := range []string{"active", "unknown"} {
		w := Window{
			ScheduledDeparture: "2025-06-18T10:00:00Z",
			ScheduledArrival:   "2025-06-18T10:00:00Z",
			Status:             status,
		}
		assert.Equal(t, 0.0, compute(w, mustTime(t, "2025-06-18T09:00:00Z")), status)
		assert.Equal(t, 1.0, compute(w, mustTime(t, "2025-06-18T10:00:00Z")), status)
		assert.Equal(t, 1.0, compute(w, mustTime(t, "2025-06-18T11:00:00Z")), status)
	}
}

func TestCompute_MonotonicInNow(t *testing.T) {
	dep := mustTime(t, "2025-06-18T10:00:00Z")
	arr := mustTime(t, "2025-06-18T14:00:00Z")

	for _, status := range []string{"active", "in air", "something else", ""} {
		w := activeWindow(status)
		prev := -1.0
		for now := dep; !now.After(arr); now = now.Add(7 * time.Minute) {
			p := compute(w, now)
			assert.GreaterOrEqual(t, p, prev, "status %q at %s", status, now)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			prev = p
		}
	}
}

func TestCompute_TimestampPriority(t *testing.T) {
	base := Window{
		ScheduledDeparture: "2025-06-18T10:00:00Z",
		EstimatedDeparture: "2025-06-18T10:30:00Z",
		ActualDeparture:    "2025-06-18T11:00:00Z",
		ScheduledArrival:   "2025-06-18T14:00:00Z",
		EstimatedArrival:   "2025-06-18T15:00:00Z",
		Status:             "active",
	}
	now := mustTime(t, "2025-06-18T13:00:00Z")

	tests := []struct {
		name      string
		mutate    func(w *Window)
		departure string
		arrival   string
		progress  float64
	}{
		{
			name:      "actual beats estimated and scheduled",
			mutate:    func(w *Window) {},
			departure: "2025-06-18T11:00:00Z",
			arrival:   "2025-06-18T15:00:00Z",
			progress:  0.5,
		},
		{
			name:      "unparseable actual falls through to the estimate",
			mutate:    func(w *Window) { w.ActualDeparture = "garbage" },
			departure: "2025-06-18T10:30:00Z",
			arrival:   "2025-06-18T15:00:00Z",
			progress:  0.5555555555555556,
		},
		{
			name: "unparseable actual and estimate fall through to the schedule",
			mutate: func(w *Window) {
				w.ActualDeparture = "soon"
				w.EstimatedDeparture = "later"
			},
			departure: "2025-06-18T10:00:00Z",
			arrival:   "2025-06-18T15:00:00Z",
			progress:  0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := base
			tt.mutate(&w)

			r := NewCalculator(nil).Evaluate(w, now)
			assert.True(t, r.TimesAvailable)
			assert.Equal(t, Airborne, r.Class)
			assert.Equal(t, mustTime(t, tt.departure), r.Departure)
			assert.Equal(t, mustTime(t, tt.arrival), r.Arrival)
			assert.InDelta(t, tt.progress, compute(w, now), 1e-12)
		})
	}
}

func TestCompute_ZonelessTimestampsUseLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("time zone database not available")
	}

	w := Window{
		ScheduledDeparture: "2025-06-18 10:00:00",
		ScheduledArrival:   "2025-06-18T14:00:00",
		Status:             "active",
		DepartureLocation:  ny,
		ArrivalLocation:    ny,
	}
	// 12:00 New York (EDT) is 16:00 UTC.
	assert.Equal(t, 0.5, compute(w, mustTime(t, "2025-06-18T16:00:00Z")))

	w.DepartureLocation, w.ArrivalLocation = nil, nil
	assert.Equal(t, 0.5, NewCalculator(ny).Compute(w, mustTime(t, "2025-06-18T16:00:00Z")))
	assert.Equal(t, 1.0, compute(w, mustTime(t, "2025-06-18T16:00:00Z")), "UTC default puts 16:00 after arrival")
}

func TestClass_String(t *testing.T) {
	text, err := Airborne.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "airborne", string(text))
	assert.Equal(t, "unclassified", Class(42).String())
}
