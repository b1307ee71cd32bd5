package tracker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/animation"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/progress"
	"github.com/brunoga/deep"
)

// Session is one tracked flight view. Its animation state is owned by the
// session's Sequencer; everything else is guarded by mu.
type Session struct {
	ID        string
	FlightID  string
	CreatedAt time.Time

	seq    *animation.Sequencer
	cancel func()

	mu        sync.RWMutex
	detail    flights.Detail
	route     flights.Route
	path      geo.RoutePath
	result    progress.Result
	updatedAt time.Time
	restarts  int

	subsMu  sync.Mutex
	subs    map[chan animation.Frame]struct{}
	closed  bool
	buffer  int
	dropped atomic.Uint64
}

// View is a point-in-time copy of a session, safe to hand to other
// goroutines and to serialize.
type View struct {
	SessionID     string          `json:"session_id"`
	FlightID      string          `json:"flight_id"`
	Detail        flights.Detail  `json:"detail"`
	From          geo.GeoPoint    `json:"from"`
	To            geo.GeoPoint    `json:"to"`
	DistanceMiles float64         `json:"distance_miles"`
	Progress      progress.Result `json:"progress"`
	Frame         animation.Frame `json:"frame"`
	Restarts      int             `json:"restarts"`
	DroppedFrames uint64          `json:"dropped_frames"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newSession(id, flightID string, buffer int, now time.Time) *Session {
	if buffer <= 0 {
		buffer = 1
	}
	return &Session{
		ID:        id,
		FlightID:  flightID,
		CreatedAt: now,
		updatedAt: now,
		subs:      make(map[chan animation.Frame]struct{}),
		buffer:    buffer,
	}
}

// Snapshot returns a copy of the session with the latest animation frame.
func (s *Session) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		SessionID:     s.ID,
		FlightID:      s.FlightID,
		Detail:        deep.MustCopy(s.detail),
		From:          s.route.From,
		To:            s.route.To,
		DistanceMiles: geo.DistanceMiles(s.route.From, s.route.To),
		Progress:      s.result,
		Frame:         s.seq.Snapshot(),
		Restarts:      s.restarts,
		DroppedFrames: s.dropped.Load(),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.updatedAt,
	}
}

// Path returns the route path currently being animated.
func (s *Session) Path() geo.RoutePath {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Frame returns the latest animation frame.
func (s *Session) Frame() animation.Frame {
	return s.seq.Snapshot()
}

// Timeline returns the session's effective animation timeline.
func (s *Session) Timeline() animation.Timeline {
	return s.seq.Timeline()
}

func (s *Session) detailCopy() flights.Detail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return deep.MustCopy(s.detail)
}

func (s *Session) set(d flights.Detail, route flights.Route, path geo.RoutePath, result progress.Result, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = d
	s.route = route
	s.path = path
	s.result = result
	s.updatedAt = now
}

func (s *Session) restarted() {
	s.mu.Lock()
	s.restarts++
	s.mu.Unlock()
}

// Subscribe returns a channel receiving every frame published from now on
// and a function that ends the subscription. Frames are dropped, not
// queued, when the subscriber falls more than the buffer behind. The
// channel is closed when the session is dismissed.
func (s *Session) Subscribe() (<-chan animation.Frame, func()) {
	ch := make(chan animation.Frame, s.buffer)

	s.subsMu.Lock()
	if s.closed {
		s.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Session) Subscribers() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return len(s.subs)
}

// broadcast is the sequencer's sink. It runs on the sequencer goroutine
// and never blocks.
func (s *Session) broadcast(f animation.Frame) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- f:
		default:
			s.dropped.Add(1)
		}
	}
}

// closeSubscribers closes every subscriber channel; later Subscribe calls
// get an already closed channel.
func (s *Session) closeSubscribers() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
}
