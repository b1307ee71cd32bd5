package animation

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
)

// ErrStopped is returned by commands sent after Run has returned.
var ErrStopped = errors.New("animation: sequencer stopped")

// Sink receives every frame the sequencer produces, on the sequencer's
// goroutine. It must not block.
type Sink func(Frame)

type commandKind int

const (
	cmdLoad commandKind = iota
	cmdDismiss
)

type command struct {
	kind     commandKind
	route    geo.RoutePath
	progress float64
	reply    chan Frame
}

// Sequencer plays the animation of one Machine on a single goroutine. All
// writes to the animation state happen inside Run; other goroutines read
// it through Snapshot.
type Sequencer struct {
	machine *Machine
	sink    Sink
	now     func() time.Time
	label   string

	commands chan command
	done     chan struct{}
	started  atomic.Bool
	latest   atomic.Pointer[Frame]
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock replaces time.Now as the source of tick instants.
func WithClock(now func() time.Time) Option {
	return func(s *Sequencer) { s.now = now }
}

// WithLabel tags the sequencer's log lines, usually with a session id.
func WithLabel(label string) Option {
	return func(s *Sequencer) { s.label = label }
}

// NewSequencer returns a sequencer for tl. sink may be nil.
func NewSequencer(tl Timeline, sink Sink, opts ...Option) *Sequencer {
	s := &Sequencer{
		machine:  NewMachine(tl),
		sink:     sink,
		now:      time.Now,
		commands: make(chan command),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	f := s.machine.Frame()
	s.latest.Store(&f)
	return s
}

// Timeline returns the effective timeline.
func (s *Sequencer) Timeline() Timeline { return s.machine.Timeline() }

// Run processes commands and ticks until ctx is cancelled. It must be
// called exactly once.
func (s *Sequencer) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("animation: sequencer already running")
	}
	defer close(s.done)

	var ticker *time.Ticker
	var ticks <-chan time.Time
	stop := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, ticks = nil, nil
		}
	}
	defer stop()

	log := logger.WithField("sequencer", s.label)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-s.commands:
			// Ticks of the previous run are never read again: the old
			// ticker is stopped and its channel dropped before anything else.
			stop()

			var f Frame
			switch cmd.kind {
			case cmdLoad:
				f = s.machine.Load(cmd.route, cmd.progress, s.now())
				ticker = time.NewTicker(s.machine.Timeline().TickInterval())
				ticks = ticker.C
				log.Debug("Animation loaded", "generation", f.Generation, "progress", f.StaticProgress)
			case cmdDismiss:
				f = s.machine.Dismiss()
				log.Debug("Animation dismissed", "generation", f.Generation)
			}
			s.publish(f)
			cmd.reply <- f

		case <-ticks:
			f := s.machine.Tick(s.now())
			s.publish(f)
			if !f.Phase.Running() {
				stop()
				log.Debug("Animation settled", "generation", f.Generation, "ticks", f.Tick)
			}
		}
	}
}

func (s *Sequencer) publish(f Frame) {
	s.latest.Store(&f)
	if s.sink != nil {
		s.sink(f)
	}
}

// Load starts a new run, replacing any run in progress, and returns its
// first frame.
func (s *Sequencer) Load(ctx context.Context, route geo.RoutePath, staticProgress float64) (Frame, error) {
	return s.send(ctx, command{kind: cmdLoad, route: route, progress: staticProgress})
}

// Dismiss cancels the current run and returns the sequencer to Idle.
func (s *Sequencer) Dismiss(ctx context.Context) (Frame, error) {
	return s.send(ctx, command{kind: cmdDismiss})
}

func (s *Sequencer) send(ctx context.Context, cmd command) (Frame, error) {
	cmd.reply = make(chan Frame, 1)
	select {
	case s.commands <- cmd:
	case <-s.done:
		return Frame{}, ErrStopped
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
	// Run always replies once it has accepted a command.
	return <-cmd.reply, nil
}

// Snapshot returns the most recently published frame.
func (s *Sequencer) Snapshot() Frame {
	return *s.latest.Load()
}

// Done is closed when Run returns.
func (s *Sequencer) Done() <-chan struct{} {
	return s.done
}
