// Package tracker owns the live flight sessions: one animation sequencer per
// tracked flight, refreshed on a cron schedule from the flight data source.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/animation"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/progress"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many tracked sessions")
	ErrInvalidFlightID = errors.New("invalid flight id")
	ErrTrackerClosed   = errors.New("tracker closed")
)

// freshSource is implemented by sources that can bypass their cache.
type freshSource interface {
	Fresh(ctx context.Context, flightID string) (*flights.Detail, error)
}

// Options configures a Tracker beyond its TrackerConfig.
type Options struct {
	Timeline     animation.Timeline
	PathSegments int
	// Calculator reads zone-less timestamps the airports' zones do not
	// cover. Nil uses UTC.
	Calculator *progress.Calculator
	// Now replaces time.Now for progress evaluation.
	Now func() time.Time
}

// Tracker manages the tracked sessions.
type Tracker struct {
	source   flights.Source
	resolver *flights.Resolver
	cfg      config.TrackerConfig
	opts     Options

	ctx    context.Context
	cancel context.CancelFunc

	mutex    sync.RWMutex
	sessions map[string]*Session
	closed   bool

	cronMu sync.Mutex
	cron   *cron.Cron
}

// New creates a Tracker.
func New(source flights.Source, resolver *flights.Resolver, cfg config.TrackerConfig, opts Options) *Tracker {
	if resolver == nil {
		resolver = flights.NewResolver(nil)
	}
	if opts.PathSegments <= 0 {
		opts.PathSegments = geo.PrimarySegments
	}
	if opts.Calculator == nil {
		opts.Calculator = progress.NewCalculator(time.UTC)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if cfg.RefreshConcurrency <= 0 {
		cfg.RefreshConcurrency = 1
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		source:   source,
		resolver: resolver,
		cfg:      cfg,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
}

// Track starts a session for flightID. A zero size uses the configured
// viewport size.
func (t *Tracker) Track(ctx context.Context, flightID string, size geo.Size) (*Session, error) {
	id := flights.NormalizeID(flightID)
	if id == "" {
		return nil, ErrInvalidFlightID
	}
	if err := t.admit(); err != nil {
		return nil, err
	}

	detail, err := t.source.Detail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", id, err)
	}
	route, path, result, err := t.build(ctx, detail)
	if err != nil {
		return nil, err
	}

	tl := t.opts.Timeline
	if size.W > 0 && size.H > 0 {
		tl.Size = size
	}

	sess := newSession(uuid.New().String(), id, t.cfg.SubscriberBuffer, t.opts.Now())
	sess.set(*detail, route, path, result, t.opts.Now())
	sess.seq = animation.NewSequencer(tl, sess.broadcast, animation.WithLabel(sess.ID))

	runCtx, cancel := context.WithCancel(t.ctx)
	sess.cancel = cancel
	go func() {
		if err := sess.seq.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error(err, "Sequencer stopped", "session_id", sess.ID)
		}
	}()

	if _, err := sess.seq.Load(ctx, path, result.Progress); err != nil {
		cancel()
		return nil, fmt.Errorf("start animation: %w", err)
	}

	t.mutex.Lock()
	if t.closed || (t.cfg.MaxSessions > 0 && len(t.sessions) >= t.cfg.MaxSessions) {
		closed := t.closed
		t.mutex.Unlock()
		cancel()
		if closed {
			return nil, ErrTrackerClosed
		}
		return nil, ErrTooManySessions
	}
	t.sessions[sess.ID] = sess
	t.mutex.Unlock()

	logger.Info("Session started",
		"session_id", sess.ID,
		"flight", id,
		"status", detail.Status,
		"progress", result.Progress,
		"class", result.Class.String(),
	)
	return sess, nil
}

func (t *Tracker) admit() error {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	if t.closed {
		return ErrTrackerClosed
	}
	if t.cfg.MaxSessions > 0 && len(t.sessions) >= t.cfg.MaxSessions {
		return ErrTooManySessions
	}
	return nil
}

// build resolves d and computes its progress and path.
func (t *Tracker) build(ctx context.Context, d *flights.Detail) (flights.Route, geo.RoutePath, progress.Result, error) {
	route, err := t.resolver.Resolve(ctx, d)
	if err != nil {
		return flights.Route{}, geo.RoutePath{}, progress.Result{}, err
	}
	result := t.opts.Calculator.Evaluate(route.Window, t.opts.Now())
	path := geo.GeneratePathN(route.From, route.To, t.opts.PathSegments)
	return route, path, result, nil
}

// Get returns the session with the given id.
func (t *Tracker) Get(id string) (*Session, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	s, ok := t.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Sessions returns the tracked sessions ordered by creation time.
func (t *Tracker) Sessions() []*Session {
	t.mutex.RLock()
	out := make([]*Session, 0, len(t.sessions))
	for _, s := range t.sessions {
		out = append(out, s)
	}
	t.mutex.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of tracked sessions.
func (t *Tracker) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.sessions)
}

// Dismiss stops the session's animation and forgets it. No frame of the
// session is published after Dismiss returns.
func (t *Tracker) Dismiss(ctx context.Context, id string) error {
	t.mutex.Lock()
	s, ok := t.sessions[id]
	if ok {
		delete(t.sessions, id)
	}
	t.mutex.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	t.teardown(ctx, s)
	logger.Info("Session dismissed", "session_id", id, "flight", s.FlightID)
	return nil
}

func (t *Tracker) teardown(ctx context.Context, s *Session) {
	if _, err := s.seq.Dismiss(ctx); err != nil && !errors.Is(err, animation.ErrStopped) {
		logger.Warn("Sequencer dismiss failed", "session_id", s.ID, "error", err)
	}
	s.cancel()
	<-s.seq.Done()
	s.closeSubscribers()
}

// Refresh re-fetches every tracked flight and restarts the animation of
// sessions whose record changed. It returns the number of restarted
// sessions. Per-session failures are logged, not returned.
func (t *Tracker) Refresh(ctx context.Context) (int, error) {
	sessions := t.Sessions()
	if len(sessions) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.RefreshConcurrency)

	var mu sync.Mutex
	restarted := 0
	for _, s := range sessions {
		g.Go(func() error {
			changed, err := t.refreshSession(gctx, s)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("Session refresh failed", "session_id", s.ID, "flight", s.FlightID, "error", err)
				return nil
			}
			if changed {
				mu.Lock()
				restarted++
				mu.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()
	return restarted, err
}

func (t *Tracker) refreshSession(ctx context.Context, s *Session) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.RefreshTimeout)
	defer cancel()

	var detail *flights.Detail
	var err error
	if fs, ok := t.source.(freshSource); ok {
		detail, err = fs.Fresh(ctx, s.FlightID)
	} else {
		detail, err = t.source.Detail(ctx, s.FlightID)
	}
	if err != nil {
		return false, err
	}

	if detail.Equal(s.detailCopy()) {
		return false, nil
	}

	route, path, result, err := t.build(ctx, detail)
	if err != nil {
		return false, err
	}
	s.set(*detail, route, path, result, t.opts.Now())
	if _, err := s.seq.Load(ctx, path, result.Progress); err != nil {
		return false, fmt.Errorf("restart animation: %w", err)
	}
	s.restarted()

	logger.Info("Session restarted on new flight detail",
		"session_id", s.ID,
		"flight", s.FlightID,
		"status", detail.Status,
		"progress", result.Progress,
	)
	return true, nil
}

// Start schedules Refresh on the configured cron spec. An empty spec
// disables periodic refresh.
func (t *Tracker) Start() error {
	if t.cfg.RefreshSchedule == "" {
		logger.Info("Periodic session refresh disabled")
		return nil
	}

	t.cronMu.Lock()
	defer t.cronMu.Unlock()
	if t.cron != nil {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(t.cfg.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(t.ctx, t.cfg.RefreshTimeout)
		defer cancel()
		start := time.Now()
		n, err := t.Refresh(ctx)
		if err != nil {
			logger.Warn("Scheduled refresh aborted", "error", err)
			return
		}
		logger.Debug("Scheduled refresh complete", "restarted", n, "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}
	c.Start()
	t.cron = c
	logger.Info("Session refresh scheduled", "schedule", t.cfg.RefreshSchedule)
	return nil
}

// Stop stops the refresh schedule, waiting for a running refresh, then
// dismisses every session.
func (t *Tracker) Stop(ctx context.Context) {
	t.cronMu.Lock()
	if t.cron != nil {
		stopped := t.cron.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
		}
		t.cron = nil
	}
	t.cronMu.Unlock()

	t.mutex.Lock()
	t.closed = true
	sessions := t.sessions
	t.sessions = make(map[string]*Session)
	t.mutex.Unlock()

	for _, s := range sessions {
		t.teardown(ctx, s)
	}
	t.cancel()
	logger.Info("Tracker stopped", "sessions", len(sessions))
}
