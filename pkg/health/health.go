// Package health aggregates component checks into liveness, readiness and
// full health reports.
package health

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a component
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Check represents a single health check
type Check struct {
	Name      string            `json:"name"`
	Status    Status            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
}

// HealthReport represents the overall health of the application
type HealthReport struct {
	Status    Status           `json:"status"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    time.Duration    `json:"uptime"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// Pinger is anything with a connectivity check, such as *db.PostgresDB.
type Pinger interface {
	Ping(ctx context.Context) error
}

func newCheck(name string, start time.Time) Check {
	return Check{
		Name:      name,
		Timestamp: start,
		Details:   make(map[string]string),
	}
}

func (c *Check) finish(start time.Time, err error, component string) {
	c.Duration = time.Since(start)
	if err != nil {
		c.Status = StatusDown
		c.Message = fmt.Sprintf("%s connection failed: %v", component, err)
		c.Details["error"] = err.Error()
		return
	}
	c.Status = StatusUp
	c.Message = component + " connection successful"
	c.Details["response_time"] = c.Duration.String()
}

// PostgresChecker checks PostgreSQL connectivity
type PostgresChecker struct {
	DB   Pinger
	Name string
}

func (c *PostgresChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := newCheck(c.Name, start)
	check.finish(start, c.DB.Ping(ctx), "Database")
	return check
}

// RedisChecker checks Redis connectivity
type RedisChecker struct {
	Client *redis.Client
	Name   string
}

func (c *RedisChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := newCheck(c.Name, start)
	pong, err := c.Client.Ping(ctx).Result()
	check.finish(start, err, "Redis")
	if err == nil {
		check.Details["ping_response"] = pong
	}
	return check
}

// SessionCounter is the part of the tracker the health report needs.
type SessionCounter interface {
	Len() int
}

// TrackerChecker reports the number of tracked sessions. It is down when
// the tracker is at capacity, since new sessions would be refused.
type TrackerChecker struct {
	Tracker     SessionCounter
	MaxSessions int
	Name        string
}

func (c *TrackerChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := newCheck(c.Name, start)

	switch {
	case c.Tracker == nil:
		check.Status = StatusDown
		check.Message = "Tracker not initialized"
	default:
		n := c.Tracker.Len()
		check.Details["sessions"] = strconv.Itoa(n)
		check.Status = StatusUp
		check.Message = "Tracker is operational"
		if c.MaxSessions > 0 {
			check.Details["max_sessions"] = strconv.Itoa(c.MaxSessions)
			if n >= c.MaxSessions {
				check.Status = StatusDown
				check.Message = "Tracker at session capacity"
			}
		}
	}

	check.Duration = time.Since(start)
	return check
}

// HealthChecker orchestrates multiple health checks
type HealthChecker struct {
	checkers  []Checker
	version   string
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		checkers:  make([]Checker, 0),
		version:   version,
		startTime: time.Now(),
	}
}

// AddChecker adds a health checker
func (h *HealthChecker) AddChecker(checker Checker) {
	h.checkers = append(h.checkers, checker)
}

// CheckHealth performs all health checks
func (h *HealthChecker) CheckHealth(ctx context.Context) HealthReport {
	return h.run(ctx, h.checkers)
}

// CheckReadiness runs only the storage checks; a full tracker is still
// ready to serve reads.
func (h *HealthChecker) CheckReadiness(ctx context.Context) HealthReport {
	var ready []Checker
	for _, checker := range h.checkers {
		switch checker.(type) {
		case *PostgresChecker, *RedisChecker:
			ready = append(ready, checker)
		}
	}
	return h.run(ctx, ready)
}

// CheckLiveness performs liveness checks (basic application health)
func (h *HealthChecker) CheckLiveness(ctx context.Context) HealthReport {
	now := time.Now()
	return HealthReport{
		Status:    StatusUp,
		Version:   h.version,
		Timestamp: now,
		Checks: map[string]Check{
			"application": {
				Name:      "application",
				Status:    StatusUp,
				Message:   "Application is running",
				Timestamp: now,
			},
		},
		Uptime: time.Since(h.startTime),
	}
}

func (h *HealthChecker) run(ctx context.Context, checkers []Checker) HealthReport {
	checks := make(map[string]Check, len(checkers))
	overall := StatusUp
	for _, checker := range checkers {
		check := checker.Check(ctx)
		checks[check.Name] = check
		if check.Status == StatusDown {
			overall = StatusDown
		}
	}
	return HealthReport{
		Status:    overall,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks:    checks,
		Uptime:    time.Since(h.startTime),
	}
}
