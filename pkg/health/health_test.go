package health

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubCounter int

func (c stubCounter) Len() int { return int(c) }

func TestHealthChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h := NewHealthChecker("v1.2.3")
	h.AddChecker(&RedisChecker{Client: client, Name: "redis"})
	h.AddChecker(&PostgresChecker{DB: stubPinger{}, Name: "postgres"})
	h.AddChecker(&TrackerChecker{Tracker: stubCounter(3), MaxSessions: 10, Name: "tracker"})
	ctx := context.Background()

	report := h.CheckHealth(ctx)
	assert.Equal(t, StatusUp, report.Status)
	assert.Equal(t, "v1.2.3", report.Version)
	assert.Len(t, report.Checks, 3)
	assert.Equal(t, "PONG", report.Checks["redis"].Details["ping_response"])
	assert.Equal(t, "3", report.Checks["tracker"].Details["sessions"])

	ready := h.CheckReadiness(ctx)
	assert.Equal(t, StatusUp, ready.Status)
	assert.NotContains(t, ready.Checks, "tracker")

	mr.Close()
	report = h.CheckHealth(ctx)
	assert.Equal(t, StatusDown, report.Status)
	assert.Equal(t, StatusDown, report.Checks["redis"].Status)
	assert.NotEmpty(t, report.Checks["redis"].Details["error"])
}

func TestPostgresChecker_Down(t *testing.T) {
	check := (&PostgresChecker{DB: stubPinger{err: errors.New("refused")}, Name: "postgres"}).Check(context.Background())
	assert.Equal(t, StatusDown, check.Status)
	assert.Contains(t, check.Message, "refused")
}

func TestTrackerChecker(t *testing.T) {
	ctx := context.Background()

	full := (&TrackerChecker{Tracker: stubCounter(5), MaxSessions: 5, Name: "tracker"}).Check(ctx)
	assert.Equal(t, StatusDown, full.Status)

	unlimited := (&TrackerChecker{Tracker: stubCounter(500), Name: "tracker"}).Check(ctx)
	assert.Equal(t, StatusUp, unlimited.Status)

	missing := (&TrackerChecker{Name: "tracker"}).Check(ctx)
	assert.Equal(t, StatusDown, missing.Status)
}

func TestCheckLiveness(t *testing.T) {
	h := NewHealthChecker("dev")
	h.AddChecker(&PostgresChecker{DB: stubPinger{err: errors.New("down")}, Name: "postgres"})
	report := h.CheckLiveness(context.Background())
	assert.Equal(t, StatusUp, report.Status)
	assert.Contains(t, report.Checks, "application")
}
