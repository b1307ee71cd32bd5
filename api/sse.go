package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/animation"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/tracker"
	"github.com/gin-gonic/gin"
)

// SSE event names.
const (
	eventFrame     = "frame"
	eventDismissed = "dismissed"
	eventPing      = "ping"
)

// keepAliveInterval is how often an idle stream gets a ping event.
var keepAliveInterval = 15 * time.Second

type sseMessage struct {
	event string
	data  []byte
}

func writeSSEMessage(w io.Writer, msg sseMessage) error {
	if msg.event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", msg.event); err != nil {
			return err
		}
	}

	// SSE allows multiple `data:` lines; split to be safe.
	data := strings.TrimRight(string(msg.data), "\n")
	if data == "" {
		_, err := io.WriteString(w, "data: \n\n")
		return err
	}

	for _, line := range strings.Split(data, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func frameMessage(f animation.Frame) (sseMessage, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return sseMessage{}, err
	}
	return sseMessage{event: eventFrame, data: data}, nil
}

// SessionEvents streams a session's animation frames as Server-Sent Events.
// The latest frame is sent first; the stream ends with a "dismissed" event
// when the session goes away.
func SessionEvents(t *tracker.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := t.Get(c.Param("id"))
		if err != nil {
			respondError(c, err, "Session lookup failed")
			return
		}

		frames, unsubscribe := sess.Subscribe()
		defer unsubscribe()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no") // Disable nginx buffering
		c.Status(http.StatusOK)

		ctx := c.Request.Context()
		log := logger.WithContext(ctx).WithField("session_id", sess.ID)
		log.Debug("SSE client connected")
		defer log.Debug("SSE client disconnected")

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		first := true
		c.Stream(func(w io.Writer) bool {
			var msg sseMessage
			if first {
				first = false
				m, err := frameMessage(sess.Frame())
				if err != nil {
					return false
				}
				msg = m
			} else {
				select {
				case <-ctx.Done():
					return false
				case <-keepAlive.C:
					msg = sseMessage{event: eventPing}
				case f, ok := <-frames:
					if !ok {
						_ = writeSSEMessage(w, sseMessage{event: eventDismissed, data: []byte(`{"session_id":"` + sess.ID + `"}`)})
						return false
					}
					m, err := frameMessage(f)
					if err != nil {
						log.Error(err, "Failed to encode frame")
						return false
					}
					msg = m
				}
			}
			return writeSSEMessage(w, msg) == nil
		})
	}
}
