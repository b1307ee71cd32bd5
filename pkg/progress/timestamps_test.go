package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp_AcceptedFormats(t *testing.T) {
	want := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339 zulu", "2025-06-18T10:00:00Z", want},
		{"rfc3339 offset", "2025-06-18T12:00:00+02:00", want},
		{"basic offset", "2025-06-18T12:00:00+0200", want},
		{"millis zulu", "2025-06-18T10:00:00.000Z", want},
		{"millis offset", "2025-06-18T05:00:00.000-0500", want},
		{"millis nonzero", "2025-06-18T10:00:00.250Z", want.Add(250 * time.Millisecond)},
		{"no zone", "2025-06-18T10:00:00", want},
		{"space separated", "2025-06-18 10:00:00", want},
		{"surrounding space", "  2025-06-18T10:00:00Z ", want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input, nil)
			assert.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseTimestamp_Rejected(t *testing.T) {
	for _, input := range []string{"", "   ", "2025-06-18", "10:00", "18/06/2025 10:00:00", "yesterday"} {
		_, ok := ParseTimestamp(input, time.UTC)
		assert.False(t, ok, "input %q", input)
	}
}

func TestBestTimestamp(t *testing.T) {
	actual := "2025-06-18T11:00:00Z"
	estimated := "2025-06-18T10:30:00Z"
	scheduled := "2025-06-18T10:00:00Z"

	got, ok := BestTimestamp(nil, actual, estimated, scheduled)
	assert.True(t, ok)
	assert.Equal(t, 11, got.Hour())

	got, ok = BestTimestamp(nil, "", estimated, scheduled)
	assert.True(t, ok)
	assert.Equal(t, 30, got.Minute())

	// Present but unparseable is treated like absent.
	got, ok = BestTimestamp(nil, "garbage", estimated, scheduled)
	assert.True(t, ok)
	assert.Equal(t, 10, got.Hour())
	assert.Equal(t, 30, got.Minute())

	got, ok = BestTimestamp(nil, "", "", scheduled)
	assert.True(t, ok)
	assert.Equal(t, 10, got.Hour())

	_, ok = BestTimestamp(nil, "", "bad", "")
	assert.False(t, ok)
}
