package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestNewCalendar_SortsAndDeduplicates(t *testing.T) {
	cal := NewCalendar([]time.Time{
		date(5),
		date(2),
		date(5),
		time.Date(2024, time.January, 2, 15, 30, 0, 0, time.UTC), // intraday timestamp, hari yang sama
		date(9),
	})

	assert.Equal(t, 3, cal.Len())
	assert.Equal(t, date(2), cal.At(0))
	assert.Equal(t, date(5), cal.At(1))
	assert.Equal(t, date(9), cal.At(2))
}

func TestCalendar_NextAfter(t *testing.T) {
	cal := NewCalendar([]time.Time{date(2), date(5), date(9)})

	tests := []struct {
		name    string
		query   time.Time
		wantIdx int
		wantOK  bool
	}{
		{name: "before first session", query: date(1), wantIdx: 0, wantOK: true},
		{name: "on a session returns the next one", query: date(2), wantIdx: 1, wantOK: true},
		{name: "between sessions", query: date(3), wantIdx: 1, wantOK: true},
		{name: "on last session", query: date(9), wantOK: false},
		{name: "after last session", query: date(10), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := cal.NextAfter(tt.query)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantIdx, idx)
			}
		})
	}
}

func TestScheduleSignals_StableOrder(t *testing.T) {
	signals := []Signal{
		{Date: date(3), Code: "600001"},
		{Date: date(1), Code: "600002"},
		{Date: date(3), Code: "600003"},
		{Date: date(1), Code: "600004"},
	}

	scheduled := ScheduleSignals(signals)

	assert.Equal(t, []Signal{
		{Date: date(1), Code: "600002"},
		{Date: date(1), Code: "600004"},
		{Date: date(3), Code: "600001"},
		{Date: date(3), Code: "600003"},
	}, scheduled)

	// Input asli tidak boleh berubah.
	assert.Equal(t, "600001", signals[0].Code)
}
