package rollover_test

import (
	"testing"
	"time"

	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/core/rollover"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestDue_Day(t *testing.T) {
	tests := []struct {
		name    string
		started time.Time
		now     time.Time
		want    bool
	}{
		{
			name:    "same day same hour",
			started: date(2026, time.March, 10, 9),
			now:     date(2026, time.March, 10, 9),
			want:    false,
		},
		{
			name:    "same day later hour",
			started: date(2026, time.March, 10, 1),
			now:     date(2026, time.March, 10, 23),
			want:    false,
		},
		{
			name:    "next day",
			started: date(2026, time.March, 10, 23),
			now:     date(2026, time.March, 11, 0),
			want:    true,
		},
		{
			name:    "month boundary",
			started: date(2026, time.February, 28, 12),
			now:     date(2026, time.March, 1, 12),
			want:    true,
		},
		{
			name:    "year boundary",
			started: date(2025, time.December, 31, 12),
			now:     date(2026, time.January, 1, 12),
			want:    true,
		},
		{
			name:    "same day-of-month different month",
			started: date(2026, time.March, 10, 9),
			now:     date(2026, time.April, 10, 9),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rollover.Due(tt.started, tt.now, burner.PeriodDay))
		})
	}
}

func TestDue_Week(t *testing.T) {
	tests := []struct {
		name    string
		started time.Time
		now     time.Time
		want    bool
	}{
		{
			name:    "same week",
			started: date(2026, time.March, 9, 9), // Monday
			now:     date(2026, time.March, 15, 9), // Sunday of the same ISO week
			want:    false,
		},
		{
			name:    "next week",
			started: date(2026, time.March, 15, 9), // Sunday
			now:     date(2026, time.March, 16, 9), // Monday, new ISO week
			want:    true,
		},
		{
			// Dec 29 2025 is a Monday and belongs to ISO week 1 of 2026,
			// the same week as Jan 2 2026.
			name:    "year boundary inside one ISO week",
			started: date(2025, time.December, 29, 9),
			now:     date(2026, time.January, 2, 9),
			want:    false,
		},
		{
			// Dec 28 2025 is a Sunday in ISO week 52 of 2025; the next day
			// starts ISO week 1 of 2026.
			name:    "ISO week-year boundary",
			started: date(2025, time.December, 28, 9),
			now:     date(2025, time.December, 29, 9),
			want:    true,
		},
		{
			name:    "same week number different year",
			started: date(2025, time.March, 12, 9),
			now:     date(2026, time.March, 12, 9),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rollover.Due(tt.started, tt.now, burner.PeriodWeek))
		})
	}
}

func TestDue_ComparesInNowLocation(t *testing.T) {
	// 2026-03-10 23:30 UTC is already 2026-03-11 in UTC+2.
	started := time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC)
	now := time.Date(2026, time.March, 11, 1, 30, 0, 0, time.FixedZone("EET", 2*60*60))

	assert.False(t, rollover.Due(started, now, burner.PeriodDay))
}

func TestDue_UnknownPeriod(t *testing.T) {
	started := date(2026, time.January, 1, 0)
	now := date(2026, time.June, 1, 0)

	assert.False(t, rollover.Due(started, now, burner.PeriodType("month")))
}
