package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// stepWorkingDays は1日ずつ進める素朴な実装（比較用）
func stepWorkingDays(start time.Time, n int) time.Time {
	current := start
	for added := 0; added < n; {
		current = current.AddDate(0, 0, 1)
		if IsWorkingDay(current) {
			added++
		}
	}
	return current
}

func TestAddWorkingDays(t *testing.T) {
	friday := date(2024, time.March, 1)
	monday := date(2024, time.March, 4)
	saturday := date(2024, time.March, 2)

	tests := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"zero is identity", friday, 0, friday},
		{"zero on weekend is identity", saturday, 0, saturday},
		{"negative treated as zero", monday, -3, monday},
		{"friday plus one is monday", friday, 1, date(2024, time.March, 4)},
		{"monday plus five is next monday", monday, 5, date(2024, time.March, 11)},
		{"saturday plus five is friday", saturday, 5, date(2024, time.March, 8)},
		{"monday plus seven", monday, 7, date(2024, time.March, 13)},
		{"across month end", date(2024, time.February, 28), 2, date(2024, time.March, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddWorkingDays(tt.start, tt.n))
		})
	}
}

func TestAddWorkingDays_MatchesDayByDay(t *testing.T) {
	start := date(2024, time.January, 1)
	for offset := 0; offset < 14; offset++ {
		d := start.AddDate(0, 0, offset)
		for n := 0; n <= 30; n++ {
			got := AddWorkingDays(d, n)
			assert.Equal(t, stepWorkingDays(d, n), got, "start=%s n=%d", d.Format("Mon 2006-01-02"), n)
			assert.False(t, got.Before(d))
			if n > 0 {
				assert.True(t, IsWorkingDay(got))
			}
		}
	}
}

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		duration float64
		want     int
	}{
		{0, 0},
		{-2, 0},
		{1, 1},
		{2.5, 3},
		{2.01, 3},
		{7, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WorkingDays(tt.duration), "duration %v", tt.duration)
	}
}
