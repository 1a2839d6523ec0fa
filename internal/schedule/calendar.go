package schedule

import (
	"math"
	"time"
)

// IsWorkingDay は月曜から金曜かどうかを返す
func IsWorkingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// AddWorkingDays は start から稼働日を n 日進めた日付を返す
//
// 1日ずつ進め、土日は数えない。n が 0 以下なら start をそのまま返す。
// 連続する7日には必ず5稼働日が含まれるため、まとまった週は一度に進める。
func AddWorkingDays(start time.Time, n int) time.Time {
	if n <= 0 {
		return start
	}

	weeks, rest := n/5, n%5
	if rest == 0 {
		weeks, rest = weeks-1, 5
	}
	current := start.AddDate(0, 0, weeks*7)

	for added := 0; added < rest; {
		current = current.AddDate(0, 0, 1)
		if IsWorkingDay(current) {
			added++
		}
	}
	return current
}

// WorkingDays は残作業期間を加算する稼働日数に変換する
// 端数は切り上げ、負数や NaN は 0 とする
func WorkingDays(duration float64) int {
	if math.IsNaN(duration) || duration <= 0 {
		return 0
	}
	if duration >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Ceil(duration))
}
