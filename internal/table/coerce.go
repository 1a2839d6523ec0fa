package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts は日付として受け付ける書式（先に一致したものを採用）
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/1/2",
	"2006/01/02 15:04:05",
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/06",
	"01/02/06",
	"Mon 1/2/06",
	"Mon 1/2/06 3:04 PM",
	"Mon 1/2/2006",
	"Mon 1/2/2006 3:04 PM",
	"Jan 2, 2006",
	"January 2, 2006",
	"Monday, January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"02-Jan-06",
}

// IsBlank は値が欠損（nil・空文字・NaN）かどうかを返す
func IsBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	case *time.Time:
		return x == nil
	}
	return false
}

// Date は値を暦日として解釈する。時刻は切り捨て、UTC の 0 時に正規化する
func Date(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return truncateDay(x), true
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return truncateDay(*x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return truncateDay(t), true
			}
		}
	case []byte:
		return Date(string(x))
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Number は値を浮動小数点数として解釈する。NaN と無限大は解釈不能とみなす
func Number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case []byte:
		return Number(string(x))
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// float64 で誤差なく表せる整数の上限
const maxExactInt = 1 << 53

// Int は値を整数の識別子として解釈する。小数部を持つ数値は受け付けない
func Int(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case int32:
		return int(x), true
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
	}
	f, ok := Number(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return 0, false
	}
	return int(f), true
}

// Text は値を文字列として返す。整数値の浮動小数点数は小数部なしで表す
func Text(v any) (string, bool) {
	if IsBlank(v) {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10), true
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return Text(float64(x))
	}
	return fmt.Sprint(v), true
}
