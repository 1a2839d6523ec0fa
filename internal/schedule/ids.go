package schedule

import (
	"math"
	"strings"
	"unicode"

	"github.com/tkc/vibe-schedule/internal/table"
)

// ParseIDs は先行タスク欄の文字列からタスク ID を取り出す
//
// カンマ区切りの各要素について、"+" 以降のラグ表記と末尾の関係種別
// （FS, SS など）を取り除き、最初の数字列を ID とする。数字は Unicode の
// 10 進数字（全角数字やアラビア・インド数字など）も受け付ける。数字を
// 含まない要素とオーバーフローする要素は読み飛ばす。順序と重複はそのまま保持する。
func ParseIDs(field any) []int {
	ids := make([]int, 0)
	text, ok := table.Text(field)
	if !ok {
		return ids
	}

	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if i := strings.IndexByte(item, '+'); i >= 0 {
			item = item[:i]
		}
		item = strings.TrimRightFunc(item, isNotDigit)

		if id, ok := leadingNumber(item); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// leadingNumber は最初の数字列を整数にする
func leadingNumber(s string) (int, bool) {
	start := strings.IndexFunc(s, unicode.IsDigit)
	if start < 0 {
		return 0, false
	}

	n := 0
	for _, r := range s[start:] {
		d := digitValue(r)
		if d < 0 {
			break
		}
		if n > (math.MaxInt-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// digitValue は 10 進数字の値を返す。数字でなければ -1
// Unicode の 10 進数字は 0 から 9 が連続した 10 文字単位で並ぶ
func digitValue(r rune) int {
	if r >= '0' && r <= '9' {
		return int(r - '0')
	}
	if !unicode.IsDigit(r) {
		return -1
	}
	for _, rg := range unicode.Digit.R16 {
		if r >= rune(rg.Lo) && r <= rune(rg.Hi) && rg.Stride == 1 {
			return int(r-rune(rg.Lo)) % 10
		}
	}
	for _, rg := range unicode.Digit.R32 {
		if uint32(r) >= rg.Lo && uint32(r) <= rg.Hi && rg.Stride == 1 {
			return int(uint32(r)-rg.Lo) % 10
		}
	}
	return -1
}

func isNotDigit(r rune) bool {
	return !unicode.IsDigit(r)
}
