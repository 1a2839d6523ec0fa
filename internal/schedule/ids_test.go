package schedule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name  string
		field any
		want  []int
	}{
		{"nil", nil, []int{}},
		{"empty", "", []int{}},
		{"blank", "   ", []int{}},
		{"NaN", math.NaN(), []int{}},
		{"single", "12", []int{12}},
		{"relationship suffixes and lag", "101FS, 102SS+2, bad, 205+3d", []int{101, 102, 205}},
		{"lag with days", "7FS+3 days", []int{7}},
		{"negative lag keeps id", "8SS-2d", []int{8}},
		{"duplicates preserved", "3,3, 3", []int{3, 3, 3}},
		{"order preserved", "9,1,5", []int{9, 1, 5}},
		{"only garbage", "abc, , +5, FS", []int{}},
		{"integral float from numeric column", float64(42), []int{42}},
		{"int cell", 17, []int{17}},
		{"leading text", "ID 55", []int{55}},
		{"overflow skipped", "99999999999999999999999, 4", []int{4}},
		{"arabic-indic digits", "١٢٣FS, 4", []int{123, 4}},
		{"fullwidth digits", "１２FS+２, ７", []int{12, 7}},
		{"devanagari digits", "४२SS", []int{42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIDs(tt.field))
		})
	}
}

func TestDigitValue(t *testing.T) {
	assert.Equal(t, 7, digitValue('7'))
	assert.Equal(t, 3, digitValue('٣'))
	assert.Equal(t, 9, digitValue('９'))
	assert.Equal(t, 5, digitValue('𝟓'))
	assert.Equal(t, -1, digitValue('x'))
	assert.Equal(t, -1, digitValue('Ⅻ'))
}

func TestParseIDs_NeverPanics(t *testing.T) {
	inputs := []any{
		",,,,", "+", "++1", "1+2+3", "\x00\xff", "١٢٣", "1,\n2", []byte("4FF"), struct{}{}, true,
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = ParseIDs(in) })
	}
}
