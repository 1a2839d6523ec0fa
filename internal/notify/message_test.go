package notify

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSlippageMessage(t *testing.T) {
	assert.Equal(t, "1 task projected late (worst: +3 days)", SlippageMessage(1, 3))
	assert.Equal(t, "4 tasks projected late (worst: +12 days)", SlippageMessage(4, 12))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))

	got := truncate("タスク4の予定開始日が遅れています", 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "タスク4の予定...", got)
	assert.Equal(t, "遅延", truncate("遅延", 2))
}
