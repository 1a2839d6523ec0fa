package notify

import "fmt"

// SlippageTitle is the notification title used for slippage alerts
const SlippageTitle = "⏰ vsched: Schedule Slipped"

// SlippageMessage formats the body of a slippage notification
func SlippageMessage(slipped int, maxDelta int) string {
	noun := "tasks"
	if slipped == 1 {
		noun = "task"
	}
	return fmt.Sprintf("%d %s projected late (worst: +%d days)", slipped, noun, maxDelta)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
