//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

// Send sends a macOS notification using osascript
func Send(title, message string) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s" sound name "Glass"`, escape(message), escape(title))
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}

// SendSlippage reports how many tasks are projected to start late
func SendSlippage(slipped int, maxDelta int) error {
	return Send(SlippageTitle, SlippageMessage(slipped, maxDelta))
}

// SendFailure sends a failure notification
func SendFailure(source string, errMsg string) error {
	title := "❌ vsched: Forecast Failed"
	message := fmt.Sprintf("%s: %s", source, truncate(errMsg, 50))
	return Send(title, message)
}

func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`)
}
