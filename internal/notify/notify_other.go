//go:build !darwin

package notify

// Send is a no-op on non-darwin platforms
func Send(title, message string) error {
	return nil
}

// SendSlippage is a no-op on non-darwin platforms
func SendSlippage(slipped int, maxDelta int) error {
	return nil
}

// SendFailure is a no-op on non-darwin platforms
func SendFailure(source string, errMsg string) error {
	return nil
}
