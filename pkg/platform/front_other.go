//go:build !darwin

package platform

// IsActive always reports true; other platforms raise the window through
// Window.RequestFocus.
func IsActive() bool {
	return true
}

// BringToFront is a no-op outside macOS
func BringToFront() {}
