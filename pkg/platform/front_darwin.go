//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

int appIsActive() {
    return [NSApp isActive] ? 1 : 0;
}

void activateApp() {
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

// IsActive reports whether the app currently has focus
func IsActive() bool {
	return C.appIsActive() == 1
}

// BringToFront activates the app unless it already has focus. Window.Show
// alone does not steal focus from other apps on macOS.
func BringToFront() {
	if IsActive() {
		return
	}
	C.activateApp()
}
