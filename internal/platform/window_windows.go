//go:build windows

package platform

import (
	"syscall"

	"focustimer/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
)

const (
	swpNoSize     = 0x0001
	swpNoZOrder   = 0x0004
	swpNoActivate = 0x0010
	smCxScreen    = 0
	smCyScreen    = 1
	hwndTopmost   = int32(-1)
)

var (
	user32DLL            = syscall.NewLazyDLL("user32.dll")
	procSetWindowPos     = user32DLL.NewProc("SetWindowPos")
	procGetSystemMetrics = user32DLL.NewProc("GetSystemMetrics")
)

// PlaceWindow moves window to position (in canvas units) and optionally
// keeps it above other windows.
func PlaceWindow(window fyne.Window, position model.Point, topmost bool) bool {
	nativeWindow, ok := window.(driver.NativeWindow)
	if !ok {
		return false
	}

	scale := window.Canvas().Scale()
	if scale <= 0 {
		scale = 1
	}
	x := int32(float32(position.X) * scale)
	y := int32(float32(position.Y) * scale)

	placed := false
	nativeWindow.RunNative(func(context any) {
		var hwnd uintptr
		switch value := context.(type) {
		case driver.WindowsWindowContext:
			hwnd = value.HWND
		case *driver.WindowsWindowContext:
			hwnd = value.HWND
		default:
			return
		}
		if hwnd == 0 {
			return
		}

		flags := uintptr(swpNoSize | swpNoActivate)
		insertAfter := uintptr(0)
		if topmost {
			insertAfter = int32ToUintptr(hwndTopmost)
		} else {
			flags |= swpNoZOrder
		}
		result, _, _ := procSetWindowPos.Call(hwnd, insertAfter, int32ToUintptr(x), int32ToUintptr(y), 0, 0, flags)
		placed = result != 0
	})
	return placed
}

// ScreenSize returns the primary screen size in pixels.
func ScreenSize() model.Size {
	width, _, _ := procGetSystemMetrics.Call(smCxScreen)
	height, _, _ := procGetSystemMetrics.Call(smCyScreen)
	if width == 0 || height == 0 {
		return DefaultScreenSize
	}
	return model.Size{Width: int(width), Height: int(height)}
}

func int32ToUintptr(value int32) uintptr {
	return uintptr(uint32(value))
}
