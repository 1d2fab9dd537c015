//go:build !windows

package platform

import (
	"log"
	"sync"

	"focustimer/internal/core/model"

	"fyne.io/fyne/v2"
)

var placementOnce sync.Once

// PlaceWindow is not supported by the window system here; the window stays
// where the window manager put it.
func PlaceWindow(_ fyne.Window, _ model.Point, _ bool) bool {
	placementOnce.Do(func() {
		log.Printf("platform: native window placement unavailable on this system")
	})
	return false
}

// ScreenSize returns DefaultScreenSize.
func ScreenSize() model.Size {
	return DefaultScreenSize
}
