package platform

import "focustimer/internal/core/model"

// DefaultScreenSize is used when the screen size cannot be queried.
var DefaultScreenSize = model.Size{Width: 1920, Height: 1080}
