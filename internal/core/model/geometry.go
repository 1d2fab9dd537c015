package model

// Point is a screen position in pixels.
type Point struct {
	X int
	Y int
}

// Add returns the component-wise sum.
func (point Point) Add(other Point) Point {
	return Point{X: point.X + other.X, Y: point.Y + other.Y}
}

// Sub returns the component-wise difference.
func (point Point) Sub(other Point) Point {
	return Point{X: point.X - other.X, Y: point.Y - other.Y}
}

// Size is a window or viewport size in pixels.
type Size struct {
	Width  int
	Height int
}

// PanelGeometry is the persisted placement of the floating panel.
// A nil Position means "center on screen".
type PanelGeometry struct {
	Position *Point
	Size     Size
}

// Centered returns the top-left point that centers size within screen.
func Centered(screen, size Size) Point {
	return Point{X: (screen.Width - size.Width) / 2, Y: (screen.Height - size.Height) / 2}
}
