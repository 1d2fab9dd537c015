package imaging

import (
	"image"
	"image/draw"
)

// Layer draws on top of everything painted before it.
type Layer func(dst draw.Image)

// Paint renders scene into dst in a fixed order: background fill, placed
// image, then foreground. A nil foreground leaves the text layer to the caller,
// which must stack it above dst.
func Paint(dst draw.Image, scene Scene, foreground Layer) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(scene.Background), image.Point{}, draw.Src)
	if scene.HasImage() {
		draw.Draw(dst, scene.Bounds, scene.Image, image.Point{}, draw.Over)
	}
	if foreground != nil {
		foreground(dst)
	}
}

// Flatten paints the background stages of scene into a new viewport-sized image.
func Flatten(scene Scene) *image.NRGBA {
	width := max(1, scene.Size.Width)
	height := max(1, scene.Size.Height)
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	Paint(dst, scene, nil)
	return dst
}
