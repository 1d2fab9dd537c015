// Package resources draws the application and tray icons.
package resources

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"fyne.io/fyne/v2"
)

// IconSize is the edge length of every generated icon.
const IconSize = 64

// Icon names.
const (
	IconApp     = "app"
	IconRunning = "running"
	IconPaused  = "paused"
)

var iconColors = map[string]color.NRGBA{
	IconApp:     {R: 0xe0, G: 0x4f, B: 0x3f, A: 0xff},
	IconRunning: {R: 0x2f, G: 0xa8, B: 0x5a, A: 0xff},
	IconPaused:  {R: 0x9a, G: 0x9a, B: 0xa0, A: 0xff},
}

var iconCache sync.Map

// Icon returns a Fyne resource for the named icon.
func Icon(name string) (fyne.Resource, error) {
	if cached, ok := iconCache.Load(name); ok {
		return cached.(fyne.Resource), nil
	}
	fill, ok := iconColors[name]
	if !ok {
		return nil, fmt.Errorf("load icon %s: unknown icon", name)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, clockFace(IconSize, fill)); err != nil {
		return nil, fmt.Errorf("encode icon %s: %w", name, err)
	}
	resource := fyne.NewStaticResource(name+".png", buf.Bytes())
	iconCache.Store(name, resource)
	return resource, nil
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(name string) fyne.Resource {
	resource, err := Icon(name)
	if err != nil {
		panic(err)
	}
	return resource
}

// clockFace draws an anti-aliased filled disc with two white clock hands.
func clockFace(size int, fill color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	center := float64(size) / 2
	radius := center - 0.5
	hand := float64(size) / 16
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	for y := range size {
		for x := range size {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			dist := math.Sqrt(dx*dx + dy*dy)

			pixel := fill
			switch {
			case dist > radius+0.5:
				continue
			case dist > radius-0.5:
				pixel.A = uint8(float64(fill.A) * (radius + 0.5 - dist))
			case math.Abs(dx) <= hand && dy <= 0 && -dy <= radius*0.7:
				pixel = white
			case math.Abs(dy) <= hand && dx >= 0 && dx <= radius*0.5:
				pixel = white
			}
			img.SetNRGBA(x, y, pixel)
		}
	}
	return img
}
