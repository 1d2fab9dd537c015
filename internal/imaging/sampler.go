package imaging

import (
	"image"
	"image/color"
	"log"

	"golang.org/x/image/draw"
)

// SampleGrid is the side of the square the image is reduced to before averaging.
const SampleGrid = 40

// ColorCache stores computed average colors by image path.
// Entries are never invalidated.
type ColorCache interface {
	LookupColor(path string) (string, bool)
	RememberColor(path, hex string) error
}

// Sampler computes representative background colors for wallpapers.
type Sampler struct {
	decoder Decoder
	cache   ColorCache
}

// NewSampler creates a sampler. A nil cache disables caching.
func NewSampler(decoder Decoder, cache ColorCache) *Sampler {
	if decoder == nil {
		decoder = FileDecoder{}
	}
	return &Sampler{decoder: decoder, cache: cache}
}

// Sample returns the average color of path as #rrggbb, or FallbackHex when
// the image cannot be read.
func (sampler *Sampler) Sample(path string) string {
	if !fileExists(path) {
		return FallbackHex
	}
	if sampler.cache != nil {
		if cached, ok := sampler.cache.LookupColor(path); ok {
			return cached
		}
	}

	decoded, err := sampler.decoder.Decode(path)
	if err != nil {
		log.Printf("sampler: %v", err)
		return FallbackHex
	}
	hex := Hex(averageColor(decoded))

	if sampler.cache != nil {
		if err := sampler.cache.RememberColor(path, hex); err != nil {
			log.Printf("sampler: persist color cache: %v", err)
		}
	}
	return hex
}

// SampleColor is Sample parsed into a color value.
func (sampler *Sampler) SampleColor(path string) color.NRGBA {
	return ParseHexOr(sampler.Sample(path), FallbackColor)
}

func averageColor(src image.Image) color.NRGBA {
	grid := image.NewNRGBA(image.Rect(0, 0, SampleGrid, SampleGrid))
	draw.ApproxBiLinear.Scale(grid, grid.Bounds(), src, src.Bounds(), draw.Src, nil)

	var r, g, b int
	pixels := SampleGrid * SampleGrid
	for offset := 0; offset < len(grid.Pix); offset += 4 {
		r += int(grid.Pix[offset])
		g += int(grid.Pix[offset+1])
		b += int(grid.Pix[offset+2])
	}
	return color.NRGBA{R: uint8(r / pixels), G: uint8(g / pixels), B: uint8(b / pixels), A: 0xff}
}
