package imaging

import (
	"image"
	"image/color"
	"log"
	"math"
	"math/rand"
	"time"

	"focustimer/internal/core/model"

	"golang.org/x/image/draw"
)

// EdgeMargin keeps top and bottom aligned images off the viewport edge.
const EdgeMargin = 20

// Scene is the output of one composite: a flat background and an optional
// contained image placed in viewport coordinates.
type Scene struct {
	Size       model.Size
	Background color.NRGBA
	Source     string
	Image      *image.NRGBA
	Bounds     image.Rectangle
}

// HasImage reports whether an image is placed over the background.
func (scene Scene) HasImage() bool {
	return scene.Image != nil
}

// Compositor renders wallpaper scenes for a viewport.
type Compositor struct {
	sampler *Sampler
	decoder Decoder
	rng     *rand.Rand
}

// NewCompositor creates a compositor. A nil rng seeds one from the clock.
func NewCompositor(sampler *Sampler, decoder Decoder, rng *rand.Rand) *Compositor {
	if decoder == nil {
		decoder = FileDecoder{}
	}
	if sampler == nil {
		sampler = NewSampler(decoder, nil)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Compositor{sampler: sampler, decoder: decoder, rng: rng}
}

// Render composites spec into a width x height viewport. Failures degrade to
// a flat background without an image.
func (compositor *Compositor) Render(width, height int, spec model.WallpaperSpec) Scene {
	scene := Scene{
		Size:       model.Size{Width: width, Height: height},
		Background: FallbackColor,
	}

	path := compositor.resolve(spec)
	if path == "" {
		return scene
	}
	scene.Source = path
	scene.Background = compositor.sampler.SampleColor(path)

	shortSide := min(width, height) * model.ClampFitPercent(spec.FitPercent) / 100
	if shortSide < 1 {
		return scene
	}

	decoded, err := compositor.decoder.Decode(path)
	if err != nil {
		log.Printf("compositor: %v", err)
		return scene
	}
	contained := Contain(decoded, shortSide)
	if contained == nil {
		return scene
	}

	scene.Image = contained
	scene.Bounds = Place(scene.Size, contained.Bounds().Size(), spec)
	return scene
}

func (compositor *Compositor) resolve(spec model.WallpaperSpec) string {
	switch spec.Source {
	case model.SourceFile:
		if fileExists(spec.File) {
			return spec.File
		}
	case model.SourceDirectory:
		files := ListImages(spec.Dir)
		if len(files) > 0 {
			return files[compositor.rng.Intn(len(files))]
		}
	}
	return ""
}

// ContainSize scales width x height so the longer edge equals box while
// keeping the aspect ratio.
func ContainSize(width, height, box int) (int, int) {
	if width <= 0 || height <= 0 || box <= 0 {
		return 0, 0
	}
	if width >= height {
		scaled := int(math.Round(float64(height) * float64(box) / float64(width)))
		return box, max(1, scaled)
	}
	scaled := int(math.Round(float64(width) * float64(box) / float64(height)))
	return max(1, scaled), box
}

// Contain returns src scaled to fit inside a box x box square.
func Contain(src *image.NRGBA, box int) *image.NRGBA {
	bounds := src.Bounds()
	width, height := ContainSize(bounds.Dx(), bounds.Dy(), box)
	if width == 0 || height == 0 {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

// Place centers an image horizontally and aligns it vertically inside viewport.
func Place(viewport model.Size, imageSize image.Point, spec model.WallpaperSpec) image.Rectangle {
	centerX := viewport.Width / 2
	centerY := viewport.Height / 2
	switch spec.Alignment {
	case model.AlignTop:
		centerY = imageSize.Y/2 + EdgeMargin
	case model.AlignBottom:
		centerY = viewport.Height - imageSize.Y/2 - EdgeMargin
	}
	centerX += spec.OffsetX
	centerY += spec.OffsetY

	minPoint := image.Pt(centerX-imageSize.X/2, centerY-imageSize.Y/2)
	return image.Rectangle{Min: minPoint, Max: minPoint.Add(imageSize)}
}
