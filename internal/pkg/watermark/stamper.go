package watermark

import (
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageStamper tiles the brand text across raster previews. Vector
// formats are not supported; the service falls back to the original
// file when stamping fails.
type ImageStamper struct {
	// Opacity of the stamped text layer, 0..1.
	Opacity float64
	// Scale enlarges the base font by drawing then upscaling the
	// text layer. 1 keeps the 7x13 face as-is.
	Scale int
}

func NewImageStamper() *ImageStamper {
	return &ImageStamper{Opacity: 0.35, Scale: 3}
}

func (s *ImageStamper) Stamp(src io.Reader, dst io.Writer, text string) error {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	overlay := s.textLayer(bounds.Dx(), bounds.Dy(), text)

	out := imaging.Overlay(imaging.Clone(img), overlay, image.Pt(0, 0), s.Opacity)
	return imaging.Encode(dst, out, imaging.JPEG, imaging.JPEGQuality(85))
}

// textLayer renders the text tiled on a transparent canvas sized to
// the target image.
func (s *ImageStamper) textLayer(width, height int, text string) image.Image {
	scale := s.Scale
	if scale < 1 {
		scale = 1
	}
	// draw at reduced size, then scale up so the stamp stays readable
	// on large photos without needing a font file on disk
	smallW, smallH := width/scale, height/scale
	if smallW < 1 {
		smallW = 1
	}
	if smallH < 1 {
		smallH = 1
	}

	layer := image.NewNRGBA(image.Rect(0, 0, smallW, smallH))
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
	}

	textWidth := drawer.MeasureString(text).Ceil()
	if textWidth == 0 {
		textWidth = 1
	}
	stepX := textWidth + 40
	stepY := face.Height * 6

	row := 0
	for y := face.Height; y < smallH+stepY; y += stepY {
		// stagger alternate rows so crops still carry the mark
		offset := 0
		if row%2 == 1 {
			offset = -stepX / 2
		}
		for x := offset; x < smallW; x += stepX {
			drawer.Dot = fixed.P(x, y)
			drawer.DrawString(text)
		}
		row++
	}

	if scale == 1 {
		return layer
	}
	return imaging.Resize(layer, width, height, imaging.NearestNeighbor)
}
