package processor

import (
	"image"
	"image/draw"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"exifstamp/internal/model"
)

// Processor draws capture-date watermarks. The face is resolved once per
// batch and only read afterwards.
type Processor struct {
	face font.Face
	spec model.WatermarkSpec
}

// New creates a Processor that draws with face using the style in spec.
func New(face font.Face, spec model.WatermarkSpec) *Processor {
	return &Processor{face: face, spec: spec}
}

// Watermark returns a copy of img with date drawn on it.
func (p *Processor) Watermark(img image.Image, date model.CaptureDate) *image.RGBA {
	return Render(img, date.Format(), p.spec, p.face)
}

// Render draws text onto a copy of img and returns the copy. The copy is an
// RGBA buffer, so paletted, gray and CMYK sources can take colour text.
// img is never modified.
//
// Measuring and drawing go through the same font.Drawer, so runes the face
// has no glyph for advance the dot by the same amount in both.
func Render(img image.Image, text string, spec model.WatermarkSpec, face font.Face) *image.RGBA {
	dst := imageToRGBA(gg.NewContextForImage(img).Image())

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(spec.Color),
		Face: face,
	}
	ink, _ := d.BoundString(text)
	tw := (ink.Max.X - ink.Min.X).Ceil()
	th := (ink.Max.Y - ink.Min.Y).Ceil()

	b := img.Bounds()
	pos := Place(spec.Anchor, b.Dx(), b.Dy(), tw, th, spec.Margin)

	// pos is the top-left corner of the ink box; the dot sits on the
	// baseline, offset by the ink box origin.
	d.Dot = fixed.P(b.Min.X+pos.X-ink.Min.X.Floor(), b.Min.Y+pos.Y-ink.Min.Y.Floor())
	d.DrawString(text)

	return dst
}

func imageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
