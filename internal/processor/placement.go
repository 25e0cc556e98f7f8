// Package processor renders the date watermark onto images.
package processor

import (
	"image"

	"exifstamp/internal/model"
)

// Place returns the top-left corner of a textW x textH box anchored in an
// imgW x imgH image, inset by margin on the anchored edges. The corner is
// clamped so the box stays inside the image when it fits, whatever the
// margin; a box wider or taller than the image starts at the left or top
// edge and runs off the right or bottom.
func Place(anchor model.Anchor, imgW, imgH, textW, textH, margin int) image.Point {
	var x, y int
	switch anchor {
	case model.AnchorTopLeft:
		x, y = margin, margin
	case model.AnchorTopRight:
		x, y = imgW-textW-margin, margin
	case model.AnchorBottomLeft:
		x, y = margin, imgH-textH-margin
	case model.AnchorCenter:
		x, y = (imgW-textW)/2, (imgH-textH)/2
	default:
		x, y = imgW-textW-margin, imgH-textH-margin
	}

	return image.Pt(clamp(x, imgW-textW), clamp(y, imgH-textH))
}

// clamp limits v to [0, hi]; 0 wins when hi is negative.
func clamp(v, hi int) int {
	if v > hi {
		v = hi
	}
	if v < 0 {
		v = 0
	}
	return v
}
