package model

import (
	"fmt"
	"strings"
)

// ImageTask is a single file discovered for processing.
type ImageTask struct {
	SourcePath      string // absolute or caller-relative path of the source image
	RelPath         string // path relative to the batch root, used for the output file
	DirectoryMember bool   // false when the user named the file directly
}

// CaptureDate is the calendar day a photograph was taken.
type CaptureDate struct {
	Year  int
	Month int
	Day   int

	Field string // EXIF field the date was read from
}

// Format renders the date as "<year>年<month>月<day>日" without zero padding.
func (d CaptureDate) Format() string {
	return fmt.Sprintf("%d年%d月%d日", d.Year, d.Month, d.Day)
}

// Anchor names the corner (or center) the watermark is attached to.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
	AnchorCenter      Anchor = "center"
)

// Anchors lists every supported anchor in CLI help order.
var Anchors = []Anchor{AnchorTopLeft, AnchorTopRight, AnchorBottomLeft, AnchorBottomRight, AnchorCenter}

// ParseAnchor converts a user supplied position into an Anchor.
func ParseAnchor(s string) (Anchor, error) {
	a := Anchor(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Anchors {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown position %q", s)
}
