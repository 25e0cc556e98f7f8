package processor

import (
	"image"
	"testing"

	"exifstamp/internal/model"
)

func TestPlace(t *testing.T) {
	const (
		W, H   = 400, 300
		tw, th = 100, 20
		m      = 20
	)
	cases := []struct {
		anchor model.Anchor
		want   image.Point
	}{
		{model.AnchorTopLeft, image.Pt(20, 20)},
		{model.AnchorTopRight, image.Pt(280, 20)},
		{model.AnchorBottomLeft, image.Pt(20, 260)},
		{model.AnchorBottomRight, image.Pt(280, 260)},
		{model.AnchorCenter, image.Pt(150, 140)},
		{model.Anchor("unknown"), image.Pt(280, 260)},
	}
	for _, c := range cases {
		if got := Place(c.anchor, W, H, tw, th, m); got != c.want {
			t.Fatalf("Place(%s) = %v, want %v", c.anchor, got, c.want)
		}
	}
}

func TestPlace_CenterUsesIntegerDivision(t *testing.T) {
	if got := Place(model.AnchorCenter, 101, 51, 10, 10, 99); got != image.Pt(45, 20) {
		t.Fatalf("Place = %v", got)
	}
}

func TestPlace_ClampsOffCanvas(t *testing.T) {
	// text larger than the image always starts at the origin
	for _, anchor := range model.Anchors {
		if got := Place(anchor, 30, 10, 80, 20, 5); got != image.Pt(0, 0) {
			t.Fatalf("Place(%s) = %v, want (0,0)", anchor, got)
		}
	}
	// only the overflowing axis is pinned
	if got := Place(model.AnchorBottomRight, 300, 10, 80, 20, 5); got != image.Pt(215, 0) {
		t.Fatalf("Place = %v, want (215,0)", got)
	}
}

func TestPlace_MarginLargerThanImage(t *testing.T) {
	const (
		W, H   = 100, 50
		tw, th = 40, 10
	)
	cases := []struct {
		anchor model.Anchor
		want   image.Point
	}{
		{model.AnchorTopLeft, image.Pt(60, 40)},
		{model.AnchorTopRight, image.Pt(0, 40)},
		{model.AnchorBottomLeft, image.Pt(60, 0)},
		{model.AnchorBottomRight, image.Pt(0, 0)},
		{model.AnchorCenter, image.Pt(30, 20)},
	}
	for _, c := range cases {
		got := Place(c.anchor, W, H, tw, th, 500)
		if got != c.want {
			t.Fatalf("Place(%s) = %v, want %v", c.anchor, got, c.want)
		}
		if !image.Rect(got.X, got.Y, got.X+tw, got.Y+th).In(image.Rect(0, 0, W, H)) {
			t.Fatalf("Place(%s) box leaves the image", c.anchor)
		}
	}
}
