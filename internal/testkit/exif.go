package testkit

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"testing"
)

// EXIF tag ids used by the fixtures
const (
	TagDateTime          uint16 = 0x0132
	TagExifIFDPointer    uint16 = 0x8769
	TagDateTimeOriginal  uint16 = 0x9003
	TagDateTimeDigitized uint16 = 0x9004
)

// Exif describes the timestamps written into a fixture. Empty fields are omitted.
type Exif struct {
	DateTime          string
	DateTimeOriginal  string
	DateTimeDigitized string
}

type asciiEntry struct {
	tag uint16
	val string
}

// TIFF builds a little-endian TIFF structure holding the timestamps of e:
// DateTime in IFD0, the other two in the Exif sub-IFD.
func (e Exif) TIFF() []byte {
	var ifd0, sub []asciiEntry
	if e.DateTime != "" {
		ifd0 = append(ifd0, asciiEntry{TagDateTime, e.DateTime})
	}
	if e.DateTimeOriginal != "" {
		sub = append(sub, asciiEntry{TagDateTimeOriginal, e.DateTimeOriginal})
	}
	if e.DateTimeDigitized != "" {
		sub = append(sub, asciiEntry{TagDateTimeDigitized, e.DateTimeDigitized})
	}

	n0 := len(ifd0)
	if len(sub) > 0 {
		n0++
	}
	ifdSize := func(n int) int { return 2 + 12*n + 4 }

	subOff := 8 + ifdSize(n0)
	dataOff := subOff
	if len(sub) > 0 {
		dataOff += ifdSize(len(sub))
	}

	le := binary.LittleEndian
	var head, data bytes.Buffer
	head.WriteString("II")
	_ = binary.Write(&head, le, uint16(42))
	_ = binary.Write(&head, le, uint32(8))

	writeASCII := func(buf *bytes.Buffer, ent asciiEntry) {
		v := append([]byte(ent.val), 0)
		_ = binary.Write(buf, le, ent.tag)
		_ = binary.Write(buf, le, uint16(2)) // ASCII
		_ = binary.Write(buf, le, uint32(len(v)))
		if len(v) <= 4 {
			var inline [4]byte
			copy(inline[:], v)
			buf.Write(inline[:])
			return
		}
		_ = binary.Write(buf, le, uint32(dataOff+data.Len()))
		data.Write(v)
	}

	_ = binary.Write(&head, le, uint16(n0))
	for _, ent := range ifd0 {
		writeASCII(&head, ent)
	}
	if len(sub) > 0 {
		_ = binary.Write(&head, le, TagExifIFDPointer)
		_ = binary.Write(&head, le, uint16(4)) // LONG
		_ = binary.Write(&head, le, uint32(1))
		_ = binary.Write(&head, le, uint32(subOff))
	}
	_ = binary.Write(&head, le, uint32(0))

	if len(sub) > 0 {
		_ = binary.Write(&head, le, uint16(len(sub)))
		for _, ent := range sub {
			writeASCII(&head, ent)
		}
		_ = binary.Write(&head, le, uint32(0))
	}

	head.Write(data.Bytes())
	return head.Bytes()
}

// TIFF encodes img as an uncompressed 8-bit RGB TIFF in one strip. When e is
// non-nil its DateTime goes into IFD0; the Exif sub-IFD fields are dropped.
func TIFF(t *testing.T, img image.Image, e *Exif) []byte {
	t.Helper()
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, 0, w*h*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			pix = append(pix, c.R, c.G, c.B)
		}
	}

	const (
		typeASCII = 2
		typeShort = 3
		typeLong  = 4
	)
	type entry struct {
		tag, typ     uint16
		count, value uint32
	}

	var date []byte
	if e != nil && e.DateTime != "" {
		date = append([]byte(e.DateTime), 0)
	}
	n := 10
	if date != nil {
		n++
	}
	bpsOff := 8 + 2 + 12*n + 4
	dateOff := bpsOff + 6
	pixOff := dateOff + len(date)

	// Tags must be in ascending order.
	entries := []entry{
		{256, typeLong, 1, uint32(w)},
		{257, typeLong, 1, uint32(h)},
		{258, typeShort, 3, uint32(bpsOff)},
		{259, typeShort, 1, 1},
		{262, typeShort, 1, 2},
		{273, typeLong, 1, uint32(pixOff)},
		{277, typeShort, 1, 3},
		{278, typeLong, 1, uint32(h)},
		{279, typeLong, 1, uint32(len(pix))},
		{284, typeShort, 1, 1},
	}
	if date != nil {
		entries = append(entries, entry{TagDateTime, typeASCII, uint32(len(date)), uint32(dateOff)})
	}

	var out bytes.Buffer
	le := binary.LittleEndian
	out.WriteString("II")
	_ = binary.Write(&out, le, uint16(42))
	_ = binary.Write(&out, le, uint32(8))
	_ = binary.Write(&out, le, uint16(len(entries)))
	for _, en := range entries {
		_ = binary.Write(&out, le, en)
	}
	_ = binary.Write(&out, le, uint32(0))
	_ = binary.Write(&out, le, [3]uint16{8, 8, 8})
	out.Write(date)
	out.Write(pix)
	return out.Bytes()
}

// Solid returns a w x h image filled with c.
func Solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// JPEG encodes img and, when e is non-nil, inserts an APP1 Exif segment
// right after SOI.
func JPEG(t *testing.T, img image.Image, e *Exif) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	b := buf.Bytes()
	if e == nil {
		return b
	}

	payload := append([]byte("Exif\x00\x00"), e.TIFF()...)
	var out bytes.Buffer
	out.Write(b[:2])
	out.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(b[2:])
	return out.Bytes()
}

// PNG encodes img and, when e is non-nil, inserts an eXIf chunk after IHDR.
func PNG(t *testing.T, img image.Image, e *Exif) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	b := buf.Bytes()
	if e == nil {
		return b
	}

	const afterIHDR = 8 + 8 + 13 + 4
	payload := e.TIFF()
	var chunk bytes.Buffer
	_ = binary.Write(&chunk, binary.BigEndian, uint32(len(payload)))
	body := append([]byte("eXIf"), payload...)
	chunk.Write(body)
	_ = binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(body))

	var out bytes.Buffer
	out.Write(b[:afterIHDR])
	out.Write(chunk.Bytes())
	out.Write(b[afterIHDR:])
	return out.Bytes()
}

// InkBounds returns the smallest rectangle covering every pixel of img that
// differs from bg by more than tol in any channel (8-bit scale). The second
// result is false when no such pixel exists.
func InkBounds(img image.Image, bg color.Color, tol int) (image.Rectangle, bool) {
	br, bgc, bb, _ := bg.RGBA()
	diff := func(a, b uint32) int {
		d := int(a>>8) - int(b>>8)
		if d < 0 {
			d = -d
		}
		return d
	}

	var r image.Rectangle
	found := false
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pr, pg, pb, _ := img.At(x, y).RGBA()
			if diff(pr, br) <= tol && diff(pg, bgc) <= tol && diff(pb, bb) <= tol {
				continue
			}
			p := image.Rect(x, y, x+1, y+1)
			if !found {
				r, found = p, true
			} else {
				r = r.Union(p)
			}
		}
	}
	return r, found
}
