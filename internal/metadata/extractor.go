// Package metadata reads the capture date embedded in image files.
package metadata

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"exifstamp/internal/model"
)

// dateFields lists the EXIF timestamps in order of preference: the moment
// the shutter fired, the moment the image was digitized, and finally the
// last modification time.
var dateFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// datePrefix matches the date part of "2006:01:02 15:04:05". Some writers
// use '-' or '/' instead of ':'.
var datePrefix = regexp.MustCompile(`^(\d{4})[:\-/](\d{1,2})[:\-/](\d{1,2})`)

// Extract returns the capture date stored in the EXIF block of an encoded
// image. JPEG, TIFF and PNG (eXIf chunk) containers are understood; other
// formats never carry a date. The boolean is false when no usable date is
// present, whatever the reason.
func Extract(data []byte) (model.CaptureDate, bool) {
	block := data
	if isPNG(data) {
		raw, ok := pngExif(data)
		if !ok {
			return model.CaptureDate{}, false
		}
		block = raw
	}

	// a non-critical error still leaves the parsed main IFD usable
	x, err := exif.Decode(bytes.NewReader(block))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return model.CaptureDate{}, false
	}

	for _, name := range dateFields {
		tag, err := x.Get(name)
		if err != nil || tag == nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		if d, ok := ParseDate(s); ok {
			d.Field = string(name)
			return d, true
		}
	}

	return model.CaptureDate{}, false
}

// ParseDate parses the date part of an EXIF timestamp.
func ParseDate(s string) (model.CaptureDate, bool) {
	m := datePrefix.FindStringSubmatch(strings.TrimSpace(strings.TrimRight(s, "\x00")))
	if m == nil {
		return model.CaptureDate{}, false
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return model.CaptureDate{}, false
	}

	// reject days the month does not have, e.g. 2023:02:30
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return model.CaptureDate{}, false
	}

	return model.CaptureDate{Year: year, Month: month, Day: day}, true
}
