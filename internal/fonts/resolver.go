// Package fonts picks the font face used to draw the watermark.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// BuiltinName identifies the embedded fallback face.
const BuiltinName = "builtin:goregular"

// BitmapName identifies the last-resort bitmap face.
const BitmapName = "builtin:basic7x13"

// Handle is a resolved font face.
type Handle struct {
	Face font.Face
	Name string // file path of the font, or one of the builtin names

	// Scalable is false when Face ignores the requested size.
	Scalable bool
	Tried    []string // candidates that failed to load, in order
}

// ReadFunc loads a font file.
type ReadFunc func(path string) ([]byte, error)

// Resolver tries an ordered list of font files and falls back to faces
// compiled into the binary. It keeps no state between calls.
type Resolver struct {
	candidates []string
	read       ReadFunc
}

// NewResolver returns a resolver over candidates, reading files from disk.
func NewResolver(candidates []string) *Resolver {
	return &Resolver{candidates: candidates, read: os.ReadFile}
}

// WithReader returns a copy of r that loads files through read.
func (r *Resolver) WithReader(read ReadFunc) *Resolver {
	return &Resolver{candidates: r.candidates, read: read}
}

// Resolve returns the first candidate that loads at size points, or a
// builtin face. It never fails.
func (r *Resolver) Resolve(size int) Handle {
	var tried []string
	for _, path := range r.candidates {
		face, err := r.load(path, size)
		if err != nil {
			tried = append(tried, path)
			continue
		}
		return Handle{Face: face, Name: path, Scalable: true, Tried: tried}
	}

	if face, err := parseFace(goregular.TTF, size); err == nil {
		return Handle{Face: face, Name: BuiltinName, Scalable: true, Tried: tried}
	}

	return Handle{Face: basicfont.Face7x13, Name: BitmapName, Scalable: false, Tried: tried}
}

func (r *Resolver) load(path string, size int) (font.Face, error) {
	b, err := r.read(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".ttc") || strings.EqualFold(filepath.Ext(path), ".otc") {
		return parseCollectionFace(b, size)
	}
	return parseFace(b, size)
}

func parseFace(b []byte, size int) (font.Face, error) {
	f, err := opentype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return newFace(f, size)
}

func parseCollectionFace(b []byte, size int) (font.Face, error) {
	c, err := opentype.ParseCollection(b)
	if err != nil {
		return nil, fmt.Errorf("parse font collection: %w", err)
	}
	if c.NumFonts() == 0 {
		return nil, fmt.Errorf("empty font collection")
	}
	f, err := c.Font(0)
	if err != nil {
		return nil, fmt.Errorf("font collection: %w", err)
	}
	return newFace(f, size)
}

func newFace(f *opentype.Font, size int) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}

// DefaultCandidates returns the system fonts tried for the current platform.
// CJK-capable fonts come first because the watermark text contains CJK
// characters. When explicit is set it is tried before anything else; a bare
// file name is looked up in the system font directories.
func DefaultCandidates(explicit string) []string {
	var out []string
	if explicit != "" {
		if filepath.Base(explicit) == explicit && !filepath.IsAbs(explicit) {
			if p := FindSystemFont(explicit); p != "" {
				explicit = p
			}
		}
		out = append(out, explicit)
	}
	return append(out, platformCandidates(runtime.GOOS)...)
}

func platformCandidates(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			`C:\Windows\Fonts\msyh.ttc`,
			`C:\Windows\Fonts\simhei.ttf`,
			`C:\Windows\Fonts\arial.ttf`,
		}
	case "darwin":
		return []string{
			"/System/Library/Fonts/PingFang.ttc",
			"/System/Library/Fonts/STHeiti Medium.ttc",
			"/Library/Fonts/Arial Unicode.ttf",
			"/System/Library/Fonts/Supplemental/Arial.ttf",
			"/System/Library/Fonts/Arial.ttf",
		}
	default:
		return []string{
			"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
			"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
			"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
			"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		}
	}
}

// systemFontDirs returns the font directories searched for bare file names.
func systemFontDirs(goos string) []string {
	switch goos {
	case "windows":
		return []string{`C:\Windows\Fonts`}
	case "darwin":
		return []string{"/System/Library/Fonts", "/Library/Fonts", filepath.Join(os.Getenv("HOME"), "Library/Fonts")}
	default:
		return []string{"/usr/share/fonts", "/usr/local/share/fonts", filepath.Join(os.Getenv("HOME"), ".fonts")}
	}
}

// FindSystemFont searches the system font directories for filename,
// case-insensitively, and returns "" when it is not found.
func FindSystemFont(filename string) string {
	return findFont(systemFontDirs(runtime.GOOS), filename)
}

func findFont(dirs []string, filename string) string {
	for _, d := range dirs {
		p := filepath.Join(d, filename)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		entries, err := os.ReadDir(d)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if strings.EqualFold(e.Name(), filename) {
				return filepath.Join(d, e.Name())
			}
		}
	}
	return ""
}
