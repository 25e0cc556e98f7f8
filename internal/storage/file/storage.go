package file

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// OutputSuffix is appended to the batch directory name to form the output directory name.
const OutputSuffix = "_watermark"

// jpegQuality matches what the encoder has always used for stamped photos.
const jpegQuality = 95

// Storage writes stamped images under a single output root on the local filesystem.
type Storage struct {
	root string
}

// NewStorage creates a Storage rooted at root. Nothing is created on disk
// until Prepare is called.
func NewStorage(root string) *Storage {
	return &Storage{root: root}
}

// OutputRoot derives the output directory for a batch. A directory D maps to
// D/<basename(D)>_watermark; a single file is treated as a one-item batch of
// its parent directory.
func OutputRoot(input string, isDir bool) string {
	dir := filepath.Clean(input)
	if !isDir {
		dir = filepath.Dir(dir)
	}
	base := filepath.Base(dir)
	if abs, err := filepath.Abs(dir); err == nil {
		base = filepath.Base(abs)
	}
	return filepath.Join(dir, base+OutputSuffix)
}

// Prepare creates the output directory. It succeeds if the directory already exists.
func (s *Storage) Prepare() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.root, err)
	}
	return nil
}

// Path returns where rel would be written.
func (s *Storage) Path(rel string) string {
	return filepath.Join(s.root, rel)
}

// Save encodes img in the format implied by rel's extension and writes it to
// root/rel. The data is written to a temporary file in the same directory and
// renamed into place, so a failed save never leaves a partial file behind.
func (s *Storage) Save(rel string, img image.Image) (string, error) {
	dstPath := s.Path(rel)

	format, err := imaging.FormatFromFilename(dstPath)
	if err != nil {
		return "", fmt.Errorf("unsupported output format for %s: %w", rel, err)
	}

	dir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(dstPath)+"."+uuid.NewString()+".tmp")
	if err := writeEncoded(tmpPath, img, format); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move %s into place: %w", dstPath, err)
	}

	return dstPath, nil
}

func writeEncoded(path string, img image.Image, format imaging.Format) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	if err := f.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return fmt.Errorf("failed to sync file %s: %w", path, err)
	}

	return nil
}

// Load reads the source file at path.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
