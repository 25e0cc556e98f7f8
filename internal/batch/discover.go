package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"exifstamp/internal/model"
)

// supportedExts are the extensions picked up from a directory, lower case.
var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
	".gif":  true,
}

// IsSupported reports whether name has a supported image extension, ignoring case.
func IsSupported(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// Discover lists the supported images in dir, sorted by relative path.
// Only direct entries are listed unless recursive is set; skipDir, when
// non-empty, is never descended into.
func Discover(dir string, recursive bool, skipDir string) ([]model.ImageTask, error) {
	var tasks []model.ImageTask

	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			p := filepath.Join(dir, e.Name())
			if !IsSupported(e.Name()) || !isRegular(p, e) {
				continue
			}
			tasks = append(tasks, model.ImageTask{SourcePath: p, RelPath: e.Name(), DirectoryMember: true})
		}
		return tasks, nil
	}

	skip := filepath.Clean(skipDir)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			// unreadable subtrees are left out rather than failing the batch
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if skipDir != "" && filepath.Clean(p) == skip {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSupported(d.Name()) || !isRegular(p, d) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			rel = d.Name()
		}
		tasks = append(tasks, model.ImageTask{SourcePath: p, RelPath: rel, DirectoryMember: true})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(tasks, func(a, b model.ImageTask) int {
		return strings.Compare(a.RelPath, b.RelPath)
	})
	return tasks, nil
}

// isRegular follows symlinks so linked photos are processed like regular files.
func isRegular(p string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
