package batch

import (
	"os"
	"path/filepath"
	"testing"

	kit "exifstamp/internal/testkit"
)

func TestIsSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"a.jpg": true, "a.JPEG": true, "a.png": true, "a.Tiff": true, "a.tif": true,
		"a.BMP": true, "a.gif": true, "a.webp": false, "a.heic": false, "jpg": false,
		"a.jpg.txt": false, "": false,
	} {
		if got := IsSupported(name); got != want {
			t.Fatalf("IsSupported(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestDiscover_FollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := kit.WriteFile(t, t.TempDir(), "real.jpg", []byte("x"))
	if err := os.Symlink(target, filepath.Join(dir, "link.jpg")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "gone.jpg"), filepath.Join(dir, "dangling.jpg")); err != nil {
		t.Fatal(err)
	}

	tasks, err := Discover(dir, false, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].RelPath != "link.jpg" || !tasks[0].DirectoryMember {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestDiscover_RecursiveSkipsOutputRoot(t *testing.T) {
	dir := t.TempDir()
	kit.WriteFile(t, dir, "b.jpg", nil)
	kit.WriteFile(t, dir, filepath.Join("a", "z.png"), nil)
	kit.WriteFile(t, dir, filepath.Join("out", "b.jpg"), nil)

	tasks, err := Discover(dir, true, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 || tasks[0].RelPath != filepath.Join("a", "z.png") || tasks[1].RelPath != "b.jpg" {
		t.Fatalf("tasks = %+v", tasks)
	}
}
