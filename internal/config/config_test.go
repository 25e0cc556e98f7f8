package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"exifstamp/internal/model"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := NewFlagSet("test")
	fs.SetOutput(&strings.Builder{})
	return Load(fs, args)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, "photos")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InputPath != "photos" || cfg.FontSize != 24 || cfg.Color != "white" ||
		cfg.Position != "bottom-right" || cfg.Margin != 20 || cfg.Recursive || cfg.Font != "" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Fatalf("log defaults = %+v", cfg.Log)
	}

	spec, err := cfg.WatermarkSpec()
	if err != nil {
		t.Fatal(err)
	}
	want := model.WatermarkSpec{FontSize: 24, Color: color.RGBA{255, 255, 255, 255}, Anchor: model.AnchorBottomRight, Margin: 20}
	if spec != want {
		t.Fatalf("spec = %+v, want %+v", spec, want)
	}
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := load(t, "--position", "center", "--color", "red", "--font-size", "40", "--recursive", "img.jpg")
	if err != nil {
		t.Fatal(err)
	}
	spec, err := cfg.WatermarkSpec()
	if err != nil {
		t.Fatal(err)
	}
	if spec.Anchor != model.AnchorCenter || spec.FontSize != 40 || spec.Color != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("spec = %+v", spec)
	}
	if !cfg.Recursive || cfg.InputPath != "img.jpg" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoad_EnvironmentAndPrecedence(t *testing.T) {
	t.Setenv("EXIFSTAMP_FONT_SIZE", "36")
	t.Setenv("EXIFSTAMP_COLOR", "orange")
	t.Setenv("EXIFSTAMP_LOG_LEVEL", "debug")

	cfg, err := load(t, "--color", "blue", "dir")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FontSize != 36 {
		t.Fatalf("env font size ignored: %d", cfg.FontSize)
	}
	if cfg.Color != "blue" {
		t.Fatalf("flag should beat env, got %q", cfg.Color)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exifstamp.yaml")
	body := "position: top-left\nmargin: 5\ncolor: \"#00ff00\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(t, "--config", path, "--margin", "8", "dir")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Position != "top-left" || cfg.Color != "#00ff00" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Margin != 8 {
		t.Fatalf("flag should beat file, margin = %d", cfg.Margin)
	}

	if _, err := load(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "dir"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name string
		args []string
		msg  string
	}{
		{"zero size", []string{"--font-size", "0", "d"}, "font-size"},
		{"negative margin", []string{"--margin", "-1", "d"}, "margin"},
		{"bad position", []string{"--position", "middle", "d"}, "position"},
		{"bad colour", []string{"--color", "sparkly", "d"}, "color"},
		{"two paths", []string{"a", "b"}, "one image_path"},
		{"unknown flag", []string{"--opacity", "3", "d"}, "opacity"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := load(t, c.args...)
			if err == nil || !strings.Contains(err.Error(), c.msg) {
				t.Fatalf("err = %v, want mention of %q", err, c.msg)
			}
		})
	}

	if _, err := load(t); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("err = %v, want ErrMissingInput", err)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"white", color.RGBA{255, 255, 255, 255}, true},
		{" Red ", color.RGBA{255, 0, 0, 255}, true},
		{"orange", color.RGBA{255, 165, 0, 255}, true},
		{"#f00", color.RGBA{255, 0, 0, 255}, true},
		{"#00FF00", color.RGBA{0, 255, 0, 255}, true},
		{"#ffffff80", color.RGBA{128, 128, 128, 128}, true},
		{"#12", color.RGBA{}, false},
		{"#gggggg", color.RGBA{}, false},
		{"sparkly", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		if (err == nil) != c.ok {
			t.Fatalf("ParseColor(%q) err = %v", c.in, err)
		}
		if c.ok && got != c.want {
			t.Fatalf("ParseColor(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
