package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/text-islands-mcp/internal/imaging"
)

func writeGlyphPage(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			v := uint8(250)
			if x >= 40 && x < 52 && y >= 40 && y < 56 {
				v = 10
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	path := filepath.Join(dir, "page.png")
	if err := imaging.SaveImage(path, img); err != nil {
		t.Fatalf("failed to write page: %v", err)
	}
	return path
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "text-islands-mcp ") {
		t.Errorf("unexpected output: %q", stdout.String())
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-h"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stdout.String(), "binarize") {
		t.Error("help does not mention the binarize command")
	}
}

func TestRun_BadConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "missing.toml") {
		t.Errorf("error does not name the file: %q", stderr.String())
	}
}

func TestRunBinarize(t *testing.T) {
	dir := t.TempDir()
	in := writeGlyphPage(t, dir)
	out := filepath.Join(dir, "mask.png")
	overlay := filepath.Join(dir, "overlay.png")

	var stdout, stderr bytes.Buffer
	code := run([]string{"binarize", "--debug", overlay, in, out}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}

	mask, err := imaging.NewImageCache().Load(out)
	if err != nil {
		t.Fatalf("mask not written: %v", err)
	}
	if r, _, _, _ := mask.At(45, 48).RGBA(); r != 0 {
		t.Error("glyph pixel is not ink")
	}
	if _, err := os.Stat(overlay); err != nil {
		t.Errorf("overlay not written: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one island line, got %q", stdout.String())
	}
	if fields := strings.Fields(lines[0]); len(fields) != 4 {
		t.Errorf("island line should be x y width height: %q", lines[0])
	}
}

func TestRunBinarize_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"binarize", "only-one-arg"}, &stdout, &stderr); code != 2 {
		t.Errorf("exit code: got %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "Usage") {
		t.Errorf("usage not printed: %q", stderr.String())
	}
}

func TestRunBinarize_MissingInput(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run([]string{"binarize", filepath.Join(dir, "none.png"), filepath.Join(dir, "out.png")}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
}
