package bitmap

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/maskwork/ebeam/pkg/errors"
)

// checker returns a 3x2 image whose top-left pixel is black and the rest white.
func checker() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	img.SetGray(0, 0, color.Gray{Y: 0})
	return img
}

func TestFromImageFlipsRows(t *testing.T) {
	bm, err := FromImage(checker(), Options{})
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if bm.Width != 3 || bm.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", bm.Width, bm.Height)
	}
	if !bm.At(0, 1) {
		t.Error("top-left image pixel should map to the top layout row")
	}
	if bm.At(0, 0) {
		t.Error("bottom-left pixel should be clear")
	}
	if got := bm.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
}

func TestFromImageThresholds(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(0, 0, color.Gray{Y: 10})
	img.SetGray(1, 0, color.Gray{Y: 100})
	img.SetGray(2, 0, color.Gray{Y: 200})

	tests := []struct {
		name string
		opts Options
		want []bool
	}{
		{"default", Options{}, []bool{true, true, false}},
		{"low", Options{Threshold: 50}, []bool{true, false, false}},
		{"high", Options{Threshold: 255}, []bool{true, true, true}},
		{"inverted", Options{Threshold: 50, Invert: true}, []bool{false, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm, err := FromImage(img, tt.opts)
			if err != nil {
				t.Fatalf("FromImage: %v", err)
			}
			for x, want := range tt.want {
				if got := bm.At(x, 0); got != want {
					t.Errorf("At(%d, 0) = %v, want %v", x, got, want)
				}
			}
		})
	}
}

func TestFromImageMaxSize(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 20))
	bm, err := FromImage(img, Options{MaxSize: 10})
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if bm.Width != 10 || bm.Height != 5 {
		t.Errorf("size = %dx%d, want 10x5", bm.Width, bm.Height)
	}
	if bm.Count() != 50 {
		t.Errorf("black image should be fully set, got %d", bm.Count())
	}
}

func TestFromImageErrors(t *testing.T) {
	if _, err := FromImage(checker(), Options{Threshold: 300}); !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Errorf("threshold 300: err = %v", err)
	}
	if _, err := FromImage(image.NewGray(image.Rect(0, 0, 0, 0)), Options{}); !errors.Is(err, errors.ErrCodeEmptyGeometry) {
		t.Errorf("empty image: err = %v", err)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, checker()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	bm, err := FromFile(path, Options{})
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if bm.Count() != 1 || !bm.At(0, 1) {
		t.Errorf("unexpected bitmap from file: count=%d", bm.Count())
	}

	if _, err := FromFile(filepath.Join(dir, "missing.png"), Options{}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := FromFile(garbage, Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("garbage file: err = %v", err)
	}
}
