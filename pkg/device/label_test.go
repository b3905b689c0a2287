package device

import (
	"math"
	"testing"

	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/fonts"
	"github.com/maskwork/ebeam/pkg/geometry"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		in   string
		want Side
	}{
		{"left", Left}, {"l", Left}, {"R", Right}, {"top", Top}, {" b ", Bottom},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSide(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseSide(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
	if _, err := ParseSide("diagonal"); !errors.Is(err, errors.ErrCodeInvalidOrientation) {
		t.Errorf("err = %v", err)
	}
}

func TestAddLabelPlacement(t *testing.T) {
	const dist = 2.0
	host := New("host")
	_ = host.AddRect(geometry.R(3, 1, 13, 5), 1)
	hb, _ := host.Bounds()

	tests := []struct {
		side  Side
		check func(hb, lb geometry.Rect) (got, want float64)
		align func(hb, lb geometry.Rect) (got, want float64)
	}{
		{
			Right,
			func(hb, lb geometry.Rect) (float64, float64) { return lb.XMin(), hb.XMax() + dist },
			func(hb, lb geometry.Rect) (float64, float64) { return lb.Center().Y, hb.Center().Y },
		},
		{
			Left,
			func(hb, lb geometry.Rect) (float64, float64) { return lb.XMax(), hb.XMin() - dist },
			func(hb, lb geometry.Rect) (float64, float64) { return lb.Center().Y, hb.Center().Y },
		},
		{
			Top,
			func(hb, lb geometry.Rect) (float64, float64) { return lb.YMin(), hb.YMax() + dist },
			func(hb, lb geometry.Rect) (float64, float64) { return lb.Center().X, hb.Center().X },
		},
		{
			Bottom,
			func(hb, lb geometry.Rect) (float64, float64) { return lb.YMax(), hb.YMin() - dist },
			func(hb, lb geometry.Rect) (float64, float64) { return lb.Center().X, hb.Center().X },
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.side), func(t *testing.T) {
			d := host.Clone()
			err := d.AddLabel(tt.side, Label{Text: "A1", Layer: 7, Size: 3, Distance: dist, Style: fonts.Bold})
			if err != nil {
				t.Fatalf("AddLabel: %v", err)
			}
			if len(d.Children()) != 1 {
				t.Fatalf("children = %d, want 1", len(d.Children()))
			}
			lbl := d.Children()[0]
			if lbl.Name != "label_A1" {
				t.Errorf("label name = %q", lbl.Name)
			}
			lb, _ := lbl.Bounds()
			if got, want := tt.check(hb, lb); math.Abs(got-want) > 1e-9 {
				t.Errorf("gap edge = %v, want %v", got, want)
			}
			if got, want := tt.align(hb, lb); math.Abs(got-want) > 1e-9 {
				t.Errorf("centroid = %v, want %v", got, want)
			}
			if l := lbl.Layers(); len(l) != 1 || l[0] != 7 {
				t.Errorf("label layers = %v", l)
			}
		})
	}
}

func TestAddLabelFailsWithoutMutation(t *testing.T) {
	host := square("host", 0, 0, 1, 1)
	tests := []struct {
		name string
		side Side
		l    Label
		code errors.Code
	}{
		{"bad side", "diagonal", Label{Text: "x", Layer: 1, Size: 1}, errors.ErrCodeInvalidOrientation},
		{"bad layer", Top, Label{Text: "x", Layer: 999, Size: 1}, errors.ErrCodeInvalidLayer},
		{"bad size", Top, Label{Text: "x", Layer: 1}, errors.ErrCodeInvalidParams},
		{"blank text", Top, Label{Text: "  ", Layer: 1, Size: 1}, errors.ErrCodeEmptyGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := host.AddLabel(tt.side, tt.l); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
			if len(host.Children()) != 0 {
				t.Fatal("failed AddLabel mutated the host")
			}
		})
	}

	if err := New("empty").AddLabel(Top, Label{Text: "x", Layer: 1, Size: 1}); !errors.Is(err, errors.ErrCodeEmptyGeometry) {
		t.Errorf("empty host: err = %v", err)
	}
}

func TestNewTextCentered(t *testing.T) {
	d, err := NewText("t", "Hello\nmask", 4, 10, fonts.Normal)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := d.Center()
	if !c.NearlyEqual(geometry.Point{}, 1e-9) {
		t.Errorf("center = %v", c)
	}
}
