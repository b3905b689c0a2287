package device

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/geometry"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func square(name string, x0, y0, size float64, layer geometry.Layer) *Device {
	d := New(name)
	if err := d.AddRect(geometry.R(x0, y0, x0+size, y0+size), layer); err != nil {
		panic(err)
	}
	return d
}

func mustBounds(t *testing.T, d *Device) geometry.Rect {
	t.Helper()
	b, err := d.Bounds()
	if err != nil {
		t.Fatalf("Bounds(%s): %v", d.Name, err)
	}
	return b
}

func TestBoundsIncludesChildren(t *testing.T) {
	top := square("top", 0, 0, 1, 1)
	child := top.Add(square("child", 5, 5, 2, 2))
	child.Move(1, -10)

	want := geometry.R(0, -5, 8, 1)
	if diff := cmp.Diff(want, mustBounds(t, top), approx); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
	if got := top.Layers(); !cmp.Equal(got, []geometry.Layer{1, 2}) {
		t.Errorf("Layers() = %v", got)
	}
}

func TestEmptyGeometry(t *testing.T) {
	d := New("empty")
	d.Add(New("also-empty"))

	if !d.IsEmpty() {
		t.Error("IsEmpty() = false")
	}
	if _, err := d.Bounds(); !errors.Is(err, errors.ErrCodeEmptyGeometry) {
		t.Errorf("Bounds: err = %v", err)
	}
	if _, err := d.Center(); !errors.Is(err, errors.ErrCodeEmptyGeometry) {
		t.Errorf("Center: err = %v", err)
	}
	if err := d.SetCenter(geometry.Point{}); !errors.Is(err, errors.ErrCodeEmptyGeometry) {
		t.Errorf("SetCenter: err = %v", err)
	}
	if _, err := d.Invert(1, 0); !errors.Is(err, errors.ErrCodeEmptyGeometry) {
		t.Errorf("Invert: err = %v", err)
	}
}

func TestAddShapeValidation(t *testing.T) {
	d := New("d")
	tests := []struct {
		name  string
		layer geometry.Layer
		poly  geometry.Polygon
		code  errors.Code
	}{
		{"negative layer", -1, geometry.Rectangle(1, 1), errors.ErrCodeInvalidLayer},
		{"layer too large", 256, geometry.Rectangle(1, 1), errors.ErrCodeInvalidLayer},
		{"no contours", 1, geometry.Polygon{}, errors.ErrCodeInvalidInput},
		{"degenerate", 1, geometry.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 1}}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.AddShape(tt.layer, tt.poly); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
	if len(d.Shapes()) != 0 {
		t.Errorf("failed adds left %d shapes behind", len(d.Shapes()))
	}
}

func TestSetCenterIdempotent(t *testing.T) {
	d := square("d", 0.3, -7.1, 2.5, 1)
	d.Add(square("c", 4.2, 1.9, 0.7, 1)).Rotate(33, geometry.Pt(1, 2))

	if err := d.SetCenter(geometry.Point{}); err != nil {
		t.Fatal(err)
	}
	first := d.Flatten()
	if err := d.SetCenter(geometry.Point{}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, d.Flatten()); diff != "" {
		t.Errorf("second SetCenter changed geometry:\n%s", diff)
	}
	c, _ := d.Center()
	if !c.NearlyEqual(geometry.Point{}, 1e-9) {
		t.Errorf("center = %v", c)
	}
}

func TestRotateMovesPorts(t *testing.T) {
	d := square("d", 0, 0, 2, 1)
	if err := d.AddPort(Port{Name: "east", Midpoint: geometry.Pt(2, 1), Width: 2, Orientation: 0}); err != nil {
		t.Fatal(err)
	}
	d.Rotate(90, geometry.Point{})

	p, err := d.Port("east")
	if err != nil {
		t.Fatal(err)
	}
	want := Port{Name: "east", Midpoint: geometry.Pt(-1, 2), Width: 2, Orientation: 90}
	if diff := cmp.Diff(want, p, approx); diff != "" {
		t.Errorf("port mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geometry.R(-2, 0, 0, 2), mustBounds(t, d), approx); diff != "" {
		t.Errorf("bounds mismatch:\n%s", diff)
	}
}

func TestPorts(t *testing.T) {
	d := New("d")
	for _, name := range []string{"b", "a"} {
		if err := d.AddPort(Port{Name: name, Orientation: -90}); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.AddPort(Port{Name: "a"}); !errors.Is(err, errors.ErrCodeDuplicatePort) {
		t.Errorf("duplicate: err = %v", err)
	}
	if err := d.AddPort(Port{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unnamed: err = %v", err)
	}
	if _, err := d.Port("c"); !errors.Is(err, errors.ErrCodePortNotFound) {
		t.Errorf("missing: err = %v", err)
	}

	ports := d.Ports()
	if len(ports) != 2 || ports[0].Name != "b" || ports[1].Name != "a" {
		t.Errorf("Ports() = %v, want registration order", ports)
	}
	if ports[0].Orientation != 270 {
		t.Errorf("orientation = %v, want normalized 270", ports[0].Orientation)
	}
}

func TestConnectAlignment(t *testing.T) {
	parent := New("parent")
	if err := parent.AddPort(Port{Name: "dock", Midpoint: geometry.Pt(5, 5), Width: 1, Orientation: 90}); err != nil {
		t.Fatal(err)
	}

	child := parent.Add(square("child", 0, -0.5, 1, 1))
	_ = child.AddPort(Port{Name: "a", Midpoint: geometry.Pt(1, 0), Width: 1, Orientation: 0})
	_ = child.AddPort(Port{Name: "b", Midpoint: geometry.Pt(0, 0), Width: 3, Orientation: 180})

	dock, _ := parent.Port("dock")
	if _, err := child.Connect("a", dock); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	a, _ := child.Port("a")
	if !a.Midpoint.NearlyEqual(dock.Midpoint, 1e-9) {
		t.Errorf("a.Midpoint = %v, want %v", a.Midpoint, dock.Midpoint)
	}
	if want := math.Mod(dock.Orientation+180, 360); math.Abs(a.Orientation-want) > 1e-9 {
		t.Errorf("a.Orientation = %v, want %v", a.Orientation, want)
	}

	b, _ := child.Port("b")
	if diff := cmp.Diff(Port{Name: "b", Midpoint: geometry.Pt(5, 6), Width: 3, Orientation: 90}, b, approx); diff != "" {
		t.Errorf("b did not follow the rigid motion:\n%s", diff)
	}
	if diff := cmp.Diff(geometry.R(4.5, 5, 5.5, 6), mustBounds(t, child), approx); diff != "" {
		t.Errorf("child bounds:\n%s", diff)
	}

	if _, err := child.Connect("nope", dock); !errors.Is(err, errors.ErrCodePortNotFound) {
		t.Errorf("missing port: err = %v", err)
	}
}

func TestExportPort(t *testing.T) {
	parent := New("parent")
	child := parent.Add(square("child", 0, 0, 1, 1))
	_ = child.AddPort(Port{Name: "out", Midpoint: geometry.Pt(1, 0.5), Orientation: 0})
	child.Move(2, 0)

	if err := parent.ExportPort(child, "out", "port2"); err != nil {
		t.Fatal(err)
	}
	if _, err := parent.Port("out"); err == nil {
		t.Error("child port leaked into parent under its own name")
	}
	p, _ := parent.Port("port2")
	if !p.Midpoint.NearlyEqual(geometry.Pt(3, 0.5), 1e-12) {
		t.Errorf("exported midpoint = %v", p.Midpoint)
	}

	parent.Move(0, 1)
	p, _ = parent.Port("port2")
	if !p.Midpoint.NearlyEqual(geometry.Pt(3, 1.5), 1e-12) {
		t.Errorf("exported port did not move with parent: %v", p.Midpoint)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	cell := square("cell", 0, 0, 1, 1)
	cell.Add(square("inner", 0.25, 0.25, 0.5, 2))
	_ = cell.AddPort(Port{Name: "p", Midpoint: geometry.Pt(1, 0.5)})

	grid := New("grid")
	a := grid.AddCopy(cell)
	b := grid.AddCopy(cell)
	a.Move(10, 0)

	if diff := cmp.Diff(geometry.R(0, 0, 1, 1), mustBounds(t, b)); diff != "" {
		t.Errorf("moving one copy moved the other:\n%s", diff)
	}
	if diff := cmp.Diff(geometry.R(0, 0, 1, 1), mustBounds(t, cell)); diff != "" {
		t.Errorf("moving a copy moved the original:\n%s", diff)
	}
	p, _ := b.Port("p")
	if p.Midpoint != geometry.Pt(1, 0.5) {
		t.Errorf("port aliased between copies: %v", p.Midpoint)
	}
}

func TestInvertComplementsLayer(t *testing.T) {
	d := New("d")
	_ = d.AddRect(geometry.R(0, 0, 4, 4), 1)
	d.Add(square("other", 6, 6, 4, 1))
	_ = d.AddRect(geometry.R(1, 6, 3, 8), 2)

	inv, err := d.Invert(1, 0)
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	if got := inv.Layers(); !cmp.Equal(got, []geometry.Layer{1}) {
		t.Errorf("inverse layers = %v", got)
	}
	polys := inv.Polygons(1)
	if len(polys) != 1 {
		t.Fatalf("inverse has %d polygons, want 1", len(polys))
	}
	if got := polys[0].Area(); math.Abs(got-68) > 1e-6 {
		t.Errorf("inverse area = %v, want 68", got)
	}

	for _, tt := range []struct {
		p    geometry.Point
		want bool
	}{
		{geometry.Pt(5, 5), true},
		{geometry.Pt(2, 7), true}, // layer 2 is not subtracted
		{geometry.Pt(2, 2), false},
		{geometry.Pt(8, 8), false},
	} {
		if got := polys[0].Contains(tt.p); got != tt.want {
			t.Errorf("inverse contains %v = %v, want %v", tt.p, got, tt.want)
		}
	}

	// The inverse and the original together cover the bounding box exactly.
	all := geometry.Union(polys, d.Polygons(1))
	if got := all.Area(); math.Abs(got-100) > 1e-6 {
		t.Errorf("union area = %v, want 100", got)
	}
}

func TestInvertPadding(t *testing.T) {
	d := square("d", 0, 0, 10, 3)
	inv, err := d.Invert(3, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(geometry.R(-5, -5, 15, 15), mustBounds(t, inv), approx); diff != "" {
		t.Errorf("padded bounds:\n%s", diff)
	}
	if got := inv.Polygons(3)[0].Area(); math.Abs(got-300) > 1e-6 {
		t.Errorf("area = %v, want 300", got)
	}

	full, err := d.Invert(3, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range full.Polygons(3) {
		if a := p.Area(); a > 1e-9 {
			t.Errorf("inverting a device that fills its box left area %v", a)
		}
	}

	if _, err := d.Invert(3, -0.1); !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Errorf("negative padding: err = %v", err)
	}
}

func TestWalk(t *testing.T) {
	top := New("top")
	mid := top.Add(New("mid"))
	mid.Add(New("leaf"))
	top.Add(New("side"))

	var got []string
	top.Walk(func(n *Device, depth int) {
		got = append(got, n.Name+":"+string(rune('0'+depth)))
	})
	want := []string{"top:0", "mid:1", "leaf:2", "side:1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("walk order (-want +got):\n%s", diff)
	}
}

func TestInsertRejectsCycles(t *testing.T) {
	top := New("top")
	mid, err := top.Insert(New("mid"))
	if err != nil {
		t.Fatal(err)
	}
	leaf, err := mid.Insert(square("leaf", 0, 0, 1, 1))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name          string
		parent, child *Device
	}{
		{"self", top, top},
		{"parent into child", mid, top},
		{"root into leaf", leaf, top},
		{"nil", top, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(tt.parent.Children())
			if _, err := tt.parent.Insert(tt.child); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("got %v, want INVALID_INPUT", err)
			}
			if len(tt.parent.Children()) != before {
				t.Error("rejected insert modified the parent")
			}
		})
	}

	// Sharing a subtree between siblings is not a cycle.
	if _, err := top.Insert(leaf); err != nil {
		t.Errorf("shared leaf: %v", err)
	}
	if b := mustBounds(t, top); b != geometry.R(0, 0, 1, 1) {
		t.Errorf("bounds = %v", b)
	}
}

func TestAnnotationsFollowTransforms(t *testing.T) {
	d := square("d", 0, 0, 2, 1)
	if err := d.Annotate("A0 slab", geometry.Pt(0, 2), 254); err != nil {
		t.Fatal(err)
	}
	if err := d.Annotate("bad", geometry.Point{}, 300); !errors.Is(err, errors.ErrCodeInvalidLayer) {
		t.Errorf("err = %v", err)
	}
	c := d.Clone()
	d.Rotate(90, geometry.Point{}).Move(1, 0)

	got := d.Annotations()[0].Position
	if !got.NearlyEqual(geometry.Pt(-1, 0), 1e-12) {
		t.Errorf("annotation at %v, want (-1, 0)", got)
	}
	if c.Annotations()[0].Position != geometry.Pt(0, 2) {
		t.Error("clone shares annotations with the original")
	}
	if diff := cmp.Diff(geometry.R(-1, 0, 1, 2), mustBounds(t, d), approx); diff != "" {
		t.Errorf("annotations must not widen bounds:\n%s", diff)
	}
}

func TestSubtract(t *testing.T) {
	d := square("d", 0, 0, 4, 1)
	d.Add(square("c", 10, 0, 4, 1))
	d.Add(square("other", 20, 0, 4, 2))

	holes := []geometry.Polygon{
		geometry.R(1, 1, 2, 2).Polygon(),
		geometry.R(9, -1, 15, 5).Polygon(),
		geometry.R(21, 1, 22, 2).Polygon(),
	}
	d.Subtract(1, holes)

	if got := d.Shapes()[0].Polygon.Area(); math.Abs(got-15) > 1e-9 {
		t.Errorf("area after subtract = %v, want 15", got)
	}
	if n := len(d.Children()[0].Shapes()); n != 0 {
		t.Errorf("fully covered child kept %d shapes", n)
	}
	if got := d.Children()[1].Shapes()[0].Polygon.Area(); got != 16 {
		t.Errorf("other layer touched: area %v", got)
	}
}
