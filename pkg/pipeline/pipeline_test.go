package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/maskwork/ebeam/pkg/cache"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/render"
)

const slabs = `
name = "slabs"

[[sweep]]
kind = "etch_slab"
key_x = "width_slab"
values_x = [1, 2]
key_y = "width_slit"
values_y = [0.5, 1]
pitch_x = 5
pitch_y = 5
equidistant = true

[sweep.params]
expose_layer = 1
length_slab = 10
label_layer = 254

[sweep.labels]
size = 2
layer = 3
distance = 1
`

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Source: []byte(slabs)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"svg"}, opts.Formats); diff != "" {
		t.Errorf("formats (-want +got):\n%s", diff)
	}
	if opts.SVGScale != DefaultSVGScale || opts.PNGScale != DefaultPNGScale || opts.HierarchyDepth != DefaultHierarchyDepth {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if opts.Logger == nil || opts.Registry == nil {
		t.Error("logger and registry should default")
	}
}

func TestValidateFormats(t *testing.T) {
	opts := Options{Source: []byte(slabs), Formats: []string{"SVG", "dot", "svg", "tree"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"svg", "hierarchy"}, opts.Formats); diff != "" {
		t.Errorf("formats (-want +got):\n%s", diff)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no recipe", Options{}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Source: []byte(slabs), Formats: []string{"gds"}}, errors.ErrCodeInvalidFormat},
		{"negative scale", Options{Source: []byte(slabs), PNGScale: -1}, errors.ErrCodeInvalidParams},
		{"negative margin", Options{Source: []byte(slabs), Margin: -1}, errors.ErrCodeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOptsIgnoreUnrelatedOptions(t *testing.T) {
	a := Options{Source: []byte(slabs), PNGScale: 2}
	b := Options{Source: []byte(slabs), PNGScale: 8}
	for _, o := range []*Options{&a, &b} {
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
	}
	if a.ArtifactKeyOpts("svg") != b.ArtifactKeyOpts("svg") {
		t.Error("png scale should not change the svg key")
	}
	if a.ArtifactKeyOpts("png") == b.ArtifactKeyOpts("png") {
		t.Error("png scale should change the png key")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Source:  []byte(slabs),
		Formats: []string{"svg", "png", "json", "msgpack"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Recipe.Name != "slabs" || res.Device == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Artifacts) != 4 {
		t.Fatalf("artifacts: %d", len(res.Artifacts))
	}
	if !bytes.HasPrefix(res.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact lacks signature")
	}
	if !bytes.Contains(res.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact is not svg")
	}
	if res.Stats.Cells < 5 || res.Stats.Shapes == 0 || res.Stats.Layers < 2 {
		t.Errorf("stats: %+v", res.Stats)
	}
	if res.CacheInfo.BuildHit || res.CacheInfo.RenderHit {
		t.Error("null cache cannot hit")
	}
	if len(res.LayoutHash) != 64 {
		t.Errorf("layout hash %q", res.LayoutHash)
	}
}

func TestExecuteCaches(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()
	ctx := context.Background()
	opts := Options{Source: []byte(slabs), Formats: []string{"svg", "json"}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if first.LayoutHash != second.LayoutHash {
		t.Error("layout hash changed between runs")
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}
	b1, _ := first.Device.Bounds()
	b2, _ := second.Device.Bounds()
	if b1 != b2 {
		t.Errorf("restored bounds %v, built %v", b2, b1)
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.BuildHit || third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}

	// A new format renders again but reuses the layout.
	fourth, err := r.Execute(ctx, Options{Source: []byte(slabs), Formats: []string{"svg", "msgpack"}})
	if err != nil {
		t.Fatal(err)
	}
	if !fourth.CacheInfo.BuildHit || fourth.CacheInfo.RenderHit {
		t.Errorf("new format: %+v", fourth.CacheInfo)
	}
}

func TestExecuteFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slabs.toml")
	if err := os.WriteFile(path, []byte(slabs), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{RecipePath: path})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Artifacts["svg"]; !ok {
		t.Error("default svg artifact missing")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{RecipePath: filepath.Join(t.TempDir(), "none.toml")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing recipe: %v", err)
	}
	bad := strings.Replace(slabs, "etch_slab", "resonator", 1)
	_, err = r.Execute(ctx, Options{Source: []byte(bad)})
	if !errors.Is(err, errors.ErrCodeUnknownDevice) {
		t.Errorf("unknown kind: %v", err)
	}
}

func TestRenderHierarchy(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Source:  []byte(slabs),
		Formats: []string{string(render.FormatHierarchy)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(res.Artifacts["hierarchy"], []byte("etchslab_A0")) {
		t.Error("hierarchy lacks cell names")
	}
}
