// Package pipeline runs the recipe → build → render pipeline.
//
// Both the CLI and tests drive layouts through a [Runner], which adds
// caching, timing and logging around the two stages:
//
//  1. Build: decode the recipe and assemble the device tree
//  2. Render: write the tree in each requested [render.Format]
//
// Built layouts are cached as MessagePack snapshots keyed by the recipe
// bytes, the registered device kinds and the contents of every referenced
// image. Artifacts are cached per format, keyed by the snapshot hash and the
// render options.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    RecipePath: "masks/slabs.toml",
//	    Formats:    []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/maskwork/ebeam/pkg/cache"
	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/devices"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/recipe"
	"github.com/maskwork/ebeam/pkg/render"
	"github.com/maskwork/ebeam/pkg/render/sink"
)

// Default values shared by the CLI and library callers.
const (
	// DefaultSVGScale is SVG user units per micrometer.
	DefaultSVGScale = 1.0

	// DefaultPNGScale is PNG pixels per micrometer.
	DefaultPNGScale = sink.DefaultPNGScale

	// DefaultMargin pads previews, in micrometers.
	DefaultMargin = 5.0

	// DefaultHierarchyDepth folds the instance tree below the sweep cells.
	DefaultHierarchyDepth = 2
)

// Options configures one pipeline run.
type Options struct {
	// RecipePath names a TOML or YAML recipe. Ignored when Source is set.
	RecipePath string `json:"recipe_path,omitempty"`
	// Source is inline recipe text in SourceFormat (TOML when empty).
	Source       []byte        `json:"source,omitempty"`
	SourceFormat recipe.Format `json:"source_format,omitempty"`
	// Base resolves image paths of an inline Source.
	Base string `json:"base,omitempty"`

	Formats        []string `json:"formats,omitempty"`
	SVGScale       float64  `json:"svg_scale,omitempty"`
	PNGScale       float64  `json:"png_scale,omitempty"`
	Margin         float64  `json:"margin,omitempty"`
	Annotations    bool     `json:"annotations,omitempty"`
	Detailed       bool     `json:"detailed,omitempty"`
	HierarchyDepth int      `json:"hierarchy_depth,omitempty"`

	// Refresh rebuilds and rerenders even when cached results exist.
	Refresh bool `json:"refresh,omitempty"`

	Logger   *log.Logger       `json:"-"`
	Registry *devices.Registry `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Recipe *recipe.Recipe
	Device *device.Device

	// LayoutHash is the SHA-256 of the layout snapshot.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cells      int
	Shapes     int
	Layers     int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // layout snapshot came from cache
	RenderHit bool // every artifact came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Source) == 0 && o.RecipePath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "a recipe path or inline source is required")
	}
	if len(o.Source) > 0 && o.SourceFormat == "" {
		o.SourceFormat = recipe.TOML
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{string(render.FormatSVG)}
	}
	seen := make(map[string]bool, len(o.Formats))
	formats := o.Formats[:0:0]
	for _, f := range o.Formats {
		parsed, err := render.ParseFormat(f)
		if err != nil {
			return err
		}
		if !seen[string(parsed)] {
			seen[string(parsed)] = true
			formats = append(formats, string(parsed))
		}
	}
	o.Formats = formats

	if o.SVGScale == 0 {
		o.SVGScale = DefaultSVGScale
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if err := errors.ValidatePositive("svg scale", o.SVGScale); err != nil {
		return err
	}
	if err := errors.ValidatePositive("png scale", o.PNGScale); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("margin", o.Margin); err != nil {
		return err
	}
	if o.HierarchyDepth == 0 {
		o.HierarchyDepth = DefaultHierarchyDepth
	}
	if o.Registry == nil {
		o.Registry = devices.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// base returns the directory image paths resolve against.
func (o *Options) base() string {
	if len(o.Source) > 0 {
		return o.Base
	}
	return filepath.Dir(o.RecipePath)
}

// LayoutKeyOpts returns cache key options for the build stage.
func (o *Options) LayoutKeyOpts(assets []string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Kinds: o.Registry.Kinds(), Base: o.base(), Assets: assets}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
// Options that do not affect the format are left out of its key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch render.Format(format) {
	case render.FormatSVG:
		k.Scale, k.Margin, k.Annotations = o.SVGScale, o.Margin, o.Annotations
	case render.FormatPNG:
		k.Scale, k.Margin = o.PNGScale, o.Margin
	case render.FormatHierarchy:
		k.Detailed, k.MaxDepth = o.Detailed, o.HierarchyDepth
	}
	return k
}
