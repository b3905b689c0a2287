package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/maskwork/ebeam/pkg/cache"
	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/observability"
	"github.com/maskwork/ebeam/pkg/recipe"
	"github.com/maskwork/ebeam/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so one Runner may serve several
// goroutines with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	rec, source, err := r.Load(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Recipe: rec}

	// Stage 1: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, rec.Name)
	d, snapshot, hit, err := r.BuildWithCacheInfo(ctx, rec, source, opts)
	result.Stats.BuildTime = time.Since(buildStart)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, rec.Name, 0, result.Stats.BuildTime, err)
		return nil, err
	}
	result.Device = d
	result.LayoutHash = cache.Hash(snapshot)
	result.CacheInfo.BuildHit = hit
	d.Walk(func(n *device.Device, _ int) {
		result.Stats.Cells++
		result.Stats.Shapes += len(n.Shapes())
	})
	result.Stats.Layers = len(d.Layers())
	observability.Pipeline().OnBuildComplete(ctx, rec.Name, result.Stats.Cells, result.Stats.BuildTime, nil)

	r.Logger.Info("built layout",
		"recipe", rec.Name,
		"cells", result.Stats.Cells,
		"shapes", result.Stats.Shapes,
		"layers", result.Stats.Layers,
		"cached", hit,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, result.LayoutHash, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and decodes the recipe named by opts. It also returns the raw
// recipe bytes, which key the layout cache.
func (r *Runner) Load(opts Options) (*recipe.Recipe, []byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	if len(opts.Source) > 0 {
		rec, err := recipe.Parse(opts.Source, opts.SourceFormat)
		if err != nil {
			return nil, nil, err
		}
		rec.Base = opts.Base
		return rec, opts.Source, nil
	}
	return recipe.ReadFile(opts.RecipePath)
}

// BuildWithCacheInfo assembles the layout, reusing a cached snapshot when
// the recipe, registry and images are unchanged. It returns the device, its
// MessagePack snapshot and whether the snapshot came from cache.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, rec *recipe.Recipe, source []byte, opts Options) (*device.Device, []byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}
	assets, err := assetHashes(rec)
	if err != nil {
		return nil, nil, false, err
	}
	key := r.Keyer.LayoutKey(cache.Hash(source), opts.LayoutKeyOpts(assets))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if d, err := restore(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return d, data, true, nil
			}
			r.Logger.Warn("discarding unreadable cached layout", "recipe", rec.Name)
		} else if err != nil {
			r.Logger.Warn("layout cache unavailable", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	d, err := recipe.Build(rec, recipe.BuildOptions{Registry: opts.Registry, Logger: opts.Logger})
	if err != nil {
		return nil, nil, false, err
	}
	snap, err := sink.Export(d)
	if err != nil {
		return nil, nil, false, err
	}
	data, err := sink.EncodeMsgpack(snap)
	if err != nil {
		return nil, nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
		r.Logger.Warn("could not cache layout", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}
	return d, data, false, nil
}

func restore(data []byte) (*device.Device, error) {
	snap, err := sink.DecodeMsgpack(data)
	if err != nil {
		return nil, err
	}
	return snap.Device()
}

func assetHashes(rec *recipe.Recipe) ([]string, error) {
	paths, err := rec.Assets()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", p)
		}
		out[i] = cache.Hash(data)
	}
	return out, nil
}

// RenderWithCacheInfo renders every requested format, reusing cached
// artifacts when all of them are present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *device.Device, layoutHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	rendered, err := RenderAll(d, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("could not cache artifact", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
