// Package cli implements the maskdemo command.
//
// maskdemo takes at most one argument, the path of a TOML or YAML recipe.
// Without it the bundled demo recipe is built. One file per requested format
// is written to the output directory:
//
//	maskdemo                              # demo → layout.svg, layout.png, ...
//	maskdemo masks/run7.toml -o out -f svg,json
//	maskdemo run7.toml --redis cache:6379 --scope fab-run-7
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/maskwork/ebeam/pkg/buildinfo"
	"github.com/maskwork/ebeam/pkg/cache"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/observability"
	"github.com/maskwork/ebeam/pkg/pipeline"
	"github.com/maskwork/ebeam/pkg/recipe"
	"github.com/maskwork/ebeam/pkg/render"
)

const appName = "maskdemo"

// DefaultScope namespaces cache keys when no --scope is given.
const DefaultScope = "ebeam"

var defaultFormats = []string{"svg", "png", "json", "hierarchy"}

// Options holds the command's flag values.
type Options struct {
	Out         string
	Formats     []string
	Verbose     bool
	NoCache     bool
	Refresh     bool
	CacheDir    string // file cache location; empty means the user cache dir
	Redis       string // shared Redis address; empty uses the file cache
	Scope       string // cache key namespace
	PNGScale    float64
	Annotations bool
	Detailed    bool
}

// Execute runs maskdemo with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the maskdemo command writing its summary to stdout
// and logs to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := Options{}

	root := &cobra.Command{
		Use:   appName + " [recipe]",
		Short: "Build an e-beam mask layout and write its previews",
		Long: `maskdemo builds a mask layout from a TOML or YAML recipe (or the bundled
demo when no recipe is given) and writes SVG, PNG, JSON, MessagePack and
hierarchy renderings of it. Built layouts and renderings are cached.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), args, opts, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, buildinfo.Version, buildinfo.Commit, buildinfo.Date))

	f := root.Flags()
	f.StringVarP(&opts.Out, "out", "o", ".", "output directory")
	f.StringSliceVarP(&opts.Formats, "formats", "f", defaultFormats, "output formats ("+formatList()+")")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose logging")
	f.BoolVar(&opts.NoCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.Refresh, "refresh", false, "rebuild and rerender even when cached")
	f.StringVar(&opts.CacheDir, "cache-dir", "", "file cache directory (default: user cache dir)")
	f.StringVar(&opts.Redis, "redis", "", "shared Redis cache address, e.g. localhost:6379")
	f.StringVar(&opts.Scope, "scope", DefaultScope, "cache key namespace on a shared cache")
	f.Float64Var(&opts.PNGScale, "png-scale", pipeline.DefaultPNGScale, "PNG pixels per micrometer")
	f.BoolVar(&opts.Annotations, "annotations", false, "draw cell annotations in the SVG")
	f.BoolVar(&opts.Detailed, "detailed", false, "list shapes, layers and ports in the hierarchy")

	return root
}

func formatList() string {
	s := ""
	for i, f := range render.Formats {
		if i > 0 {
			s += ", "
		}
		s += string(f)
	}
	return s
}

// Run builds the recipe named by args (or the demo) and writes one file per
// format into opts.Out.
func Run(ctx context.Context, args []string, opts Options, stdout, stderr io.Writer) error {
	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger := newLogger(stderr, level)
	if opts.Verbose {
		hooks := observability.NewLogHooks(logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
	logger.Debug("starting", "version", buildinfo.Short())

	if len(args) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "usage: %s [recipe.toml|recipe.yaml]", appName)
	}
	popts := pipeline.Options{
		Formats:     opts.Formats,
		PNGScale:    opts.PNGScale,
		Margin:      pipeline.DefaultMargin,
		Annotations: opts.Annotations,
		Detailed:    opts.Detailed,
		Refresh:     opts.Refresh,
		Logger:      logger,
	}
	if len(popts.Formats) == 0 {
		popts.Formats = defaultFormats
	}
	if len(args) == 1 {
		popts.RecipePath = args[0]
	} else {
		popts.Source = recipe.DemoSource()
		popts.SourceFormat = recipe.TOML
	}

	c, err := newCache(ctx, opts, logger)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(c, cache.NewScopedKeyer(nil, opts.Scope), logger)
	defer runner.Close()

	p := newProgress(logger)
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}

	dir := opts.Out
	if dir == "" {
		dir = "."
	}
	written, err := writeArtifacts(dir, res.Recipe.Name, res.Artifacts)
	if err != nil {
		return err
	}
	p.done("Built " + res.Recipe.Name)

	out := ui{w: stdout}
	out.title(res.Recipe.Name)
	out.stats(res.Stats.Cells, res.Stats.Shapes, res.Stats.Layers, res.CacheInfo.BuildHit)
	for _, path := range written {
		out.file(path)
	}
	out.success("wrote %d artifacts", len(written))
	return nil
}

// newCache picks Redis, the file cache or no cache. An unreachable Redis
// falls back to the file cache.
func newCache(ctx context.Context, opts Options, logger *log.Logger) (cache.Cache, error) {
	if opts.NoCache {
		return cache.NewNullCache(), nil
	}
	if opts.Redis != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.Redis})
		if err == nil {
			return rc, nil
		}
		logger.Warn("redis unavailable, using file cache", "addr", opts.Redis, "err", err)
	}
	dir := opts.CacheDir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			logger.Warn("no user cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// writeArtifacts writes name.<ext> for every artifact in format order.
func writeArtifacts(dir, name string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "output directory %s", dir)
	}
	var written []string
	for _, f := range render.Formats {
		data, ok := artifacts[string(f)]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name+"."+f.Ext())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		written = append(written, path)
	}
	return written, nil
}
