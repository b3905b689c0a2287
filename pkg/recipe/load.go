package recipe

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	ebeamerrors "github.com/maskwork/ebeam/pkg/errors"
)

// Format is a recipe file syntax.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatOf picks the syntax from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", ebeamerrors.New(ebeamerrors.ErrCodeInvalidFormat, "%s: recipe must be .toml, .yaml or .yml", path)
}

// Load reads and validates the recipe at path. Relative image paths in the
// recipe resolve against the recipe's directory.
func Load(path string) (*Recipe, error) {
	r, _, err := ReadFile(path)
	return r, err
}

// ReadFile is [Load] that also returns the raw recipe bytes.
func ReadFile(path string) (*Recipe, []byte, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, ebeamerrors.Wrap(ebeamerrors.ErrCodeFileNotFound, err, "recipe %s", path)
	}
	if err != nil {
		return nil, nil, ebeamerrors.Wrap(ebeamerrors.ErrCodeInternal, err, "read recipe %s", path)
	}
	r, err := Parse(data, format)
	if err != nil {
		return nil, nil, ebeamerrors.Wrap(ebeamerrors.GetCode(err), err, "%s", path)
	}
	r.Base = filepath.Dir(path)
	return r, data, nil
}

// Parse decodes and validates a recipe.
func Parse(data []byte, format Format) (*Recipe, error) {
	var r Recipe
	switch format {
	case TOML:
		md, err := toml.Decode(string(data), &r)
		if err != nil {
			return nil, ebeamerrors.Wrap(ebeamerrors.ErrCodeInvalidRecipe, err, "decode toml")
		}
		if extra := md.Undecoded(); len(extra) > 0 {
			keys := make([]string, len(extra))
			for i, k := range extra {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, ebeamerrors.New(ebeamerrors.ErrCodeInvalidRecipe, "unknown keys: %s", strings.Join(keys, ", "))
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
			return nil, ebeamerrors.Wrap(ebeamerrors.ErrCodeInvalidRecipe, err, "decode yaml")
		}
	default:
		return nil, ebeamerrors.New(ebeamerrors.ErrCodeInvalidFormat, "unknown recipe format %q", format)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

//go:embed demo.toml
var demo []byte

// DemoSource returns the bundled demo recipe text.
func DemoSource() []byte { return bytes.Clone(demo) }

// Demo returns the bundled demo: a 500 um write field holding two mirrored
// etch-slab sweeps and an arrow pointing at the top-right alignment mark.
func Demo() (*Recipe, error) {
	return Parse(demo, TOML)
}
