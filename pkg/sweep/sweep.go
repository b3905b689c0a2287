// Package sweep lays out rectangular parameter sweeps.
//
// A sweep instantiates one device per combination of two parameter axes and
// arranges the results on a grid. Row i takes the i-th value of the x-axis
// parameter and is tagged with a letter; column j takes the j-th value of
// the y-axis parameter and is tagged with a number, so cell (i, j) carries
// the id "{letter}{number}" (A0, A1, ..., B0, ...). Rows stack along y,
// columns run along x.
//
// Layout happens in two passes. [Measure] builds every cell once and
// records its size, then derives cumulative offsets:
//
//	padX[i][j+1] = padX[i][j] + (colW[j] + colW[j+1])/2 + pitchX
//	padY[i+1][j] = padY[i][j] + (rowH[i] + rowH[i+1])/2 + pitchY
//
// where colW[j] is the widest cell of column j, rowH[i] the tallest cell of
// row i, and the half-size term is dropped unless the grid is equidistant.
// With an equidistant grid no two cells overlap and neighbouring columns
// (rows) are separated by exactly the pitch at their widest (tallest) cells.
// [Build] instantiates every cell again from a fresh parameter snapshot,
// labels the grid edges, moves each cell by its offsets and recenters the
// assembly at the origin.
package sweep

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/devices"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/fonts"
	"github.com/maskwork/ebeam/pkg/geometry"
	"github.com/maskwork/ebeam/pkg/params"
)

// DefaultIDKey is the parameter receiving each cell's grid id.
const DefaultIDKey = "id_string"

// Labels configures the letters and numbers written around the grid.
type Labels struct {
	Layer         geometry.Layer
	Size          float64 // font size
	Style         fonts.Style
	Distance      float64 // gap between a cell and its label
	RevertNumbers bool    // number columns from the right
	RevertLetters bool    // letter rows from the top
}

// Config describes a sweep.
type Config struct {
	Name    string
	Factory devices.Factory
	Params  params.Params // template shared by all cells

	KeyX    string    // parameter varied from row to row
	ValuesX []float64 // one row per value
	KeyY    string    // parameter varied from column to column
	ValuesY []float64 // one column per value

	PitchX      float64
	PitchY      float64
	Equidistant bool

	Labels *Labels // nil disables grid labels
	IDKey  string  // DefaultIDKey when empty

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the configuration and fills in defaults.
func (c *Config) ValidateAndSetDefaults() error {
	if c.Name == "" {
		c.Name = "sweep"
	}
	if err := errors.ValidateName(c.Name); err != nil {
		return err
	}
	if c.Factory == nil {
		return errors.New(errors.ErrCodeInvalidInput, "sweep %s: no device factory", c.Name)
	}
	if c.KeyX == "" || c.KeyY == "" {
		return errors.New(errors.ErrCodeInvalidInput, "sweep %s: both axis keys are required", c.Name)
	}
	if len(c.ValuesX) == 0 || len(c.ValuesY) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "sweep %s: axes must not be empty (got %d x %d values)", c.Name, len(c.ValuesX), len(c.ValuesY))
	}
	if err := errors.ValidateNonNegative("pitch x", c.PitchX); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("pitch y", c.PitchY); err != nil {
		return err
	}
	if c.Labels != nil {
		if err := errors.ValidateLayer(int(c.Labels.Layer)); err != nil {
			return err
		}
		if err := errors.ValidatePositive("label size", c.Labels.Size); err != nil {
			return err
		}
	}
	if c.IDKey == "" {
		c.IDKey = DefaultIDKey
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Plan is the outcome of the measurement pass. All matrices are indexed
// [i][j] with i over ValuesX and j over ValuesY.
type Plan struct {
	SizesX [][]float64
	SizesY [][]float64
	PadX   [][]float64
	PadY   [][]float64

	Letters []string // row tags, after optional reversal
	Numbers []string // column tags, after optional reversal
}

// ID returns the grid id of cell (i, j).
func (p *Plan) ID(i, j int) string { return p.Letters[i] + p.Numbers[j] }

// Rows returns the number of rows.
func (p *Plan) Rows() int { return len(p.Letters) }

// Cols returns the number of columns.
func (p *Plan) Cols() int { return len(p.Numbers) }

// Letter returns the row tag for index i: A..Z, then AA, AB, ...
func Letter(i int) string {
	var b []byte
	for i++; i > 0; i = (i - 1) / 26 {
		b = append(b, byte('A'+(i-1)%26))
	}
	slices.Reverse(b)
	return string(b)
}

func tags(c *Config) (letters, numbers []string) {
	letters = make([]string, len(c.ValuesX))
	for i := range letters {
		letters[i] = Letter(i)
	}
	numbers = make([]string, len(c.ValuesY))
	for j := range numbers {
		numbers[j] = strconv.Itoa(j)
	}
	if c.Labels != nil && c.Labels.RevertLetters {
		slices.Reverse(letters)
	}
	if c.Labels != nil && c.Labels.RevertNumbers {
		slices.Reverse(numbers)
	}
	return letters, numbers
}

// CellParams returns the parameter snapshot for cell (i, j). The template
// is never modified.
func CellParams(c Config, p *Plan, i, j int) params.Params {
	return c.Params.
		With(c.KeyX, c.ValuesX[i]).
		With(c.KeyY, c.ValuesY[j]).
		With(c.idKey(), p.ID(i, j))
}

func (c Config) idKey() string {
	if c.IDKey == "" {
		return DefaultIDKey
	}
	return c.IDKey
}

// cell instantiates cell (i, j) centered at the origin.
func cell(c *Config, p *Plan, i, j int) (*device.Device, error) {
	id := p.ID(i, j)
	d, err := c.Factory(CellParams(*c, p, i, j))
	if err != nil {
		return nil, errors.Wrap(codeOf(err), err, "sweep %s: cell %s", c.Name, id)
	}
	if err := d.SetCenter(geometry.Point{}); err != nil {
		return nil, errors.Wrap(codeOf(err), err, "sweep %s: cell %s", c.Name, id)
	}
	return d, nil
}

func codeOf(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}

// Measure runs the measurement pass and computes the cumulative offsets.
func Measure(c Config) (*Plan, error) {
	if err := c.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return measure(&c)
}

func measure(c *Config) (*Plan, error) {
	rows, cols := len(c.ValuesX), len(c.ValuesY)
	p := &Plan{
		SizesX: matrix(rows, cols),
		SizesY: matrix(rows, cols),
		PadX:   matrix(rows, cols),
		PadY:   matrix(rows, cols),
	}
	p.Letters, p.Numbers = tags(c)

	for i := range rows {
		for j := range cols {
			d, err := cell(c, p, i, j)
			if err != nil {
				return nil, err
			}
			p.SizesX[i][j], p.SizesY[i][j], _ = d.Size()
			c.Logger.Debug("measured cell", "sweep", c.Name, "id", p.ID(i, j),
				"xsize", p.SizesX[i][j], "ysize", p.SizesY[i][j])
		}
	}

	half := 0.0
	if c.Equidistant {
		half = 0.5
	}
	// Columns are as wide as their widest cell and rows as tall as their
	// tallest, so diagonal neighbours cannot overlap either.
	colW, rowH := make([]float64, cols), make([]float64, rows)
	for i := range rows {
		for j := range cols {
			colW[j] = max(colW[j], p.SizesX[i][j])
			rowH[i] = max(rowH[i], p.SizesY[i][j])
		}
	}
	for i := range rows {
		for j := range cols {
			if j+1 < cols {
				p.PadX[i][j+1] = p.PadX[i][j] + (colW[j]+colW[j+1])*half + c.PitchX
			}
			if i+1 < rows {
				p.PadY[i+1][j] = p.PadY[i][j] + (rowH[i]+rowH[i+1])*half + c.PitchY
			}
		}
	}
	return p, nil
}

func matrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// Build measures and assembles the sweep into one device centered at the
// origin. Any cell failure aborts the whole sweep.
func Build(c Config) (*device.Device, error) {
	if err := c.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	plan, err := measure(&c)
	if err != nil {
		return nil, err
	}
	return place(&c, plan)
}

func place(c *Config, p *Plan) (*device.Device, error) {
	rows, cols := p.Rows(), p.Cols()
	grid := device.New(c.Name)
	for i := range rows {
		for j := range cols {
			d, err := cell(c, p, i, j)
			if err != nil {
				return nil, err
			}
			d.Name = fmt.Sprintf("%s_%s", d.Name, p.ID(i, j))
			if c.Labels != nil {
				if err := label(d, c.Labels, p, i, j); err != nil {
					return nil, errors.Wrap(codeOf(err), err, "sweep %s: label cell %s", c.Name, p.ID(i, j))
				}
			}
			grid.Add(d).Move(p.PadX[i][j], p.PadY[i][j])
		}
	}
	if err := grid.SetCenter(geometry.Point{}); err != nil {
		return nil, err
	}
	c.Logger.Info("built sweep", "sweep", c.Name, "rows", rows, "cols", cols, "equidistant", c.Equidistant)
	return grid, nil
}

// label tags edge cells: numbers below the first row or above the last,
// letters left of the first column or right of the last. A single row or
// column is labelled on the bottom or left only.
func label(d *device.Device, l *Labels, p *Plan, i, j int) error {
	add := func(side device.Side, text string) error {
		return d.AddLabel(side, device.Label{
			Text: text, Layer: l.Layer, Size: l.Size, Distance: l.Distance, Style: l.Style,
		})
	}
	switch i {
	case 0:
		if err := add(device.Bottom, p.Numbers[j]); err != nil {
			return err
		}
	case p.Rows() - 1:
		if err := add(device.Top, p.Numbers[j]); err != nil {
			return err
		}
	}
	switch j {
	case 0:
		return add(device.Left, p.Letters[i])
	case p.Cols() - 1:
		return add(device.Right, p.Letters[i])
	}
	return nil
}
