// Package fonts provides the embedded typefaces used to rasterize labels.
//
// The faces are the Go fonts shipped with golang.org/x/image, compiled into
// the binary so that label geometry never depends on fonts installed on the
// machine that generates the mask. Parsed faces are cached after first use.
package fonts

import (
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/maskwork/ebeam/pkg/errors"
)

// Style selects a typeface.
type Style string

// Supported font styles.
const (
	Normal     Style = "normal"
	Italic     Style = "italic"
	Bold       Style = "bold"
	BoldItalic Style = "bolditalic"
	Mono       Style = "mono"
)

var ttfData = map[Style][]byte{
	Normal:     goregular.TTF,
	Italic:     goitalic.TTF,
	Bold:       gobold.TTF,
	BoldItalic: gobolditalic.TTF,
	Mono:       gomono.TTF,
}

// ParseStyle maps a style name to a Style. The empty string selects Normal
// and "oblique" is accepted as an alias for Italic.
func ParseStyle(s string) (Style, error) {
	switch st := Style(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return Normal, nil
	case "oblique":
		return Italic, nil
	case Normal, Italic, Bold, BoldItalic, Mono:
		return st, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown font style %q (must be one of: normal, italic, bold, bolditalic, mono)", s)
}

// TTF returns the raw TrueType data for style.
func TTF(style Style) ([]byte, error) {
	data, ok := ttfData[style]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown font style %q", style)
	}
	return data, nil
}

var (
	parsedMu sync.Mutex
	parsed   = map[Style]*sfnt.Font{}
)

// Face returns the parsed font for style. The result is cached and safe to
// share; callers must use their own sfnt.Buffer.
func Face(style Style) (*sfnt.Font, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()

	if f, ok := parsed[style]; ok {
		return f, nil
	}
	data, err := TTF(style)
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse %s font", style)
	}
	parsed[style] = f
	return f, nil
}
