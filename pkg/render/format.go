package render

import (
	"slices"
	"strings"

	"github.com/maskwork/ebeam/pkg/errors"
)

// Format is an output format identifier.
type Format string

const (
	FormatSVG       Format = "svg"
	FormatPNG       Format = "png"
	FormatJSON      Format = "json"
	FormatMsgpack   Format = "msgpack"
	FormatHierarchy Format = "hierarchy"
)

// Formats lists every supported format in a stable order.
var Formats = []Format{FormatSVG, FormatPNG, FormatJSON, FormatMsgpack, FormatHierarchy}

// ParseFormat resolves a case-insensitive format name. "dot" and "tree" are
// accepted as aliases of the hierarchy diagram.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "dot", "tree":
		return FormatHierarchy, nil
	case "mpk":
		return FormatMsgpack, nil
	}
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q", s)
	}
	return f, nil
}

// Ext returns the file extension used when writing the format, without the
// leading dot.
func (f Format) Ext() string {
	switch f {
	case FormatMsgpack:
		return "mpk"
	case FormatHierarchy:
		return "tree.svg"
	}
	return string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG, FormatHierarchy:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatMsgpack:
		return "application/msgpack"
	}
	return "application/octet-stream"
}
