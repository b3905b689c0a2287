package sink

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/maskwork/ebeam/pkg/device"
	"github.com/maskwork/ebeam/pkg/errors"
	"github.com/maskwork/ebeam/pkg/geometry"
)

// Namespace seeds the name-based cell IDs.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("github.com/maskwork/ebeam"))

// Snapshot is a flattened, serializable view of a device tree.
type Snapshot struct {
	Name   string           `json:"name" msgpack:"name"`
	Bounds geometry.Rect    `json:"bounds" msgpack:"bounds"`
	Layers []geometry.Layer `json:"layers" msgpack:"layers"`
	Cells  []Cell           `json:"cells" msgpack:"cells"`
}

// Cell is one device instance. Cells are listed depth first, parents before
// their children.
type Cell struct {
	ID          string              `json:"id" msgpack:"id"`
	Parent      string              `json:"parent,omitempty" msgpack:"parent,omitempty"`
	Name        string              `json:"name" msgpack:"name"`
	Path        string              `json:"path" msgpack:"path"`
	Depth       int                 `json:"depth" msgpack:"depth"`
	Shapes      []geometry.Shape    `json:"shapes,omitempty" msgpack:"shapes,omitempty"`
	Ports       []device.Port       `json:"ports,omitempty" msgpack:"ports,omitempty"`
	Annotations []device.Annotation `json:"annotations,omitempty" msgpack:"annotations,omitempty"`
}

// Export flattens d into a snapshot. Cell paths join instance names and
// sibling indices with "/", e.g. "top/0:sweep/3:etchslab_B2".
func Export(d *device.Device) (*Snapshot, error) {
	b, err := d.Bounds()
	if err != nil {
		return nil, err
	}
	s := &Snapshot{Name: d.Name, Bounds: b, Layers: d.Layers()}
	s.collect(d, "", d.Name, 0)
	return s, nil
}

func (s *Snapshot) collect(d *device.Device, parent, path string, depth int) {
	id := uuid.NewSHA1(Namespace, []byte(path)).String()
	s.Cells = append(s.Cells, Cell{
		ID:          id,
		Parent:      parent,
		Name:        d.Name,
		Path:        path,
		Depth:       depth,
		Shapes:      d.Shapes(),
		Ports:       d.Ports(),
		Annotations: d.Annotations(),
	})
	for i, c := range d.Children() {
		s.collect(c, id, path+"/"+strconv.Itoa(i)+":"+c.Name, depth+1)
	}
}

// Device rebuilds the device tree described by the snapshot.
func (s *Snapshot) Device() (*device.Device, error) {
	if len(s.Cells) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGeometry, "snapshot %q has no cells", s.Name)
	}
	nodes := make(map[string]*device.Device, len(s.Cells))
	var root *device.Device
	for _, c := range s.Cells {
		n := device.New(c.Name)
		for _, sh := range c.Shapes {
			if err := n.AddShape(sh.Layer, sh.Polygon); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "cell %s", c.Path)
			}
		}
		for _, p := range c.Ports {
			if err := n.AddPort(p); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "cell %s", c.Path)
			}
		}
		for _, a := range c.Annotations {
			if err := n.Annotate(a.Text, a.Position, a.Layer); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "cell %s", c.Path)
			}
		}
		nodes[c.ID] = n
		if c.Parent == "" {
			if root != nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "snapshot %q has more than one root", s.Name)
			}
			root = n
			continue
		}
		parent, ok := nodes[c.Parent]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "cell %s: parent %s not seen", c.Path, c.Parent)
		}
		if _, err := parent.Insert(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "cell %s", c.Path)
		}
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "snapshot %q has no root", s.Name)
	}
	return root, nil
}

type jsonOutput struct {
	*Snapshot
	CellCount int `json:"cell_count"`
}

// RenderJSON writes the snapshot of d as indented JSON.
func RenderJSON(d *device.Device) ([]byte, error) {
	s, err := Export(d)
	if err != nil {
		return nil, err
	}
	out := jsonOutput{Snapshot: s, CellCount: len(s.Cells)}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return data, nil
}

// DecodeJSON reads a snapshot written by [RenderJSON].
func DecodeJSON(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json snapshot")
	}
	return &s, nil
}

// RenderMsgpack writes the snapshot of d as MessagePack.
func RenderMsgpack(d *device.Device) ([]byte, error) {
	s, err := Export(d)
	if err != nil {
		return nil, err
	}
	return EncodeMsgpack(s)
}

// EncodeMsgpack writes s as MessagePack.
func EncodeMsgpack(s *Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode msgpack")
	}
	return data, nil
}

// DecodeMsgpack reads a snapshot written by [RenderMsgpack].
func DecodeMsgpack(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode msgpack snapshot")
	}
	return &s, nil
}
