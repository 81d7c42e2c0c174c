package scene

import "github.com/binzume/mshexport/geom"

type Loop struct {
	Vertex int
}

type Polygon struct {
	LoopStart int
	LoopTotal int
}

// UVLayer holds one coordinate per loop.
type UVLayer struct {
	Name string
	Data []geom.Vector2
}

type Mesh struct {
	Vertices []*geom.Vector3
	Loops    []Loop
	Polygons []Polygon
	UVLayers []*UVLayer
	ActiveUV int // index of UVLayers, -1 if none
}

func NewMesh() *Mesh {
	return &Mesh{ActiveUV: -1}
}

// AddPolygon appends a polygon whose corners reference verts in order.
func (m *Mesh) AddPolygon(verts ...int) {
	m.Polygons = append(m.Polygons, Polygon{LoopStart: len(m.Loops), LoopTotal: len(verts)})
	for _, v := range verts {
		m.Loops = append(m.Loops, Loop{Vertex: v})
	}
}

// AddUVLayer appends a layer sized to the current loop table. The first layer becomes active.
func (m *Mesh) AddUVLayer(name string) *UVLayer {
	layer := &UVLayer{Name: name, Data: make([]geom.Vector2, len(m.Loops))}
	m.UVLayers = append(m.UVLayers, layer)
	if m.ActiveUV < 0 {
		m.ActiveUV = len(m.UVLayers) - 1
	}
	return layer
}

func (m *Mesh) ActiveUVLayer() (*UVLayer, error) {
	if m.ActiveUV < 0 || m.ActiveUV >= len(m.UVLayers) {
		return nil, &MissingUVLayerError{}
	}
	return m.UVLayers[m.ActiveUV], nil
}

// UVLayer returns the named layer, or the active one when name is empty.
func (m *Mesh) UVLayer(name string) (*UVLayer, error) {
	if name == "" {
		return m.ActiveUVLayer()
	}
	for _, l := range m.UVLayers {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, &MissingUVLayerError{Name: name}
}
