package converter

import (
	"fmt"
	"log"
	"math"

	"github.com/binzume/mshexport/geom"
	"github.com/binzume/mshexport/msh"
	"github.com/binzume/mshexport/scene"
)

const (
	DefaultScale     = 16
	DefaultRotationX = -90 // degrees
)

type DegeneratePolygonError struct {
	Polygon int
	Loops   int
}

func (e *DegeneratePolygonError) Error() string {
	return fmt.Sprintf("polygon %d has %d loops (at least 3 required)", e.Polygon, e.Loops)
}

type SceneToMSHOption struct {
	Scale     float32 // uniform. 0 means DefaultScale
	RotationX *float64
	UVLayer   string // empty for the active layer
}

type sceneToMsh struct {
	options *SceneToMSHOption
}

func NewSceneToMSHConverter(options *SceneToMSHOption) *sceneToMsh {
	if options == nil {
		options = &SceneToMSHOption{}
	}
	return &sceneToMsh{
		options: options,
	}
}

// PreTransform returns Scale * RotationX, applied after the object's world matrix.
func (c *sceneToMsh) PreTransform() *geom.Matrix4 {
	s := c.options.Scale
	if s == 0 {
		s = DefaultScale
	}
	rx := float64(DefaultRotationX)
	if c.options.RotationX != nil {
		rx = *c.options.RotationX
	}
	return geom.NewScaleMatrix4(s, s, s).Mul(geom.NewRotationXMatrix4(rx * math.Pi / 180))
}

func checkPolygon(m *scene.Mesh, i int, p scene.Polygon) error {
	if p.LoopTotal < 3 {
		return &DegeneratePolygonError{Polygon: i, Loops: p.LoopTotal}
	}
	if p.LoopStart < 0 || p.LoopStart+p.LoopTotal > len(m.Loops) {
		return fmt.Errorf("polygon %d: loops %d..%d out of range (%d)", i, p.LoopStart, p.LoopStart+p.LoopTotal, len(m.Loops))
	}
	for l := p.LoopStart; l < p.LoopStart+p.LoopTotal; l++ {
		if v := m.Loops[l].Vertex; v < 0 || v >= len(m.Vertices) {
			return fmt.Errorf("polygon %d: loop %d references vertex %d (%d)", i, l, v, len(m.Vertices))
		}
	}
	return nil
}

// Convert fan-triangulates every polygon of obj. Each polygon appends its own
// corners, so vertices shared between polygons are duplicated.
func (c *sceneToMsh) Convert(obj scene.MeshObject) (*msh.Mesh, error) {
	m := obj.EvaluatedMesh()
	uv, err := m.UVLayer(c.options.UVLayer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", obj.ObjectName(), err)
	}
	if len(uv.Data) < len(m.Loops) {
		return nil, fmt.Errorf("%s: UV layer %q has %d entries for %d loops", obj.ObjectName(), uv.Name, len(uv.Data), len(m.Loops))
	}

	tx := c.PreTransform().Mul(obj.WorldMatrix())
	if tx.Det() < 0 {
		log.Printf("%s: transform mirrors geometry, faces will be flipped", obj.ObjectName())
	}

	dst := &msh.Mesh{}
	for i, p := range m.Polygons {
		if err := checkPolygon(m, i, p); err != nil {
			return nil, err
		}
		ofz := len(dst.Vertices)
		for l := p.LoopStart; l < p.LoopStart+p.LoopTotal; l++ {
			dst.Vertices = append(dst.Vertices, msh.Vertex{
				Pos: *tx.ApplyTo(m.Vertices[m.Loops[l].Vertex]),
				UV:  uv.Data[l],
			})
		}
		for t := 0; t < p.LoopTotal-2; t++ {
			// fan (ofz, ofz+1+t, ofz+2+t), emitted in reverse order
			dst.Indices = append(dst.Indices, int32(ofz+2+t), int32(ofz+1+t), int32(ofz))
		}
	}
	return dst, nil
}
