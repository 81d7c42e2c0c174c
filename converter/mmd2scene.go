package converter

import (
	"fmt"

	"github.com/binzume/mshexport/geom"
	"github.com/binzume/mshexport/mmd"
	"github.com/binzume/mshexport/scene"
)

type MMDToSceneOption struct {
	// DefaultName is used when the model has no name.
	DefaultName string
}

type mmdToScene struct {
	options *MMDToSceneOption
}

func NewMMDToSceneConverter(options *MMDToSceneOption) *mmdToScene {
	if options == nil {
		options = &MMDToSceneOption{}
	}
	return &mmdToScene{
		options: options,
	}
}

func (c *mmdToScene) objectName(doc *mmd.Document) string {
	if doc.Name != "" {
		return doc.Name
	}
	if doc.NameEn != "" {
		return doc.NameEn
	}
	if c.options.DefaultName != "" {
		return c.options.DefaultName
	}
	return "Model"
}

// Convert builds a scene with one object holding the whole model.
// Z is negated into right-handed space and faces are reversed to counter-clockwise.
func (c *mmdToScene) Convert(doc *mmd.Document) (*scene.Document, error) {
	m := scene.NewMesh()
	m.Vertices = make([]*geom.Vector3, len(doc.Vertexes))
	for i, v := range doc.Vertexes {
		m.Vertices[i] = &geom.Vector3{X: v.Pos.X, Y: v.Pos.Y, Z: -v.Pos.Z}
	}

	var uvs []geom.Vector2
	for i, f := range doc.Faces {
		verts := make([]int, 3)
		for j, v := range f.Verts {
			if v < 0 || v >= len(doc.Vertexes) {
				return nil, fmt.Errorf("face %d: vertex %d out of range", i, v)
			}
			verts[2-j] = v
		}
		m.AddPolygon(verts...)
		for _, v := range verts {
			uvs = append(uvs, doc.Vertexes[v].UV.FlipV())
		}
	}
	m.AddUVLayer("UVMap").Data = uvs

	dst := &scene.Document{}
	o := dst.AddObject(scene.NewObject(c.objectName(doc), m))
	o.Matrix = yUpToZUp()
	return dst, nil
}
