package converter

import (
	"github.com/binzume/mshexport/msh"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type MSHToGLTFOption struct {
	Scale float32 // applied to positions. 0 means 1/DefaultScale
}

type mshToGltf struct {
	options *MSHToGLTFOption
}

func NewMSHToGLTFConverter(options *MSHToGLTFOption) *mshToGltf {
	if options == nil {
		options = &MSHToGLTFOption{}
	}
	return &mshToGltf{
		options: options,
	}
}

// Convert makes a single-node document for previewing m in a glTF viewer.
func (c *mshToGltf) Convert(m *msh.Mesh, name string) (*gltf.Document, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	scale := c.options.Scale
	if scale == 0 {
		scale = 1.0 / DefaultScale
	}

	positions := make([][3]float32, len(m.Vertices))
	texcoords := make([][2]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = [3]float32{v.Pos.X * scale, v.Pos.Y * scale, v.Pos.Z * scale}
		uv := v.UV.FlipV()
		texcoords[i] = [2]float32{uv.X, uv.Y}
	}
	// msh triangles are clockwise
	indices := make([]uint32, 0, len(m.Indices))
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		indices = append(indices, uint32(tri[2]), uint32(tri[1]), uint32(tri[0]))
	}

	doc := gltf.NewDocument()
	attributes := map[string]uint32{
		"POSITION":   modeler.WritePosition(doc, positions),
		"TEXCOORD_0": modeler.WriteTextureCoord(doc, texcoords),
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: attributes,
			Mode:       gltf.PrimitiveTriangles,
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}
