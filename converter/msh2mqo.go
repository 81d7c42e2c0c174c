package converter

import (
	"github.com/binzume/mshexport/mqo"
	"github.com/binzume/mshexport/msh"
)

type mshToMqo struct {
}

func NewMSHToMQOConverter() *mshToMqo {
	return &mshToMqo{}
}

// Convert makes a single object holding m's triangles as they are stored,
// vertices unwelded. Triangle order is kept so the file reads like the index buffer.
func (c *mshToMqo) Convert(m *msh.Mesh, name string) (*mqo.Document, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	obj := mqo.NewObject(name)
	for i := range m.Vertices {
		v := m.Vertices[i].Pos
		obj.Vertexes = append(obj.Vertexes, &v)
	}
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		f := &mqo.Face{Verts: []int{int(tri[0]), int(tri[1]), int(tri[2])}}
		for _, idx := range tri {
			f.UVs = append(f.UVs, m.Vertices[idx].UV.FlipV())
		}
		obj.Faces = append(obj.Faces, f)
	}

	doc := mqo.NewDocument()
	doc.Objects = append(doc.Objects, obj)
	return doc, nil
}
