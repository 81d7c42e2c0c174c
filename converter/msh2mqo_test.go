package converter

import (
	"bytes"
	"testing"

	"github.com/binzume/mshexport/geom"
	"github.com/binzume/mshexport/mqo"
	"github.com/binzume/mshexport/msh"
)

func TestMSHToMQO(t *testing.T) {
	src := &msh.Mesh{
		Vertices: []msh.Vertex{
			{Pos: geom.Vector3{X: 0, Y: 0, Z: 0}, UV: geom.Vector2{X: 0, Y: 0}},
			{Pos: geom.Vector3{X: 16, Y: 0, Z: 0}, UV: geom.Vector2{X: 1, Y: 0}},
			{Pos: geom.Vector3{X: 16, Y: 0, Z: -16}, UV: geom.Vector2{X: 1, Y: 1}},
			{Pos: geom.Vector3{X: 0, Y: 0, Z: -16}, UV: geom.Vector2{X: 0, Y: 1}},
		},
		Indices: []int32{2, 1, 0, 3, 2, 0},
	}

	doc, err := NewMSHToMQOConverter().Convert(src, "Quad")
	if err != nil {
		t.Fatal(err)
	}
	obj := doc.GetObject("Quad")
	if obj == nil {
		t.Fatal("object not found")
	}
	if len(obj.Vertexes) != 4 || len(obj.Faces) != 2 {
		t.Fatal("counts: ", len(obj.Vertexes), len(obj.Faces))
	}
	f := obj.Faces[1]
	if f.Verts[0] != 3 || f.Verts[1] != 2 || f.Verts[2] != 0 {
		t.Error("face: ", f.Verts)
	}
	if f.UVs[0] != (geom.Vector2{X: 0, Y: 0}) || f.UVs[1] != (geom.Vector2{X: 1, Y: 0}) {
		t.Error("uv: ", f.UVs)
	}

	// the written document parses back
	var buf bytes.Buffer
	if err := mqo.WriteMQO(doc, &buf); err != nil {
		t.Fatal(err)
	}
	parsed, err := mqo.NewParser(&buf, "").Parse()
	if err != nil {
		t.Fatal(err)
	}
	if o := parsed.GetObject("Quad"); o == nil || len(o.Faces) != 2 || *o.Vertexes[2] != src.Vertices[2].Pos {
		t.Error("parsed: ", o)
	}

	src.Indices = src.Indices[:5]
	if _, err := NewMSHToMQOConverter().Convert(src, "bad"); err == nil {
		t.Error("invalid mesh should be rejected")
	}
}
