// Package mqo reads and writes the geometry part of Metasequoia documents.
// Materials, plugins and MQX sidecar files are skipped.
package mqo

import "github.com/binzume/mshexport/geom"

type Vector2 = geom.Vector2
type Vector3 = geom.Vector3

// Face is a polygon. Metasequoia lists vertices clockwise.
type Face struct {
	UID      int
	Verts    []int
	Material int
	UVs      []Vector2 // top-left origin
}

type Object struct {
	UID      int
	Name     string
	Vertexes []*Vector3
	Faces    []*Face
	Visible  bool
	Locked   bool
	Depth    int
}

func NewObject(name string) *Object {
	return &Object{Name: name, Visible: true}
}

type Document struct {
	Objects []*Object
}

func NewDocument() *Document {
	return &Document{}
}

func (doc *Document) GetObject(name string) *Object {
	for _, o := range doc.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}
