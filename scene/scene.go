// Package scene is a host-neutral scene database: named objects, their
// transforms and polygon meshes.
//
// A Document uses Z-up right-handed coordinates, counter-clockwise front faces
// and bottom-left UV origin. Format readers convert into this convention.
package scene

import (
	"github.com/binzume/mshexport/geom"
)

type ObjectType string

const (
	TypeMesh  ObjectType = "MESH"
	TypeEmpty ObjectType = "EMPTY"
)

// Source resolves mesh objects by name.
type Source interface {
	LookupObject(name string) (MeshObject, error)
}

// MeshObject is the part of an object the exporter consumes.
type MeshObject interface {
	ObjectName() string
	WorldMatrix() *geom.Matrix4
	EvaluatedMesh() *Mesh
}

type Object struct {
	Name   string
	Type   ObjectType
	Parent *Object
	Matrix *geom.Matrix4 // local. nil means identity
	Data   *Mesh
}

func NewObject(name string, data *Mesh) *Object {
	typ := TypeMesh
	if data == nil {
		typ = TypeEmpty
	}
	return &Object{Name: name, Type: typ, Data: data}
}

func (o *Object) ObjectName() string {
	return o.Name
}

func (o *Object) LocalMatrix() *geom.Matrix4 {
	if o.Matrix == nil {
		return geom.NewMatrix4()
	}
	return o.Matrix
}

func (o *Object) WorldMatrix() *geom.Matrix4 {
	if o.Parent == nil {
		return o.LocalMatrix()
	}
	return o.Parent.WorldMatrix().Mul(o.LocalMatrix())
}

func (o *Object) EvaluatedMesh() *Mesh {
	if o.Data == nil {
		return &Mesh{ActiveUV: -1}
	}
	return o.Data
}

type Document struct {
	Objects []*Object
}

func (d *Document) AddObject(o *Object) *Object {
	d.Objects = append(d.Objects, o)
	return o
}

// LookupObject returns the first mesh object named name.
func (d *Document) LookupObject(name string) (MeshObject, error) {
	for _, o := range d.Objects {
		if o.Type == TypeMesh && o.Name == name {
			return o, nil
		}
	}
	return nil, &ObjectNotFoundError{Name: name}
}

// MeshNames returns names of all mesh objects, in document order.
func (d *Document) MeshNames() []string {
	var names []string
	for _, o := range d.Objects {
		if o.Type == TypeMesh {
			names = append(names, o.Name)
		}
	}
	return names
}
