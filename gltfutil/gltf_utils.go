package gltfutil

import (
	"fmt"

	"github.com/binzume/mshexport/geom"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func Load(path string) (*gltf.Document, error) {
	return gltf.Open(path)
}

// LocalMatrix returns the node transform. An explicit matrix wins over TRS.
func LocalMatrix(node *gltf.Node) *geom.Matrix4 {
	if m := node.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return geom.NewMatrix4FromArray(m)
	}
	rot := geom.NewQuaternionFromArray(node.RotationOrDefault())
	return geom.NewTRSMatrix4(
		geom.NewVector3FromArray(node.Translation),
		rot.Normalize(),
		geom.NewVector3FromArray(node.ScaleOrDefault()))
}

// ParentIndices maps a child node index to its parent.
func ParentIndices(doc *gltf.Document) map[uint32]uint32 {
	parents := map[uint32]uint32{}
	for i, n := range doc.Nodes {
		for _, child := range n.Children {
			parents[child] = uint32(i)
		}
	}
	return parents
}

func ReadPositions(doc *gltf.Document, accessor uint32) ([][3]float32, error) {
	if int(accessor) >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessor)
	}
	return modeler.ReadPosition(doc, doc.Accessors[accessor], [][3]float32{})
}

func ReadTextureCoords(doc *gltf.Document, accessor uint32) ([][2]float32, error) {
	if int(accessor) >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessor)
	}
	return modeler.ReadTextureCoord(doc, doc.Accessors[accessor], [][2]float32{})
}

// ReadIndices returns the primitive's indices, or 0..count-1 for non-indexed primitives.
func ReadIndices(doc *gltf.Document, p *gltf.Primitive, count int) ([]uint32, error) {
	if p.Indices == nil {
		indices := make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
		return indices, nil
	}
	if int(*p.Indices) >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", *p.Indices)
	}
	return modeler.ReadIndices(doc, doc.Accessors[*p.Indices], []uint32{})
}
