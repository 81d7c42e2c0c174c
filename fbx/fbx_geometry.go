package fbx

import (
	"fmt"

	"github.com/binzume/mshexport/geom"
)

type Geometry struct {
	Obj
	Vertices []*geom.Vector3
	Polygons [][]int
}

type MappingType string

const (
	AllSame         MappingType = "AllSame"
	ByPolygon       MappingType = "ByPolygon"
	ByVertice       MappingType = "ByVertice"
	ByVertex        MappingType = "ByVertex"
	ByPolygonVertex MappingType = "ByPolygonVertex"
	ByControlPoint  MappingType = "ByControlPoint"
)

// PolygonVertexIndex ends each polygon with a bitwise-negated index.
func newGeometry(base Obj) *Geometry {
	g := &Geometry{Obj: base}
	g.Vertices = g.FindChild("Vertices").GetVec3Array()
	var poly []int
	for _, index := range g.FindChild("PolygonVertexIndex").GetInt32Array() {
		if index < 0 {
			g.Polygons = append(g.Polygons, append(poly, int(^index)))
			poly = nil
			continue
		}
		poly = append(poly, int(index))
	}
	return g
}

type LayerElement struct {
	*Node
	Array     *Node
	IndexNode *Node
}

func (g *Geometry) GetLayerElements(name, arrayName, indexName string) []*LayerElement {
	var r []*LayerElement
	for _, node := range g.FindChildren(name) {
		r = append(r, &LayerElement{node, node.FindChild(arrayName), node.FindChild(indexName)})
	}
	return r
}

func (g *Geometry) GetLayerElementUVs() []*LayerElement {
	return g.GetLayerElements("LayerElementUV", "UV", "UVIndex")
}

func (e *LayerElement) GetName() string {
	return e.FindChild("Name").GetString()
}

func (e *LayerElement) GetMappingInformationType() MappingType {
	return MappingType(e.FindChild("MappingInformationType").GetString())
}

func (e *LayerElement) GetReferenceInformationType() string {
	return e.FindChild("ReferenceInformationType").GetString()
}

// PolygonVertexIndexes maps every polygon corner, in polygon order, to an
// element of e.Array.
func (e *LayerElement) PolygonVertexIndexes(polygons [][]int) ([]int, error) {
	var r []int
	mapping := e.GetMappingInformationType()
	loop := 0
	for pi, poly := range polygons {
		for _, v := range poly {
			switch mapping {
			case ByPolygonVertex:
				r = append(r, loop)
			case ByVertice, ByVertex, ByControlPoint:
				r = append(r, v)
			case ByPolygon:
				r = append(r, pi)
			case AllSame:
				r = append(r, 0)
			default:
				return nil, fmt.Errorf("%s: unsupported mapping %q", e.Name, mapping)
			}
			loop++
		}
	}

	ref := e.GetReferenceInformationType()
	if ref == "IndexToDirect" || ref == "Index" {
		indexes := e.IndexNode.GetInt32Array()
		for i, idx := range r {
			if idx >= len(indexes) {
				return nil, fmt.Errorf("%s: index %d out of range (%d)", e.Name, idx, len(indexes))
			}
			r[i] = int(indexes[idx])
		}
	}
	return r, nil
}
