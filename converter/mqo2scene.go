package converter

import (
	"log"
	"math"

	"github.com/binzume/mshexport/geom"
	"github.com/binzume/mshexport/mqo"
	"github.com/binzume/mshexport/scene"
)

// Y-up to Z-up
func yUpToZUp() *geom.Matrix4 {
	return geom.NewRotationXMatrix4(math.Pi / 2)
}

type MQOToSceneOption struct {
}

type mqoToScene struct {
	options *MQOToSceneOption
}

func NewMQOToSceneConverter(options *MQOToSceneOption) *mqoToScene {
	if options == nil {
		options = &MQOToSceneOption{}
	}
	return &mqoToScene{
		options: options,
	}
}

func (c *mqoToScene) convertMesh(obj *mqo.Object) *scene.Mesh {
	m := scene.NewMesh()
	m.Vertices = obj.Vertexes

	hasUV := false
	var faces []*mqo.Face
	for i, f := range obj.Faces {
		if len(f.Verts) < 3 {
			// lines
			log.Printf("  skip %s F%d: %d vertices", obj.Name, i, len(f.Verts))
			continue
		}
		faces = append(faces, f)
		hasUV = hasUV || len(f.UVs) == len(f.Verts)
	}

	var uvs []geom.Vector2
	for _, f := range faces {
		verts := make([]int, len(f.Verts))
		for i, v := range f.Verts {
			// clockwise to counter-clockwise
			verts[len(verts)-1-i] = v
		}
		m.AddPolygon(verts...)
		if !hasUV {
			continue
		}
		for i := range f.Verts {
			var uv geom.Vector2
			if len(f.UVs) == len(f.Verts) {
				uv = f.UVs[len(f.Verts)-1-i].FlipV()
			}
			uvs = append(uvs, uv)
		}
	}
	if hasUV {
		m.AddUVLayer("UVMap").Data = uvs
	}
	return m
}

// Convert builds a scene from doc. Object depth becomes parenting; MQO vertices
// are already in world space, so only the root carries the axis conversion.
func (c *mqoToScene) Convert(doc *mqo.Document) (*scene.Document, error) {
	dst := &scene.Document{}
	var path []*scene.Object
	for _, obj := range doc.Objects {
		o := dst.AddObject(scene.NewObject(obj.Name, c.convertMesh(obj)))
		if len(path) > obj.Depth {
			path = path[:obj.Depth]
		}
		if len(path) > 0 {
			o.Parent = path[len(path)-1]
			o.Matrix = geom.NewMatrix4()
		} else {
			o.Matrix = yUpToZUp()
		}
		path = append(path, o)
	}
	return dst, nil
}
