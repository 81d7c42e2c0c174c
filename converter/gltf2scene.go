package converter

import (
	"fmt"
	"log"

	"github.com/binzume/mshexport/geom"
	"github.com/binzume/mshexport/gltfutil"
	"github.com/binzume/mshexport/scene"
	"github.com/qmuntal/gltf"
)

type GLTFToSceneOption struct {
	MaxUVLayers int // 0 means 2 (TEXCOORD_0, TEXCOORD_1)
}

type gltfToScene struct {
	options *GLTFToSceneOption
}

func NewGLTFToSceneConverter(options *GLTFToSceneOption) *gltfToScene {
	if options == nil {
		options = &GLTFToSceneOption{}
	}
	return &gltfToScene{
		options: options,
	}
}

func uvLayerName(i int) string {
	if i == 0 {
		return "UVMap"
	}
	return fmt.Sprintf("UVMap.%03d", i)
}

func (c *gltfToScene) convertMesh(src *gltf.Document, gm *gltf.Mesh) (*scene.Mesh, error) {
	maxUV := c.options.MaxUVLayers
	if maxUV <= 0 {
		maxUV = 2
	}

	m := scene.NewMesh()
	uvs := make([][]geom.Vector2, maxUV)
	hasUV := make([]bool, maxUV)
	for pi, p := range gm.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			log.Printf("  skip %s primitive %d: mode %v", gm.Name, pi, p.Mode)
			continue
		}
		a, ok := p.Attributes["POSITION"]
		if !ok {
			continue
		}
		pos, err := gltfutil.ReadPositions(src, a)
		if err != nil {
			return nil, fmt.Errorf("%s primitive %d: %w", gm.Name, pi, err)
		}
		indices, err := gltfutil.ReadIndices(src, p, len(pos))
		if err != nil {
			return nil, fmt.Errorf("%s primitive %d: %w", gm.Name, pi, err)
		}
		texCoords := make([][][2]float32, maxUV)
		for n := range texCoords {
			if a, ok := p.Attributes[fmt.Sprintf("TEXCOORD_%d", n)]; ok {
				if texCoords[n], err = gltfutil.ReadTextureCoords(src, a); err != nil {
					return nil, fmt.Errorf("%s primitive %d: %w", gm.Name, pi, err)
				}
				hasUV[n] = true
			}
		}

		base := len(m.Vertices)
		for _, v := range pos {
			m.Vertices = append(m.Vertices, geom.NewVector3FromArray(v))
		}
		for i := 0; i+2 < len(indices); i += 3 {
			tri := indices[i : i+3]
			if int(tri[0]) >= len(pos) || int(tri[1]) >= len(pos) || int(tri[2]) >= len(pos) {
				return nil, fmt.Errorf("%s primitive %d: index out of range", gm.Name, pi)
			}
			m.AddPolygon(base+int(tri[0]), base+int(tri[1]), base+int(tri[2]))
			for n, tc := range texCoords {
				for _, idx := range tri {
					var uv geom.Vector2
					if int(idx) < len(tc) {
						uv = geom.Vector2{X: tc[idx][0], Y: tc[idx][1]}.FlipV()
					}
					uvs[n] = append(uvs[n], uv)
				}
			}
		}
	}
	for n := range uvs {
		if hasUV[n] {
			m.AddUVLayer(uvLayerName(n)).Data = uvs[n]
		}
	}
	return m, nil
}

// Convert builds a scene with one object per node. Nodes without a mesh become
// empties so they still parent their children.
func (c *gltfToScene) Convert(src *gltf.Document) (*scene.Document, error) {
	dst := &scene.Document{}
	meshes := map[uint32]*scene.Mesh{}
	objects := make([]*scene.Object, len(src.Nodes))
	for i, node := range src.Nodes {
		var data *scene.Mesh
		if node.Mesh != nil {
			if int(*node.Mesh) >= len(src.Meshes) {
				return nil, fmt.Errorf("node %d: mesh %d out of range", i, *node.Mesh)
			}
			if data = meshes[*node.Mesh]; data == nil {
				m, err := c.convertMesh(src, src.Meshes[*node.Mesh])
				if err != nil {
					return nil, err
				}
				meshes[*node.Mesh] = m
				data = m
			}
		}
		name := node.Name
		if name == "" && node.Mesh != nil {
			name = src.Meshes[*node.Mesh].Name
		}
		objects[i] = dst.AddObject(scene.NewObject(name, data))
		objects[i].Matrix = gltfutil.LocalMatrix(node)
	}

	parents := gltfutil.ParentIndices(src)
	for i, o := range objects {
		if p, ok := parents[uint32(i)]; ok && int(p) < len(objects) {
			o.Parent = objects[p]
		} else {
			o.Matrix = yUpToZUp().Mul(o.Matrix)
		}
	}
	return dst, nil
}
