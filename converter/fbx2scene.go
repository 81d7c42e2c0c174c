package converter

import (
	"fmt"

	"github.com/binzume/mshexport/fbx"
	"github.com/binzume/mshexport/scene"
)

type FBXToSceneOption struct {
}

type fbxToScene struct {
	options *FBXToSceneOption
}

func NewFBXToSceneConverter(options *FBXToSceneOption) *fbxToScene {
	if options == nil {
		options = &FBXToSceneOption{}
	}
	return &fbxToScene{
		options: options,
	}
}

// FBX polygons are already counter-clockwise with bottom-left UVs.
func (c *fbxToScene) convertGeometry(g *fbx.Geometry) (*scene.Mesh, error) {
	m := scene.NewMesh()
	m.Vertices = g.Vertices
	for _, poly := range g.Polygons {
		m.AddPolygon(poly...)
	}
	for n, el := range g.GetLayerElementUVs() {
		uvs := el.Array.GetVec2Array()
		indexes, err := el.PolygonVertexIndexes(g.Polygons)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g.Name(), err)
		}
		name := el.GetName()
		if name == "" {
			name = uvLayerName(n)
		}
		layer := m.AddUVLayer(name)
		for l, i := range indexes {
			if i < 0 || i >= len(uvs) {
				return nil, fmt.Errorf("%s: uv %d out of range (%d)", g.Name(), i, len(uvs))
			}
			layer.Data[l] = *uvs[i]
		}
	}
	return m, nil
}

func (c *fbxToScene) convertModel(dst *scene.Document, m *fbx.Model, parent *scene.Object, meshes map[int64]*scene.Mesh, visited map[*fbx.Model]bool) error {
	if visited[m] {
		return nil
	}
	visited[m] = true

	var data *scene.Mesh
	if g := m.GetGeometry(); g != nil && g.Kind() == "Mesh" {
		if data = meshes[g.ID()]; data == nil {
			var err error
			if data, err = c.convertGeometry(g); err != nil {
				return err
			}
			meshes[g.ID()] = data
		}
	}
	o := dst.AddObject(scene.NewObject(m.Name(), data))
	o.Parent = parent
	o.Matrix = m.GetMatrix()
	for _, child := range m.GetChildModels() {
		if err := c.convertModel(dst, child, o, meshes, visited); err != nil {
			return err
		}
	}
	return nil
}

// Convert walks the model tree from the document root. Y-up files get the
// axis conversion on their root models.
func (c *fbxToScene) Convert(src *fbx.Document) (*scene.Document, error) {
	dst := &scene.Document{}
	meshes := map[int64]*scene.Mesh{}
	visited := map[*fbx.Model]bool{}
	for _, m := range src.Scene.GetChildModels() {
		start := len(dst.Objects)
		if err := c.convertModel(dst, m, nil, meshes, visited); err != nil {
			return nil, err
		}
		if start < len(dst.Objects) && src.UpAxis() == 1 {
			root := dst.Objects[start]
			root.Matrix = yUpToZUp().Mul(root.Matrix)
		}
	}
	return dst, nil
}
