// Package msh reads and writes .msh triangle meshes.
//
// Layout (little-endian, no header):
//
//	int32  vertex count V
//	V * { float32 x, y, z, u, v }
//	int32  index count I (multiple of 3)
//	I * int32
package msh

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/binzume/mshexport/geom"
)

const Ext = ".msh"

// VertexStride is the size of one vertex record in bytes.
const VertexStride = 5 * 4

type Vertex struct {
	Pos geom.Vector3
	UV  geom.Vector2
}

type Mesh struct {
	Vertices []Vertex
	Indices  []int32
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) Triangle(i int) [3]int32 {
	return [3]int32{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// Validate checks that indices form whole triangles within the vertex buffer.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if idx < 0 || int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d out of range: %d (vertices: %d)", i, idx, len(m.Vertices))
		}
	}
	return nil
}

func Load(path string) (*Mesh, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

// Save writes m to a temporary file next to path and renames it into place,
// so a failed export never leaves a truncated file behind.
func Save(m *Mesh, path string) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = f.Chmod(0644); err != nil {
		return err
	}
	if err = Write(f, m); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func Write(w io.Writer, m *Mesh) error {
	return NewWriter(w).Write(m)
}

func Parse(r io.Reader) (*Mesh, error) {
	return NewParser(r).Parse()
}
