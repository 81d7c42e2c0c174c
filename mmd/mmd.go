// Package mmd reads the mesh part of MikuMikuDance models (.pmx, .pmd).
//
// Bones, morphs and physics follow the materials in both formats and are not read.
package mmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/binzume/mshexport/geom"
)

type Document struct {
	Header    *Header
	Name      string
	NameEn    string
	Comment   string
	CommentEn string
	Vertexes  []*Vertex
	Faces     []*Face
	Textures  []string
	Materials []*Material
}

type Header struct {
	Format  []byte
	Version float32
	Info    []byte
}

// Vertex coordinates are left-handed Y-up. UV origin is top-left.
type Vertex struct {
	Pos    geom.Vector3
	Normal geom.Vector3
	UV     geom.Vector2
}

type Face struct {
	Verts [3]int
}

type Material struct {
	Name      string
	NameEn    string
	Color     [4]float32
	Flags     byte
	TextureID int
	Count     int // number of face indices
}

const (
	MaterialFlagDoubleSided uint8 = 1
	MaterialFlagCastShadow  uint8 = 2
)

// indices of Header.Info
const (
	AttrStringEncoding int = iota
	AttrExtUV
	AttrVertIndexSz
	AttrTexIndexSz
	AttrMatIndexSz
	AttrBoneIndexSz
	AttrMorphIndexSz
	AttrRBIndexSz
)

// Parse detects the format from the magic ("PMX " or "Pmd").
func Parse(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(3)
	if err != nil {
		return nil, fmt.Errorf("mmd: %w", err)
	}
	if string(magic) == "Pmd" {
		return NewPMDParser(br).Parse()
	}
	return NewPMXParser(br).Parse()
}

func Load(path string) (*Document, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}
