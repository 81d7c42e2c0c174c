package mmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// PMDParser is parser for .pmd model.
type PMDParser struct {
	baseParser
}

// NewPMDParser returns new parser.
func NewPMDParser(r io.Reader) *PMDParser {
	return &PMDParser{baseParser: baseParser{r: r}}
}

// readString reads a fixed size, NUL terminated Shift_JIS string.
func (p *PMDParser) readString(len int) string {
	b := make([]byte, len)
	p.read(b)
	utf8Data, _, _ := transform.Bytes(japanese.ShiftJIS.NewDecoder(), bytes.SplitN(b, []byte{0}, 2)[0])
	return string(utf8Data)
}

func (p *PMDParser) readHeader() (*Header, error) {
	h := &Header{Format: make([]byte, 3)}
	p.read(h.Format)
	if p.err != nil {
		return nil, p.err
	}
	if string(h.Format) != "Pmd" {
		return nil, &FormatError{Format: string(h.Format)}
	}
	p.read(&h.Version)
	return h, p.err
}

func (p *PMDParser) readVertex() *Vertex {
	var v Vertex
	p.read(&v.Pos)
	p.read(&v.Normal)
	p.read(&v.UV)
	p.skip(2*2 + 1 + 1) // bones, weight, edge flag
	return &v
}

func (p *PMDParser) readMaterial(doc *Document, i int) *Material {
	var m Material
	m.Name = fmt.Sprintf("mat%d", i+1)
	p.read(&m.Color)
	p.skip(4 + 12 + 12 + 1 + 1) // specularity, specular, ambient, toon, edge
	m.Count = p.readInt()

	tex := strings.SplitN(p.readString(20), "*", 2)
	if tex[0] != "" {
		m.TextureID = len(doc.Textures)
		doc.Textures = append(doc.Textures, tex...)
	} else {
		m.TextureID = -1
	}

	if m.Color[3] < 1 {
		m.Flags = MaterialFlagDoubleSided
	}
	return &m
}

// Parse model data.
func (p *PMDParser) Parse() (*Document, error) {
	var doc Document

	h, err := p.readHeader()
	if err != nil {
		return nil, err
	}
	doc.Header = h
	doc.Name = p.readString(20)
	doc.Comment = p.readString(256)

	n := p.readInt()
	for i := 0; i < n && p.checkCount(n, maxCount); i++ {
		doc.Vertexes = append(doc.Vertexes, p.readVertex())
	}

	n = p.readInt() / 3
	for i := 0; i < n && p.checkCount(n, maxCount); i++ {
		var f Face
		f.Verts[0] = int(p.readUint16())
		f.Verts[1] = int(p.readUint16())
		f.Verts[2] = int(p.readUint16())
		doc.Faces = append(doc.Faces, &f)
	}

	n = p.readInt()
	for i := 0; i < n && p.checkCount(n, maxCount); i++ {
		doc.Materials = append(doc.Materials, p.readMaterial(&doc, i))
	}

	if err := p.failure(); err != nil {
		return nil, err
	}
	return &doc, nil
}
