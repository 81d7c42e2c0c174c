package mmd

import (
	"io"
	"unicode/utf16"
)

// see also:
// https://gist.github.com/felixjones/f8a06bd48f9da9a4539f

type PMXParser struct {
	baseParser
	header *Header
}

func NewPMXParser(r io.Reader) *PMXParser {
	return &PMXParser{baseParser: baseParser{r: r}}
}

func (p *PMXParser) readIndex(attrTyp int) int {
	return p.readVInt(p.header.Info[attrTyp])
}

func (p *PMXParser) readUIndex(attrTyp int) int {
	return p.readVUInt(p.header.Info[attrTyp])
}

func (p *PMXParser) readText() string {
	n := p.readInt()
	if !p.checkCount(n, maxCount) {
		return ""
	}
	if p.header.Info[AttrStringEncoding] == 0 {
		utf16data := make([]uint16, n/2)
		p.read(utf16data)
		return string(utf16.Decode(utf16data))
	}
	data := make([]byte, n)
	p.read(data)
	return string(data)
}

func (p *PMXParser) readHeader() error {
	h := &Header{Format: make([]byte, 4)}
	p.read(h.Format)
	if p.err != nil {
		return p.err
	}
	if string(h.Format) != "PMX " {
		return &FormatError{Format: string(h.Format)}
	}
	p.read(&h.Version)
	h.Info = make([]byte, p.readUint8())
	p.read(h.Info)
	if p.err == nil && len(h.Info) <= AttrRBIndexSz {
		return &FormatError{Format: "PMX (short header)"}
	}
	p.header = h
	return p.err
}

func (p *PMXParser) readVertex() *Vertex {
	var v Vertex
	p.read(&v.Pos)
	p.read(&v.Normal)
	p.read(&v.UV)
	p.skip(16 * int(p.header.Info[AttrExtUV]))

	boneSz := int(p.header.Info[AttrBoneIndexSz])
	switch weightType := p.readUint8(); weightType {
	case 0: // BDEF1
		p.skip(boneSz)
	case 1: // BDEF2
		p.skip(boneSz*2 + 4)
	case 2, 4: // BDEF4, QDEF
		p.skip(boneSz*4 + 16)
	case 3: // SDEF
		p.skip(boneSz*2 + 4 + 12*3)
	default:
		if p.err == nil {
			p.err = &FormatError{Format: "PMX (unknown weight type)"}
		}
	}
	p.readFloat() // edge scale
	return &v
}

func (p *PMXParser) readFace() *Face {
	var f Face
	f.Verts[0] = p.readUIndex(AttrVertIndexSz)
	f.Verts[1] = p.readUIndex(AttrVertIndexSz)
	f.Verts[2] = p.readUIndex(AttrVertIndexSz)
	return &f
}

func (p *PMXParser) readMaterial() *Material {
	var m Material
	m.Name = p.readText()
	m.NameEn = p.readText()
	p.read(&m.Color)
	p.skip(12 + 4 + 12) // specular, specularity, ambient
	m.Flags = p.readUint8()
	p.skip(16 + 4) // edge
	m.TextureID = p.readIndex(AttrTexIndexSz)
	p.readIndex(AttrTexIndexSz) // sphere
	p.readUint8()
	if toonType := p.readUint8(); toonType == 0 {
		p.readIndex(AttrTexIndexSz)
	} else {
		p.readUint8()
	}
	p.readText() // memo
	m.Count = p.readInt()
	return &m
}

func (p *PMXParser) Parse() (*Document, error) {
	var doc Document

	if err := p.readHeader(); err != nil {
		return nil, err
	}
	doc.Header = p.header
	doc.Name = p.readText()
	doc.NameEn = p.readText()
	doc.Comment = p.readText()
	doc.CommentEn = p.readText()

	vn := p.readInt()
	for i := 0; i < vn && p.checkCount(vn, maxCount); i++ {
		doc.Vertexes = append(doc.Vertexes, p.readVertex())
	}

	fn := p.readInt() / 3
	for i := 0; i < fn && p.checkCount(fn, maxCount); i++ {
		doc.Faces = append(doc.Faces, p.readFace())
	}

	tn := p.readInt()
	for i := 0; i < tn && p.checkCount(tn, maxCount); i++ {
		doc.Textures = append(doc.Textures, p.readText())
	}

	mn := p.readInt()
	for i := 0; i < mn && p.checkCount(mn, maxCount); i++ {
		doc.Materials = append(doc.Materials, p.readMaterial())
	}

	if err := p.failure(); err != nil {
		return nil, err
	}
	return &doc, nil
}
