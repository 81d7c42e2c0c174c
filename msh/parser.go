package msh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// initial capacity limit, counts come from untrusted input
const maxPrealloc = 1 << 16

type Parser struct {
	r   io.Reader
	err error
}

func NewParser(r io.Reader) *Parser {
	return &Parser{r: bufio.NewReader(r)}
}

func (p *Parser) read(v interface{}) {
	if p.err == nil {
		p.err = binary.Read(p.r, binary.LittleEndian, v)
	}
}

func (p *Parser) readCount(name string) int {
	var n int32
	p.read(&n)
	if p.err == nil && n < 0 {
		p.err = fmt.Errorf("negative %s count: %d", name, n)
	}
	return int(n)
}

func (p *Parser) fail(what string) error {
	if p.err == io.EOF || p.err == io.ErrUnexpectedEOF {
		return fmt.Errorf("msh: truncated %s: %w", what, io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("msh: %s: %w", what, p.err)
}

func (p *Parser) Parse() (*Mesh, error) {
	m := &Mesh{}

	nv := p.readCount("vertex")
	if p.err != nil {
		return nil, p.fail("vertex count")
	}
	m.Vertices = make([]Vertex, 0, min(nv, maxPrealloc))
	for i := 0; i < nv; i++ {
		var rec [5]float32
		p.read(&rec)
		if p.err != nil {
			return nil, p.fail(fmt.Sprintf("vertex %d", i))
		}
		var v Vertex
		v.Pos.X, v.Pos.Y, v.Pos.Z = rec[0], rec[1], rec[2]
		v.UV.X, v.UV.Y = rec[3], rec[4]
		m.Vertices = append(m.Vertices, v)
	}

	ni := p.readCount("index")
	if p.err != nil {
		return nil, p.fail("index count")
	}
	if ni%3 != 0 {
		return nil, fmt.Errorf("msh: index count %d is not a multiple of 3", ni)
	}
	m.Indices = make([]int32, 0, min(ni, maxPrealloc))
	for i := 0; i < ni; i++ {
		var idx int32
		p.read(&idx)
		if p.err != nil {
			return nil, p.fail(fmt.Sprintf("index %d", i))
		}
		m.Indices = append(m.Indices, idx)
	}
	return m, nil
}
