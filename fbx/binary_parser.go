package fbx

import (
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const maxArrayLen = 1 << 26

type positionReader struct {
	r        io.Reader
	position int64
}

func (r *positionReader) Read(p []byte) (n int, err error) {
	n, err = r.r.Read(p)
	r.position += int64(n)
	return n, err
}

func (r *positionReader) SkipTo(pos int64) error {
	offset := pos - r.position
	if offset < 0 {
		return fmt.Errorf("cannot rewind to %d from %d", pos, r.position)
	}
	_, err := io.CopyN(io.Discard, r, offset)
	return err
}

type binaryParser struct {
	r       *positionReader
	version uint32
	nodeEnd uint64 // end offset of the node whose attributes are being read
	err     error
}

func (p *binaryParser) read(v interface{}) error {
	if p.err == nil {
		p.err = binary.Read(p.r, binary.LittleEndian, v)
	}
	return p.err
}

func (p *binaryParser) readUint8() uint8 {
	var v uint8
	p.read(&v)
	return v
}

func (p *binaryParser) readInt16() int16 {
	var v int16
	p.read(&v)
	return v
}

func (p *binaryParser) readInt32() int32 {
	var v int32
	p.read(&v)
	return v
}

func (p *binaryParser) readInt64() int64 {
	var v int64
	p.read(&v)
	return v
}

func (p *binaryParser) readUint32() uint32 {
	var v uint32
	p.read(&v)
	return v
}

func (p *binaryParser) readUint64() uint64 {
	var v uint64
	p.read(&v)
	return v
}

func (p *binaryParser) readFloat() float32 {
	var v float32
	p.read(&v)
	return v
}

func (p *binaryParser) readFloat64() float64 {
	var v float64
	p.read(&v)
	return v
}

// checkSize rejects payloads larger than the rest of the current node.
func (p *binaryParser) checkSize(n uint64) bool {
	if p.err != nil {
		return false
	}
	pos := uint64(p.r.position)
	if n > maxArrayLen || pos+n > p.nodeEnd {
		p.err = fmt.Errorf("bad payload size %d at %d", n, pos)
		return false
	}
	return true
}

func (p *binaryParser) readBytes(n uint32) []byte {
	if !p.checkSize(uint64(n)) {
		return nil
	}
	buf := make([]byte, n)
	p.read(buf)
	return buf
}

func (p *binaryParser) readString(len uint) string {
	bytes := make([]byte, len)
	p.read(bytes)
	return string(bytes)
}

// node record fields are 64 bit since 7.5
func (p *binaryParser) readOffset() uint64 {
	if p.version >= 7500 {
		return p.readUint64()
	}
	return uint64(p.readUint32())
}

func (p *binaryParser) skipTo(pos int64) {
	if p.err == nil {
		p.err = p.r.SkipTo(pos)
	}
}

func (p *binaryParser) readArray(typ uint8) *Attribute {
	count := p.readUint32()
	encoding := p.readUint32()
	sz := p.readUint32()
	if p.err != nil {
		return nil
	}
	if count > maxArrayLen {
		p.err = fmt.Errorf("array too large: %d", count)
		return nil
	}
	elemSize := map[uint8]uint64{'b': 1, 'i': 4, 'l': 8, 'f': 4, 'd': 8}[typ]
	if encoding == 0 && !p.checkSize(uint64(count)*elemSize) || encoding != 0 && !p.checkSize(uint64(sz)) {
		return nil
	}
	var buf interface{}
	switch typ {
	case 'b':
		buf = make([]byte, count)
	case 'i':
		buf = make([]int32, count)
	case 'l':
		buf = make([]int64, count)
	case 'f':
		buf = make([]float32, count)
	case 'd':
		buf = make([]float64, count)
	}
	if encoding == 0 {
		p.read(buf)
	} else {
		next := p.r.position + int64(sz)
		r, err := zlib.NewReader(io.LimitReader(p.r, int64(sz)))
		if err != nil {
			p.err = err
			return nil
		}
		defer r.Close()
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			p.err = fmt.Errorf("array: %w", err)
			return nil
		}
		p.skipTo(next)
	}
	return &Attribute{Value: buf, ArraySize: uint(count)}
}

func (p *binaryParser) readAttribute() *Attribute {
	typ := p.readUint8()

	switch typ {
	case 'C':
		return &Attribute{Value: p.readUint8() != 0}
	case 'Y':
		return &Attribute{Value: p.readInt16()}
	case 'I':
		return &Attribute{Value: p.readInt32()}
	case 'L':
		return &Attribute{Value: p.readInt64()}
	case 'F':
		return &Attribute{Value: p.readFloat()}
	case 'D':
		return &Attribute{Value: p.readFloat64()}
	case 'S':
		return &Attribute{Value: string(p.readBytes(p.readUint32()))}
	case 'R':
		return &Attribute{Value: p.readBytes(p.readUint32())}
	case 'b', 'i', 'l', 'f', 'd':
		return p.readArray(typ)
	}
	if p.err == nil {
		p.err = fmt.Errorf("unknown property type: %q", typ)
	}
	return nil
}

// readNode returns nil at the null record closing a child list, or at the
// end of input. EOF anywhere else is unexpected.
func (p *binaryParser) readNode() *Node {
	end := p.readOffset()
	if p.err != nil {
		return nil
	}
	defer func() {
		if p.err == io.EOF {
			p.err = io.ErrUnexpectedEOF
		}
	}()
	nattr := p.readOffset()
	p.readOffset() // attribute list length
	name := p.readString(uint(p.readUint8()))
	if end == 0 || p.err != nil {
		return nil
	}

	n := &Node{Name: name}
	p.nodeEnd = end
	for i := uint64(0); i < nattr && p.err == nil; i++ {
		n.Attributes = append(n.Attributes, p.readAttribute())
	}
	for p.err == nil && uint64(p.r.position) < end {
		child := p.readNode()
		if child == nil {
			break
		}
		n.Children = append(n.Children, child)
	}
	p.skipTo(int64(end))
	if p.err != nil {
		return nil
	}
	return n
}

func (p *binaryParser) Parse() (*Node, error) {
	if p.readString(uint(len(binaryMagic))) != binaryMagic {
		return nil, errors.New("unknown fbx format")
	}
	p.skipTo(23)
	p.version = p.readUint32()
	root := &Node{Name: "_FBX_ROOT"}

	for p.err == nil {
		node := p.readNode()
		if node == nil {
			break
		}
		root.Children = append(root.Children, node)
	}
	if p.err != nil && p.err != io.EOF {
		return nil, p.err
	}
	return root, nil
}
