package msh

import (
	"bufio"
	"encoding/binary"
	"io"
)

type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) write(v interface{}) {
	if w.err == nil {
		w.err = binary.Write(w.w, binary.LittleEndian, v)
	}
}

func (w *Writer) writeInt(v int) {
	w.write(int32(v))
}

func (w *Writer) writeVertex(v *Vertex) {
	w.write([5]float32{v.Pos.X, v.Pos.Y, v.Pos.Z, v.UV.X, v.UV.Y})
}

func (w *Writer) Write(m *Mesh) error {
	w.writeInt(len(m.Vertices))
	for i := range m.Vertices {
		w.writeVertex(&m.Vertices[i])
	}

	w.writeInt(len(m.Indices))
	w.write(m.Indices)

	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}
