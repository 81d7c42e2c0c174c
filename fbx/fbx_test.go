package fbx

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/binzume/mshexport/geom"
)

const testDocument = `; FBX 7.4.0 project file
FBXHeaderExtension:  {
	FBXHeaderVersion: 1003
	FBXVersion: 7400
	Creator: "test"
}
GlobalSettings:  {
	Version: 1000
	Properties70:  {
		P: "UpAxis", "int", "Integer", "",1
		P: "UnitScaleFactor", "double", "Number", "",1e+00
	}
}
Definitions:  {
	ObjectType: "Model" {
		Count: 2
		PropertyTemplate: "FbxNode" {
			Properties70:  {
				P: "Visibility", "Visibility", "", "A",1
			}
		}
	}
}
Objects:  {
	Geometry: 1000, "Geometry::Quad", "Mesh" {
		Vertices: *12 {
			a: 0,0,0,1,0,0,1,1,0,0,1,0
		}
		PolygonVertexIndex: *4 {
			a: 0,1,2,-4
		}
		LayerElementUV: 0 {
			Version: 101
			Name: "UVMap"
			MappingInformationType: "ByPolygonVertex"
			ReferenceInformationType: "IndexToDirect"
			UV: *8 {
				a: 0,0,1,0,
				   1,1,0,1
			}
			UVIndex: *4 {
				a: 0,1,2,3
			}
		}
	}
	Model: 2000, "Model::Parent", "Null" {
		Version: 232
		Properties70:  {
			P: "Lcl Translation", "Lcl Translation", "", "A",0,0,2
		}
		Shading: T
	}
	Model: 3000, "Model::Quad", "Mesh" {
		Properties70:  {
			P: "Lcl Translation", "Lcl Translation", "", "A",1,0,0
			P: "Lcl Rotation", "Lcl Rotation", "", "A",0,0,90.0
		}
	}
}
Connections:  {
	;Model::Parent, Model::RootNode
	C: "OO",2000,0
	C: "OO",3000,2000
	C: "OO",1000,3000
}
`

type testNode struct {
	name     string
	attrs    []interface{}
	children []*testNode
}

func p70(name string, values ...interface{}) *testNode {
	return &testNode{name: "P", attrs: append([]interface{}{name, name, "", "A"}, values...)}
}

// same content as testDocument
var testTree = []*testNode{
	{name: "FBXHeaderExtension", children: []*testNode{{name: "Creator", attrs: []interface{}{"test"}}}},
	{name: "GlobalSettings", children: []*testNode{
		{name: "Properties70", children: []*testNode{
			{name: "P", attrs: []interface{}{"UpAxis", "int", "Integer", "", int32(1)}},
		}},
	}},
	{name: "Definitions", children: []*testNode{
		{name: "ObjectType", attrs: []interface{}{"Model"}, children: []*testNode{
			{name: "PropertyTemplate", attrs: []interface{}{"FbxNode"}, children: []*testNode{
				{name: "Properties70", children: []*testNode{p70("Visibility", float64(1))}},
			}},
		}},
	}},
	{name: "Objects", children: []*testNode{
		{name: "Geometry", attrs: []interface{}{int64(1000), "Quad\x00\x01Geometry", "Mesh"}, children: []*testNode{
			{name: "Vertices", attrs: []interface{}{[]float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}}},
			{name: "PolygonVertexIndex", attrs: []interface{}{[]int32{0, 1, 2, -4}}},
			{name: "LayerElementUV", attrs: []interface{}{int32(0)}, children: []*testNode{
				{name: "Name", attrs: []interface{}{"UVMap"}},
				{name: "MappingInformationType", attrs: []interface{}{"ByPolygonVertex"}},
				{name: "ReferenceInformationType", attrs: []interface{}{"IndexToDirect"}},
				{name: "UV", attrs: []interface{}{[]float64{0, 0, 1, 0, 1, 1, 0, 1}}},
				{name: "UVIndex", attrs: []interface{}{[]int32{0, 1, 2, 3}}},
			}},
		}},
		{name: "Model", attrs: []interface{}{int64(2000), "Parent\x00\x01Model", "Null"}, children: []*testNode{
			{name: "Properties70", children: []*testNode{p70("Lcl Translation", float64(0), float64(0), float64(2))}},
		}},
		{name: "Model", attrs: []interface{}{int64(3000), "Quad\x00\x01Model", "Mesh"}, children: []*testNode{
			{name: "Properties70", children: []*testNode{
				p70("Lcl Translation", float64(1), float64(0), float64(0)),
				p70("Lcl Rotation", float64(0), float64(0), float64(90)),
			}},
		}},
	}},
	{name: "Connections", children: []*testNode{
		{name: "C", attrs: []interface{}{"OO", int64(2000), int64(0)}},
		{name: "C", attrs: []interface{}{"OO", int64(3000), int64(2000)}},
		{name: "C", attrs: []interface{}{"OO", int64(1000), int64(3000)}},
	}},
}

func encodeArray(w *bytes.Buffer, typ byte, data interface{}, count int, compress bool) {
	var raw bytes.Buffer
	binary.Write(&raw, binary.LittleEndian, data)
	payload := raw.Bytes()
	encoding := uint32(0)
	if compress {
		var z bytes.Buffer
		zw := zlib.NewWriter(&z)
		zw.Write(payload)
		zw.Close()
		payload = z.Bytes()
		encoding = 1
	}
	w.WriteByte(typ)
	binary.Write(w, binary.LittleEndian, []uint32{uint32(count), encoding, uint32(len(payload))})
	w.Write(payload)
}

func encodeAttr(w *bytes.Buffer, v interface{}, compress bool) {
	switch v := v.(type) {
	case int32:
		w.WriteByte('I')
		binary.Write(w, binary.LittleEndian, v)
	case int64:
		w.WriteByte('L')
		binary.Write(w, binary.LittleEndian, v)
	case float64:
		w.WriteByte('D')
		binary.Write(w, binary.LittleEndian, v)
	case string:
		w.WriteByte('S')
		binary.Write(w, binary.LittleEndian, uint32(len(v)))
		w.WriteString(v)
	case []float64:
		encodeArray(w, 'd', v, len(v), compress)
	case []int32:
		encodeArray(w, 'i', v, len(v), compress)
	}
}

func encodeNode(w *bytes.Buffer, n *testNode, version uint32, compress bool) {
	header := 12
	if version >= 7500 {
		header = 24
	}
	start := w.Len()
	w.Write(make([]byte, header))
	w.WriteByte(byte(len(n.name)))
	w.WriteString(n.name)
	attrStart := w.Len()
	for _, a := range n.attrs {
		encodeAttr(w, a, compress)
	}
	attrLen := w.Len() - attrStart
	for _, c := range n.children {
		encodeNode(w, c, version, compress)
	}
	if len(n.children) > 0 {
		w.Write(make([]byte, header+1))
	}

	b := w.Bytes()[start:]
	if version >= 7500 {
		binary.LittleEndian.PutUint64(b[0:], uint64(w.Len()))
		binary.LittleEndian.PutUint64(b[8:], uint64(len(n.attrs)))
		binary.LittleEndian.PutUint64(b[16:], uint64(attrLen))
	} else {
		binary.LittleEndian.PutUint32(b[0:], uint32(w.Len()))
		binary.LittleEndian.PutUint32(b[4:], uint32(len(n.attrs)))
		binary.LittleEndian.PutUint32(b[8:], uint32(attrLen))
	}
}

func encodeBinary(version uint32, compress bool) []byte {
	var w bytes.Buffer
	w.WriteString(binaryMagic + "\x00\x1a\x00")
	binary.Write(&w, binary.LittleEndian, version)
	for _, n := range testTree {
		encodeNode(&w, n, version, compress)
	}
	if version >= 7500 {
		w.Write(make([]byte, 25))
	} else {
		w.Write(make([]byte, 13))
	}
	w.WriteString("footer")
	return w.Bytes()
}

func checkTestDocument(t *testing.T, doc *Document) {
	t.Helper()
	if doc.Creator != "test" {
		t.Error("creator: ", doc.Creator)
	}
	if doc.UpAxis() != 1 {
		t.Error("up axis: ", doc.UpAxis())
	}

	roots := doc.Scene.GetChildModels()
	if len(roots) != 1 || roots[0].Name() != "Parent" {
		t.Fatal("roots: ", roots)
	}
	parent := roots[0]
	if parent.GetProperty("Visibility").Get(0).ToFloat32(0) != 1 {
		t.Error("property from template")
	}
	children := parent.GetChildModels()
	if len(children) != 1 || children[0].Name() != "Quad" {
		t.Fatal("children: ", children)
	}

	quad := children[0]
	g := quad.GetGeometry()
	if g == nil || g.Name() != "Quad" || g.Kind() != "Mesh" {
		t.Fatal("geometry: ", g)
	}
	if len(g.Vertices) != 4 || *g.Vertices[2] != (geom.Vector3{X: 1, Y: 1, Z: 0}) {
		t.Error("vertices: ", g.Vertices)
	}
	if len(g.Polygons) != 1 || len(g.Polygons[0]) != 4 || g.Polygons[0][3] != 3 {
		t.Error("polygons: ", g.Polygons)
	}

	uvs := g.GetLayerElementUVs()
	if len(uvs) != 1 || uvs[0].GetName() != "UVMap" {
		t.Fatal("uv layers: ", len(uvs))
	}
	idx, err := uvs[0].PolygonVertexIndexes(g.Polygons)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx) != 4 || idx[3] != 3 {
		t.Error("uv indexes: ", idx)
	}
	if uv := uvs[0].Array.GetVec2Array(); len(uv) != 4 || *uv[2] != (geom.Vector2{X: 1, Y: 1}) {
		t.Error("uv: ", uv)
	}

	// rotate 90 about Z, then translate (1,0,0) and (0,0,2)
	v := parent.GetMatrix().Mul(quad.GetMatrix()).ApplyTo(geom.NewVector3(1, 1, 0))
	if v.Sub(geom.NewVector3(0, 1, 2)).Len() > 0.0001 {
		t.Error("world: ", v)
	}
}

func TestParseText(t *testing.T) {
	doc, err := Parse(strings.NewReader(testDocument))
	if err != nil {
		t.Fatal(err)
	}
	checkTestDocument(t, doc)

	if s := doc.GlobalSettings.GetProperty("UnitScaleFactor").Get(0).ToFloat32(0); s != 1 {
		t.Error("exponent: ", s)
	}
}

func TestParseBinary(t *testing.T) {
	cases := []struct {
		version  uint32
		compress bool
	}{
		{7400, false},
		{7400, true},
		{7500, true},
	}
	for _, c := range cases {
		doc, err := Parse(bytes.NewReader(encodeBinary(c.version, c.compress)))
		if err != nil {
			t.Fatal(c.version, err)
		}
		checkTestDocument(t, doc)
	}
}

func TestParseBinaryTruncated(t *testing.T) {
	data := encodeBinary(7400, false)
	_, err := Parse(bytes.NewReader(data[:len(data)/2]))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected ErrUnexpectedEOF: ", err)
	}
}

// encodeSingleNode returns a 7.4 file with one node and the offset of its
// first attribute.
func encodeSingleNode(n *testNode) ([]byte, int) {
	var w bytes.Buffer
	w.WriteString(binaryMagic + "\x00\x1a\x00")
	binary.Write(&w, binary.LittleEndian, uint32(7400))
	encodeNode(&w, n, 7400, false)
	return w.Bytes(), len(binaryMagic) + 7 + 12 + 1 + len(n.name)
}

func TestParseBinaryBadLength(t *testing.T) {
	for _, typ := range []byte{'S', 'R'} {
		data, off := encodeSingleNode(&testNode{name: "Creator", attrs: []interface{}{"test"}})
		data[off] = typ
		binary.LittleEndian.PutUint32(data[off+1:], 0xF0000000)
		if _, err := Parse(bytes.NewReader(data)); err == nil {
			t.Errorf("%c: huge length accepted", typ)
		}
	}

	data, off := encodeSingleNode(&testNode{name: "Vertices", attrs: []interface{}{[]float64{1, 2, 3}}})
	binary.LittleEndian.PutUint32(data[off+1:], 1<<20)
	if _, err := Parse(bytes.NewReader(data)); err == nil {
		t.Error("array count beyond node end accepted")
	}

	data, _ = encodeSingleNode(&testNode{name: "Creator", attrs: []interface{}{"test"}})
	doc, err := Parse(bytes.NewReader(data))
	if err != nil || doc.Creator != "test" {
		t.Error("valid node: ", err)
	}
}

func TestLayerElementMapping(t *testing.T) {
	polygons := [][]int{{0, 1, 2}, {2, 1, 3}}
	el := &LayerElement{Node: &Node{Name: "LayerElementUV", Children: []*Node{
		{Name: "MappingInformationType", Attributes: AttributeList{{Value: "ByControlPoint"}}},
		{Name: "ReferenceInformationType", Attributes: AttributeList{{Value: "Direct"}}},
	}}}
	idx, err := el.PolygonVertexIndexes(polygons)
	if err != nil {
		t.Fatal(err)
	}
	expected := []int{0, 1, 2, 2, 1, 3}
	for i := range expected {
		if idx[i] != expected[i] {
			t.Error("by control point: ", idx)
		}
	}

	el.Children[0].Attributes[0].Value = "ByPolygon"
	el.Children[1].Attributes[0].Value = "IndexToDirect"
	el.IndexNode = &Node{Attributes: AttributeList{{Value: []int32{5, 7}}}}
	idx, err = el.PolygonVertexIndexes(polygons)
	if err != nil {
		t.Fatal(err)
	}
	if idx[0] != 5 || idx[5] != 7 {
		t.Error("by polygon: ", idx)
	}

	el.IndexNode = &Node{Attributes: AttributeList{{Value: []int32{5}}}}
	if _, err := el.PolygonVertexIndexes(polygons); err == nil {
		t.Error("index range should be checked")
	}

	el.Children[0].Attributes[0].Value = "ByEdge"
	if _, err := el.PolygonVertexIndexes(polygons); err == nil {
		t.Error("unsupported mapping")
	}
}
