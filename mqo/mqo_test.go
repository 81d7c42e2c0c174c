package mqo

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
)

const testDocument = `Metasequoia Document
Format Text Ver 1.1
CodePage utf8

Scene {
	pos 0.0000 0.0000 1500.0000
	dirlights 1 {
		light {
			dir 0.408 0.408 0.816
		}
	}
}
Material 1 {
	"mat1" col(1.000 1.000 1.000 1.000) dif(0.800) amb(0.600) emi(0.000) spc(0.000) power(5.00) tex("tex.png")
}
Object "Cube" {
	depth 0
	visible 15
	locking 0
	shading 1
	facet 59.5
	vertex 4 {
		0.0000 0.0000 0.0000
		1.0000 0.0000 0.0000
		1.0000 1.0000 0.0000
		0.0000 -1.5000 0.0000
	}
	face 2 {
		3 V(0 1 2) M(0) UV(0.00000 1.00000 1.00000 1.00000 1.00000 0.00000)
		4 V(0 1 2 3) COL(4294967295 4294967295 4294967295 4294967295) UID(7)
	}
}
Object "Child" {
	depth 1
	visible 0
	vertex 0 {
	}
	face 0 {
	}
}
Eof
`

func checkTestDocument(t *testing.T, doc *Document) {
	t.Helper()
	if len(doc.Objects) != 2 {
		t.Fatal("objects: ", len(doc.Objects))
	}
	cube := doc.GetObject("Cube")
	if cube == nil {
		t.Fatal("Cube not found")
	}
	if len(cube.Vertexes) != 4 || *cube.Vertexes[3] != (Vector3{X: 0, Y: -1.5, Z: 0}) {
		t.Error("vertexes: ", cube.Vertexes)
	}
	if len(cube.Faces) != 2 {
		t.Fatal("faces: ", len(cube.Faces))
	}
	if f := cube.Faces[0]; len(f.Verts) != 3 || len(f.UVs) != 3 || f.UVs[2] != (Vector2{X: 1, Y: 0}) {
		t.Error("face 0: ", f)
	}
	if f := cube.Faces[1]; len(f.Verts) != 4 || f.Verts[3] != 3 || len(f.UVs) != 0 || f.UID != 7 {
		t.Error("face 1: ", f)
	}
	child := doc.GetObject("Child")
	if child == nil || child.Depth != 1 || child.Visible {
		t.Error("child: ", child)
	}
}

func TestParse(t *testing.T) {
	doc, err := NewParser(strings.NewReader(testDocument), "test.mqo").Parse()
	if err != nil {
		t.Fatal(err)
	}
	checkTestDocument(t, doc)
}

func TestParseBadCounts(t *testing.T) {
	sources := []string{
		"Metasequoia Document\nObject \"Cube\" {\n\tvertex -1 {\n\t}\n}\nEof\n",
		"Metasequoia Document\nObject \"Cube\" {\n\tvertex 99999999999 {\n\t}\n}\nEof\n",
		"Metasequoia Document\nObject \"Cube\" {\n\tface 1 {\n\t\t-3 V(0 1 2)\n\t}\n}\nEof\n",
	}
	for _, src := range sources {
		_, err := NewParser(strings.NewReader(src), "bad.mqo").Parse()
		var ce *CountError
		if !errors.As(err, &ce) {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestParseShiftJIS(t *testing.T) {
	src := strings.Replace(testDocument, "CodePage utf8", "", 1)
	src = strings.Replace(src, `"Cube"`, `"立方体"`, 1)
	sjis, err := japanese.ShiftJIS.NewEncoder().String(src)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := NewParser(strings.NewReader(sjis), "sjis.mqo").Parse()
	if err != nil {
		t.Fatal(err)
	}
	if doc.GetObject("立方体") == nil {
		t.Error("Shift-JIS name not decoded: ", doc.Objects[0].Name)
	}
}

func TestWriteAndParse(t *testing.T) {
	doc, _ := NewParser(strings.NewReader(testDocument), "test.mqo").Parse()

	var buf bytes.Buffer
	if err := WriteMQO(doc, &buf); err != nil {
		t.Fatal(err)
	}
	doc2, err := NewParser(&buf, "").Parse()
	if err != nil {
		t.Fatal(err)
	}
	checkTestDocument(t, doc2)
}

func TestLoadMQOZ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.mqoz")

	var buf bytes.Buffer
	z := zip.NewWriter(&buf)
	w, _ := z.Create("model/test.mqo")
	w.Write([]byte(testDocument))
	z.Close()
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	checkTestDocument(t, doc)

	empty := filepath.Join(dir, "empty.mqoz")
	buf.Reset()
	zip.NewWriter(&buf).Close()
	os.WriteFile(empty, buf.Bytes(), 0644)
	if _, err := Load(empty); !errors.Is(err, os.ErrNotExist) {
		t.Error("expected not exist: ", err)
	}
}
