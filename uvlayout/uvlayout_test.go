package uvlayout

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/binzume/mshexport/geom"
	"github.com/binzume/mshexport/msh"
)

// lower-left half of the UV square
func newTriangleMesh() *msh.Mesh {
	return &msh.Mesh{
		Vertices: []msh.Vertex{
			{UV: geom.Vector2{X: 0, Y: 0}},
			{UV: geom.Vector2{X: 1, Y: 0}},
			{UV: geom.Vector2{X: 0, Y: 1}},
		},
		Indices: []int32{2, 1, 0},
	}
}

func TestRender(t *testing.T) {
	img := Render(newTriangleMesh(), 64)
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatal("size: ", img.Bounds())
	}

	// u=0.15, v=0.15 is inside
	if _, _, _, a := img.At(10, 54).RGBA(); a == 0 {
		t.Error("inside pixel not drawn")
	}
	// u=0.9, v=0.9 is outside
	if _, _, _, a := img.At(58, 6).RGBA(); a != 0 {
		t.Error("outside pixel drawn")
	}
	// hypotenuse
	if c := img.RGBAAt(32, 32); c.A < 0x80 {
		t.Error("edge not drawn: ", c)
	}

	if Render(&msh.Mesh{}, 0).Bounds().Dx() != DefaultSize {
		t.Error("default size")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	img := Render(newTriangleMesh(), 32)

	for _, name := range []string{"uv.png", "uv.tga", "uv.webp", "UV.PNG"} {
		path := filepath.Join(dir, name)
		if err := Save(img, path); err != nil {
			t.Error(name, err)
			continue
		}
		if st, err := os.Stat(path); err != nil || st.Size() == 0 {
			t.Error(name, " not written")
		}
	}

	f, err := os.Open(filepath.Join(dir, "uv.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil || decoded.Bounds() != img.Bounds() {
		t.Error("png: ", err)
	}

	if err := Save(img, filepath.Join(dir, "uv.bmp")); err == nil {
		t.Error("bmp should be unsupported")
	}
	if _, err := os.Stat(filepath.Join(dir, "uv.bmp")); !os.IsNotExist(err) {
		t.Error("unsupported type should not create a file")
	}
}

func TestSaveFailureKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uv.png")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	// png rejects empty images
	if err := Save(image.NewRGBA(image.Rect(0, 0, 0, 0)), path); err == nil {
		t.Fatal("empty image should fail")
	}
	if b, _ := os.ReadFile(path); string(b) != "old" {
		t.Error("target overwritten: ", string(b))
	}
	if files, _ := os.ReadDir(dir); len(files) != 1 {
		t.Error("temporary file left: ", len(files))
	}
}
