// Package uvlayout draws the UV layout of a triangle mesh, for painting textures over.
package uvlayout

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/binzume/mshexport/msh"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/vector"
)

const DefaultSize = 1024

var (
	FillColor = color.RGBA{R: 0x20, G: 0x40, B: 0x80, A: 0x80}
	EdgeColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	EdgeWidth = float32(1)
)

type point struct{ x, y float32 }

// UV origin is bottom-left, image origin is top-left.
func toPixel(v *msh.Vertex, size int) point {
	return point{v.UV.X * float32(size), (1 - v.UV.Y) * float32(size)}
}

// addEdge adds a EdgeWidth wide quad along a-b. All quads share one winding
// direction so overlapping edges don't cancel each other.
func addEdge(r *vector.Rasterizer, a, b point) {
	dx, dy := b.x-a.x, b.y-a.y
	l := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*EdgeWidth/2, dx/l*EdgeWidth/2
	r.MoveTo(a.x+nx, a.y+ny)
	r.LineTo(b.x+nx, b.y+ny)
	r.LineTo(b.x-nx, b.y-ny)
	r.LineTo(a.x-nx, a.y-ny)
	r.ClosePath()
}

// Render draws every triangle of m filled with FillColor and outlined with EdgeColor
// on a transparent size x size image.
func Render(m *msh.Mesh, size int) *image.RGBA {
	if size <= 0 {
		size = DefaultSize
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill := image.NewUniform(FillColor)
	r := vector.NewRasterizer(size, size)

	var edges [][2]point
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		var p [3]point
		for j, idx := range tri {
			if idx < 0 || int(idx) >= len(m.Vertices) {
				continue
			}
			p[j] = toPixel(&m.Vertices[idx], size)
		}
		r.Reset(size, size)
		r.MoveTo(p[0].x, p[0].y)
		r.LineTo(p[1].x, p[1].y)
		r.LineTo(p[2].x, p[2].y)
		r.ClosePath()
		r.Draw(img, img.Bounds(), fill, image.Point{})
		edges = append(edges, [2]point{p[0], p[1]}, [2]point{p[1], p[2]}, [2]point{p[2], p[0]})
	}

	r.Reset(size, size)
	for _, e := range edges {
		addEdge(r, e[0], e[1])
	}
	r.Draw(img, img.Bounds(), image.NewUniform(EdgeColor), image.Point{})
	return img
}

var encoders = map[string]func(w io.Writer, img image.Image) error{
	".png": png.Encode,
	".tga": tga.Encode,
	".webp": func(w io.Writer, img image.Image) error {
		return nativewebp.Encode(w, img, nil)
	},
}

// Encode writes img in the format named by ext (".png", ".tga" or ".webp").
func Encode(w io.Writer, img image.Image, ext string) error {
	enc, ok := encoders[strings.ToLower(ext)]
	if !ok {
		return fmt.Errorf("Unsupported image type: %v", ext)
	}
	return enc(w, img)
}

// Save encodes by extension into a temporary file and renames it into place.
func Save(img image.Image, path string) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := encoders[ext]; !ok {
		return fmt.Errorf("Unsupported image type: %v", ext)
	}
	w, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			w.Close()
			os.Remove(w.Name())
		}
	}()
	if err = w.Chmod(0644); err != nil {
		return err
	}
	if err = Encode(w, img, ext); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	return os.Rename(w.Name(), path)
}
