package mqo

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"text/scanner"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const (
	maxCount     = 1 << 24
	maxFaceVerts = 1 << 16
)

// CountError reports a negative or oversized element count.
type CountError struct {
	Pos   scanner.Position
	Count int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("%v: bad element count %d", e.Pos, e.Count)
}

// Parser for mqo file.
type Parser struct {
	name string
	r    io.Reader
	s    scanner.Scanner
	err  error
}

// NewParser returns new parser. path is used for error positions only.
func NewParser(r io.Reader, path string) *Parser {
	p := &Parser{
		name: path,
		r:    r,
	}
	p.s.Filename = path
	return p
}

func (p *Parser) readFloat() float32 {
	tok := p.s.Scan()
	var s float32 = 1
	if p.s.TokenText() == "-" {
		tok = p.s.Scan()
		s = -1
	}
	if tok != scanner.Int && tok != scanner.Float {
		return 0
	}
	n, _ := strconv.ParseFloat(p.s.TokenText(), 32)
	return float32(n) * s
}

func (p *Parser) readInt() int {
	tok := p.s.Scan()
	s := 1
	if p.s.TokenText() == "-" {
		tok = p.s.Scan()
		s = -1
	}
	if tok != scanner.Int {
		log.Printf("  Invalid num  %s (%v)\n", p.s.TokenText(), p.s.Pos())
		return 0
	}
	n, _ := strconv.Atoi(p.s.TokenText())
	return n * s
}

func (p *Parser) readStr() string {
	p.s.Scan()
	return strings.Trim(p.s.TokenText(), "\"")
}

func (p *Parser) skipN(n int) {
	for i := 0; i < n; i++ {
		p.s.Scan()
	}
}

func (p *Parser) skip(t string) {
	p.s.Scan()
	if p.s.TokenText() != t {
		log.Printf("  Invalid token  %s != %s (%v)\n", p.s.TokenText(), t, p.s.Pos())
	}
}

func (p *Parser) procAttrs(handlers map[string]func(), name string) {
	line := p.s.Pos().Line
	for tok := p.s.Scan(); line == p.s.Pos().Line && tok != scanner.EOF; tok = p.s.Scan() {
		if handler, ok := handlers[p.s.TokenText()]; ok {
			p.skip("(")
			handler()
			p.skip(")")
		} else {
			log.Printf("  skip %s %s\n", name, p.s.TokenText())
			p.skip("(")
			for tok := p.s.Scan(); line == p.s.Pos().Line && tok != scanner.EOF; tok = p.s.Scan() {
				if p.s.TokenText() == ")" {
					break
				}
			}
		}
		for p.s.Peek() == ' ' || p.s.Peek() == '\t' {
			p.s.Next()
		}
		if p.s.Peek() == 0x0d || p.s.Peek() == 0x0a {
			break
		}
	}
}

func (p *Parser) skipBlock() {
	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		if p.s.TokenText() == "}" {
			return
		}
		if p.s.TokenText() == "{" {
			p.skipBlock()
		}
	}
}

// skipChunk skips "Name [args] { ... }".
func (p *Parser) skipChunk() {
	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		if p.s.TokenText() == "{" {
			p.skipBlock()
			return
		}
	}
}

// checkCount records the first bad count. Invalid counts read as 0.
func (p *Parser) checkCount(n, limit int) int {
	if n >= 0 && n <= limit {
		return n
	}
	if p.err == nil {
		p.err = &CountError{Pos: p.s.Pos(), Count: n}
	}
	return 0
}

func (p *Parser) procArray(init, elem func(n int)) {
	n := p.readInt()
	valid := n >= 0 && n <= maxCount
	n = p.checkCount(n, maxCount)
	p.skip("{")
	init(n)
	if !valid {
		p.skipBlock()
		return
	}
	for i := 0; i < n; i++ {
		elem(i)
	}
	p.skip("}")
}

func (p *Parser) procObj(handlers map[string]func()) {
	p.skip("{")
	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		if p.s.TokenText() == "}" {
			break
		}
		if p.s.TokenText() == "{" {
			p.skipBlock()
		}
		if handler, ok := handlers[p.s.TokenText()]; ok {
			handler()
		}
	}
}

func (p *Parser) readFace(o *Object, i int) *Face {
	var f Face
	vn := p.checkCount(p.readInt(), maxFaceVerts)
	p.procAttrs(map[string]func(){
		"V": func() {
			f.Verts = make([]int, vn)
			for i := 0; i < vn; i++ {
				f.Verts[i] = p.readInt()
			}
		},
		"M": func() { f.Material = p.readInt() },
		"UV": func() {
			f.UVs = make([]Vector2, vn)
			for i := 0; i < vn; i++ {
				f.UVs[i] = Vector2{X: p.readFloat(), Y: p.readFloat()}
			}
		},
		"COL": func() { p.skipN(vn) },
		"CRS": func() {
			for i := 0; i < vn; i++ {
				p.readFloat()
			}
		},
		"UID": func() { f.UID = p.readInt() },
	}, fmt.Sprintf("Object %v F%v", o.Name, i))
	return &f
}

func (p *Parser) readObject() *Object {
	o := NewObject(p.readStr())

	p.procObj(map[string]func(){
		"uid":     func() { o.UID = p.readInt() },
		"depth":   func() { o.Depth = p.readInt() },
		"visible": func() { o.Visible = p.readInt() > 0 },
		"locking": func() { o.Locked = p.readInt() > 0 },
		"vertex": func() {
			p.procArray(func(n int) {
				o.Vertexes = make([]*Vector3, n)
			}, func(i int) {
				o.Vertexes[i] = &Vector3{X: p.readFloat(), Y: p.readFloat(), Z: p.readFloat()}
			})
		},
		"face": func() {
			p.procArray(func(n int) {
				o.Faces = make([]*Face, n)
			}, func(i int) {
				o.Faces[i] = p.readFace(o, i)
			})
		},
	})
	return o
}

func (p *Parser) detectCodePage() {
	buf := make([]byte, 128)
	n, _ := io.ReadFull(p.r, buf)
	p.r = io.MultiReader(bytes.NewReader(buf[:n]), p.r)
	if matched, _ := regexp.Match(`CodePage\s+utf8`, buf[:n]); !matched {
		p.r = transform.NewReader(p.r, japanese.ShiftJIS.NewDecoder())
	}
}

func (p *Parser) Parse() (*Document, error) {
	p.detectCodePage()
	p.s.Init(p.r)
	p.s.Filename = p.name
	p.s.Error = func(s *scanner.Scanner, msg string) {
		log.Printf("  %v: %s\n", s.Pos(), msg)
	}

	doc := NewDocument()
	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		if tok != scanner.Ident {
			continue
		}
		switch p.s.TokenText() {
		case "Object":
			doc.Objects = append(doc.Objects, p.readObject())
		case "Scene", "Material", "MaterialEx2", "BackImage":
			p.skipChunk()
		case "Thumbnail":
			p.skipN(5)
			p.skip("{")
			p.skipBlock()
		case "IncludeXml":
			p.readStr()
		case "Eof":
			return p.result(doc)
		}
	}
	return p.result(doc)
}

func (p *Parser) result(doc *Document) (*Document, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.s.ErrorCount > 0 {
		return doc, fmt.Errorf("Parse error (count:%d)", p.s.ErrorCount)
	}
	return doc, nil
}

func LoadMQOZ(path string) (*Document, error) {
	z, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer z.Close()
	for _, f := range z.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".mqo") {
			r, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer r.Close()
			return NewParser(r, path+"/"+f.Name).Parse()
		}
	}
	return nil, fmt.Errorf("%s: no .mqo in archive: %w", path, os.ErrNotExist)
}

func Load(path string) (*Document, error) {
	if strings.HasSuffix(strings.ToLower(path), ".mqoz") {
		return LoadMQOZ(path)
	}
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return NewParser(r, path).Parse()
}
