package fbx

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type tokenType int

const (
	Ident tokenType = iota
	Number
	String
	Operator
	BlockStart
	BlockEnd
	EOL
	EOF
)

type textParser struct {
	r   io.Reader
	buf []byte
	err error
}

func (p *textParser) errorf(f string, a ...interface{}) error {
	if p.err == nil {
		p.err = fmt.Errorf(f, a...)
	}
	return p.err
}

func (p *textParser) read() byte {
	if len(p.buf) > 0 {
		b := p.buf[0]
		p.buf = p.buf[1:]
		return b
	}
	b := []byte{0}
	if p.err == nil {
		_, err := io.ReadFull(p.r, b)
		p.err = err
	}
	return b[0]
}

func (p *textParser) unread(c byte) {
	if p.err == nil {
		p.buf = append(p.buf, c)
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_'
}

func (p *textParser) getToken() (tokenType, string) {
	for p.err == nil {
		c := p.read()
		if p.err != nil {
			break
		}
		if c == ';' {
			for p.err == nil && c != '\n' {
				c = p.read()
			}
			if c == '\n' {
				return EOL, ""
			}
		} else if c == '{' {
			return BlockStart, string(c)
		} else if c == '}' {
			return BlockEnd, string(c)
		} else if c == '*' || c == ':' || c == ',' {
			return Operator, string(c)
		} else if isDigit(c) || c == '.' || c == '-' || c == '+' {
			buf := []byte{c}
			c = p.read()
			for (isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+') && p.err == nil {
				buf = append(buf, c)
				c = p.read()
			}
			p.unread(c)
			return Number, string(buf)
		} else if c == '\n' {
			return EOL, ""
		} else if c == '"' {
			buf := []byte{}
			c = p.read()
			for c != '"' && p.err == nil {
				buf = append(buf, c)
				c = p.read()
			}
			return String, string(buf)
		} else if isLetter(c) {
			buf := []byte{}
			for (isLetter(c) || isDigit(c) || c == '-' || c == '|') && p.err == nil {
				buf = append(buf, c)
				c = p.read()
			}
			p.unread(c)
			return Ident, string(buf)
		}
	}
	return EOF, ""
}

func (p *textParser) skip(t tokenType) bool {
	typ, s := p.getToken()
	if typ != t {
		p.errorf("unexpected token %q", s)
	}
	return typ == t
}

func isFloat(s string) bool {
	return strings.ContainsAny(s, ".eE")
}

func (p *textParser) parseNumber(s string) *Attribute {
	if isFloat(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			p.errorf("failed to parse num: '%v'", s)
		}
		return &Attribute{Value: v}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.errorf("failed to parse num: '%v'", s)
	}
	return &Attribute{Value: v}
}

// parseArray reads "*N { a: v,v,... }".
func (p *textParser) parseArray() *Attribute {
	_, s := p.getToken()
	size, err := strconv.ParseInt(s, 10, 32)
	if err != nil || size < 0 || size > maxArrayLen {
		p.errorf("invalid array size: '%v'", s)
		return nil
	}
	p.skip(BlockStart)
	for p.err == nil {
		if _, s := p.getToken(); s == ":" {
			break
		}
	}
	values := make([]float64, 0, size)
	hasPoint := false
	for p.err == nil {
		typ, s := p.getToken()
		if typ == EOL || typ == Operator {
			continue
		} else if typ == BlockEnd {
			break
		} else if typ == Number {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				p.errorf("failed to parse num: '%v'", s)
			}
			values = append(values, v)
			hasPoint = hasPoint || isFloat(s)
		} else {
			p.errorf("invalid token in array: %q", s)
		}
	}
	if p.err == nil && len(values) != int(size) {
		p.errorf("array size: %v != %v", size, len(values))
	}
	if hasPoint {
		return &Attribute{Value: values, ArraySize: uint(size)}
	}
	ivalues := make([]int32, len(values))
	for i, v := range values {
		ivalues[i] = int32(v)
	}
	return &Attribute{Value: ivalues, ArraySize: uint(size)}
}

func (p *textParser) parseNodeList() []*Node {
	var nodes []*Node
	for p.err == nil {
		typ, s := p.getToken()
		if typ == EOL {
			continue
		} else if typ == EOF || typ == BlockEnd {
			break
		} else if typ != Ident {
			p.errorf("unexpected token %q", s)
			break
		}
		p.skip(Operator)
		node := &Node{Name: s}
		nodes = append(nodes, node)
		for p.err == nil {
			typ, s := p.getToken()
			if typ == EOL || typ == EOF {
				break
			} else if typ == BlockStart {
				node.Children = p.parseNodeList()
				break
			} else if typ == Number {
				node.Attributes = append(node.Attributes, p.parseNumber(s))
			} else if typ == String || typ == Ident {
				node.Attributes = append(node.Attributes, &Attribute{Value: s})
			} else if typ == Operator && s == "*" {
				node.Attributes = append(node.Attributes, p.parseArray())
			}
		}
	}
	return nodes
}

func (p *textParser) Parse() (*Node, error) {
	root := &Node{Name: "_FBX_ROOT"}
	root.Children = p.parseNodeList()
	if p.err != nil && p.err != io.EOF {
		return nil, p.err
	}
	return root, nil
}
