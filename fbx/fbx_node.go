package fbx

import (
	"github.com/binzume/mshexport/geom"
)

type Node struct {
	Name       string
	Attributes AttributeList
	Children   []*Node
}

func (n *Node) FindChild(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) FindChildren(name string) []*Node {
	var r []*Node
	for _, c := range n.GetChildren() {
		if c.Name == name {
			r = append(r, c)
		}
	}
	return r
}

func (n *Node) GetChildren() []*Node {
	if n == nil {
		return nil
	}
	return n.Children
}

func (n *Node) Attr(i int) *Attribute {
	if n == nil {
		return nil
	}
	return n.Attributes.Get(i)
}

func (n *Node) GetString() string {
	return n.Attr(0).ToString()
}

func (n *Node) GetInt32Array() []int32 {
	return n.Attr(0).ToInt32Array()
}

func (n *Node) GetVec3Array() []*geom.Vector3 {
	return n.Attr(0).ToVec3Array()
}

func (n *Node) GetVec2Array() []*geom.Vector2 {
	return n.Attr(0).ToVec2Array()
}

type Attribute struct {
	Value     interface{}
	ArraySize uint
}

type AttributeList []*Attribute

func (l AttributeList) Get(i int) *Attribute {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

func (a *Attribute) ToInt(defvalue int) int {
	return int(a.ToInt64(int64(defvalue)))
}

func (a *Attribute) ToInt64(defvalue int64) int64 {
	if a == nil {
		return defvalue
	}
	switch v := a.Value.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case byte:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	}
	return defvalue
}

func (a *Attribute) ToFloat32(defvalue float32) float32 {
	if a == nil {
		return defvalue
	}
	switch v := a.Value.(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int16:
		return float32(v)
	case int32:
		return float32(v)
	case int64:
		return float32(v)
	}
	return defvalue
}

func (a *Attribute) ToString() string {
	if a == nil {
		return ""
	}
	if v, ok := a.Value.(string); ok {
		return v
	} else if v, ok := a.Value.([]byte); ok {
		return string(v)
	}
	return ""
}

func (a *Attribute) ToInt32Array() []int32 {
	if a == nil {
		return nil
	}
	switch vv := a.Value.(type) {
	case []int32:
		return vv
	case []int64:
		r := make([]int32, len(vv))
		for i, v := range vv {
			r[i] = int32(v)
		}
		return r
	case []byte:
		r := make([]int32, len(vv))
		for i, v := range vv {
			r[i] = int32(v)
		}
		return r
	}
	return nil
}

// ToFloat64Array accepts any numeric array. ASCII arrays without a decimal
// point are parsed as integers.
func (a *Attribute) ToFloat64Array() []float64 {
	if a == nil {
		return nil
	}
	switch vv := a.Value.(type) {
	case []float64:
		return vv
	case []float32:
		r := make([]float64, len(vv))
		for i, v := range vv {
			r[i] = float64(v)
		}
		return r
	case []int32:
		r := make([]float64, len(vv))
		for i, v := range vv {
			r[i] = float64(v)
		}
		return r
	case []int64:
		r := make([]float64, len(vv))
		for i, v := range vv {
			r[i] = float64(v)
		}
		return r
	}
	return nil
}

func (a *Attribute) ToVec3Array() []*geom.Vector3 {
	v := a.ToFloat64Array()
	vv := make([]*geom.Vector3, 0, len(v)/3)
	for i := 0; i+2 < len(v); i += 3 {
		vv = append(vv, &geom.Vector3{X: float32(v[i]), Y: float32(v[i+1]), Z: float32(v[i+2])})
	}
	return vv
}

func (a *Attribute) ToVec2Array() []*geom.Vector2 {
	v := a.ToFloat64Array()
	vv := make([]*geom.Vector2, 0, len(v)/2)
	for i := 0; i+1 < len(v); i += 2 {
		vv = append(vv, &geom.Vector2{X: float32(v[i]), Y: float32(v[i+1])})
	}
	return vv
}
