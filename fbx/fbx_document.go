package fbx

import (
	"strings"

	"github.com/binzume/mshexport/geom"
)

type Document struct {
	Creator        string
	GlobalSettings *Obj
	Objects        map[int64]Object
	Scene          *Model

	RawNode *Node
}

// UpAxis returns 0, 1 or 2 for X, Y or Z. Defaults to Y.
func (doc *Document) UpAxis() int {
	return doc.GlobalSettings.GetProperty("UpAxis").Get(0).ToInt(1)
}

// Property is an entry of a Properties70 block.
type Property struct {
	AttributeList
	Type  string
	Label string
	Flag  string
}

func (p *Property) ToVector3(x, y, z float32) *geom.Vector3 {
	return &geom.Vector3{X: p.Get(0).ToFloat32(x), Y: p.Get(1).ToFloat32(y), Z: p.Get(2).ToFloat32(z)}
}

type Connection struct {
	Type string
	From int64
	To   int64
}

type Object interface {
	NodeName() string
	ID() int64
	Name() string
	Kind() string
	GetProperty(name string) *Property
	FindRefs(typ string) []Object
	AddRef(o Object)
}

type Obj struct {
	*Node
	Template   *Obj
	Refs       []Object
	properties map[string]*Property // lazy
}

func (o *Obj) NodeName() string {
	if o.Node == nil {
		return ""
	}
	return o.Node.Name
}

func (o *Obj) ID() int64 {
	return o.Attr(0).ToInt64(0)
}

// Name strips the class from "Cube\x00\x01Model" (binary) or "Model::Cube" (ASCII).
func (o *Obj) Name() string {
	s := o.Attr(1).ToString()
	if i := strings.Index(s, "\x00\x01"); i >= 0 {
		return s[:i]
	}
	if i := strings.Index(s, "::"); i >= 0 {
		return s[i+2:]
	}
	return s
}

func (o *Obj) Kind() string {
	return o.Attr(2).ToString()
}

func (o *Obj) GetProperty(name string) *Property {
	if o == nil {
		return &Property{}
	}
	if o.properties == nil {
		o.properties = map[string]*Property{}
		for _, node := range o.FindChild("Properties70").GetChildren() {
			if len(node.Attributes) < 4 {
				continue
			}
			o.properties[node.Attr(0).ToString()] = &Property{
				AttributeList: node.Attributes[4:],
				Type:          node.Attr(1).ToString(),
				Label:         node.Attr(2).ToString(),
				Flag:          node.Attr(3).ToString()}
		}
	}
	if p, ok := o.properties[name]; ok {
		return p
	} else if o.Template != nil {
		return o.Template.GetProperty(name)
	}
	return &Property{}
}

func (o *Obj) FindRefs(typ string) []Object {
	var refs []Object
	for _, o := range o.Refs {
		if o.NodeName() == typ {
			refs = append(refs, o)
		}
	}
	return refs
}

func (o *Obj) AddRef(ref Object) {
	o.Refs = append(o.Refs, ref)
}

func parseConnection(node *Node) *Connection {
	return &Connection{
		Type: node.Attr(0).ToString(),
		From: node.Attr(1).ToInt64(0),
		To:   node.Attr(2).ToInt64(0),
	}
}

// BuildDocument resolves objects and their connections. Objects of unknown
// classes are kept as *Obj so connections through them still resolve.
func BuildDocument(root *Node) (*Document, error) {
	doc := &Document{RawNode: root, Scene: &Model{Obj: Obj{Node: &Node{Name: "Model"}}}}
	doc.Objects = map[int64]Object{0: doc.Scene}
	doc.Creator = root.FindChild("Creator").GetString()
	if doc.Creator == "" {
		doc.Creator = root.FindChild("FBXHeaderExtension").FindChild("Creator").GetString()
	}

	templates := map[string]*Obj{}
	for _, node := range root.FindChild("Definitions").FindChildren("ObjectType") {
		if t := node.FindChild("PropertyTemplate"); t != nil {
			templates[node.GetString()] = &Obj{Node: t}
		}
	}
	doc.GlobalSettings = &Obj{Node: root.FindChild("GlobalSettings"), Template: templates["GlobalSettings"]}

	for _, node := range root.FindChild("Objects").GetChildren() {
		base := Obj{Node: node, Template: templates[node.Name]}
		var obj Object
		switch node.Name {
		case "Geometry":
			obj = newGeometry(base)
		case "Model":
			obj = &Model{Obj: base}
		default:
			obj = &base
		}
		doc.Objects[obj.ID()] = obj
	}

	for _, node := range root.FindChild("Connections").FindChildren("C") {
		c := parseConnection(node)
		if c.Type != "OO" && c.Type != "OP" {
			continue
		}
		from, to := doc.Objects[c.From], doc.Objects[c.To]
		if from == nil || to == nil || from == to {
			continue
		}
		to.AddRef(from)
	}

	return doc, nil
}
