package fbx

import (
	"math"

	"github.com/binzume/mshexport/geom"
)

type Model struct {
	Obj
}

func (m *Model) GetTranslation() *geom.Vector3 {
	return m.GetProperty("Lcl Translation").ToVector3(0, 0, 0)
}

// GetRotation returns Euler angles in degrees.
func (m *Model) GetRotation() *geom.Vector3 {
	return m.GetProperty("Lcl Rotation").ToVector3(0, 0, 0)
}

func (m *Model) GetScaling() *geom.Vector3 {
	return m.GetProperty("Lcl Scaling").ToVector3(1, 1, 1)
}

func (m *Model) GetRotationOrder() geom.RotationOrder {
	return geom.RotationOrder(m.GetProperty("RotationOrder").Get(0).ToInt(0))
}

func eulerMatrix(deg *geom.Vector3, order geom.RotationOrder) *geom.Matrix4 {
	return geom.NewEulerRotationMatrix4(
		float64(deg.X)*math.Pi/180, float64(deg.Y)*math.Pi/180, float64(deg.Z)*math.Pi/180, order)
}

// GetMatrix returns T * Rpre * R * Rpost^-1 * S. Pivots and offsets are ignored.
func (m *Model) GetMatrix() *geom.Matrix4 {
	t := m.GetTranslation()
	s := m.GetScaling()
	pre := eulerMatrix(m.GetProperty("PreRotation").ToVector3(0, 0, 0), geom.RotationOrderXYZ)
	rot := eulerMatrix(m.GetRotation(), m.GetRotationOrder())
	post := m.GetProperty("PostRotation").ToVector3(0, 0, 0)
	// inverse of an XYZ rotation is ZYX with negated angles
	postInv := eulerMatrix(post.Scale(-1), geom.RotationOrderZYX)
	return geom.NewTranslateMatrix4(t.X, t.Y, t.Z).
		Mul(pre).Mul(rot).Mul(postInv).
		Mul(geom.NewScaleMatrix4(s.X, s.Y, s.Z))
}

func (m *Model) GetChildModels() []*Model {
	var r []*Model
	for _, o := range m.Refs {
		if c, ok := o.(*Model); ok {
			r = append(r, c)
		}
	}
	return r
}

func (m *Model) GetGeometry() *Geometry {
	for _, o := range m.Refs {
		if g, ok := o.(*Geometry); ok {
			return g
		}
	}
	return nil
}
