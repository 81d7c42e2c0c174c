package geom

// RotationOrder names the axis applied first. Values follow FBX's RotationOrder enum.
type RotationOrder int

const (
	RotationOrderXYZ RotationOrder = iota
	RotationOrderXZY
	RotationOrderYZX
	RotationOrderYXZ
	RotationOrderZXY
	RotationOrderZYX
)

// NewEulerRotationMatrix4 returns the rotation for Euler angles in radians.
// RotationOrderXYZ rotates about X first, i.e. Rz * Ry * Rx.
func NewEulerRotationMatrix4(x, y, z float64, order RotationOrder) *Matrix4 {
	rx, ry, rz := NewRotationXMatrix4(x), NewRotationYMatrix4(y), NewRotationZMatrix4(z)
	switch order {
	case RotationOrderXZY:
		return ry.Mul(rz).Mul(rx)
	case RotationOrderYZX:
		return rx.Mul(rz).Mul(ry)
	case RotationOrderYXZ:
		return rz.Mul(rx).Mul(ry)
	case RotationOrderZXY:
		return ry.Mul(rx).Mul(rz)
	case RotationOrderZYX:
		return rx.Mul(ry).Mul(rz)
	}
	return rz.Mul(ry).Mul(rx)
}
