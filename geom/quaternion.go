package geom

import "math"

type Quaternion struct {
	X Element
	Y Element
	Z Element
	W Element
}

func NewQuaternion(x, y, z, w Element) *Quaternion {
	return &Quaternion{X: x, Y: y, Z: z, W: w}
}

func NewQuaternionFromArray(arr [4]Element) *Quaternion {
	return &Quaternion{X: arr[0], Y: arr[1], Z: arr[2], W: arr[3]}
}

func (q *Quaternion) Len() Element {
	return Element(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
}

func (q *Quaternion) Normalize() *Quaternion {
	l := q.Len()
	if l > 0 {
		q.X /= l
		q.Y /= l
		q.Z /= l
		q.W /= l
	} else {
		q.W = 1
	}
	return q
}
