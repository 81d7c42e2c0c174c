package geom

type Vector2 struct {
	X Element
	Y Element
}

// FlipV converts between top-left and bottom-left texture origins.
func (v Vector2) FlipV() Vector2 {
	return Vector2{X: v.X, Y: 1 - v.Y}
}
