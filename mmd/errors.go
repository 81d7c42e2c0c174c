package mmd

import "fmt"

// element counts above this are treated as corrupt input
const maxCount = 1 << 24

type CountError struct {
	Count int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("mmd: bad element count %d", e.Count)
}

type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("mmd: unsupported format %q", e.Format)
}
