package vector

import "fmt"

// ShapeError reports input with more than one dimension.
type ShapeError struct {
	Dims int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("Vec3 must contain exactly 1 dimension, %d were given", e.Dims)
}

// SizeError reports input that does not hold exactly three components.
type SizeError struct {
	Size int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("Vec3 must contain exactly 3 components, %d were given", e.Size)
}

// TypeError reports an operand or element of an unsupported type.
type TypeError struct {
	Operand any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("unsupported operand type %T", e.Operand)
}

// IndexError reports a component index outside 0..2.
type IndexError struct {
	Index int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("component index %d out of range [0,2]", e.Index)
}
