package vector

import (
	"encoding/json"
	"fmt"
)

// Parse builds a vector from loosely typed input such as a decoded JSON array.
// Nested input fails with *ShapeError, input of the wrong length with
// *SizeError and non-numeric elements with *TypeError.
func Parse(v any) (Vec3, error) {
	switch x := v.(type) {
	case Vec3:
		return x, nil
	case *Vec3:
		if x == nil {
			return Vec3{}, &TypeError{Operand: v}
		}
		return *x, nil
	case [3]float64:
		return Vec3{X: x[0], Y: x[1], Z: x[2]}, nil
	case []float64:
		return FromSlice(x)
	case []int:
		out := make([]float64, len(x))
		for i, n := range x {
			out[i] = float64(n)
		}
		return FromSlice(out)
	case [][]float64:
		return Vec3{}, &ShapeError{Dims: 2}
	case []any:
		if d := dims(x); d > 1 {
			return Vec3{}, &ShapeError{Dims: d}
		}
		if len(x) != 3 {
			return Vec3{}, &SizeError{Size: len(x)}
		}
		var out [3]float64
		for i, e := range x {
			f, ok := scalar(e)
			if !ok {
				return Vec3{}, &TypeError{Operand: e}
			}
			out[i] = f
		}
		return Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
	}
	return Vec3{}, &TypeError{Operand: v}
}

func dims(v any) int {
	switch x := v.(type) {
	case []any:
		d := 0
		for _, e := range x {
			if n := dims(e); n > d {
				d = n
			}
		}
		return d + 1
	case []float64, []int:
		return 1
	}
	return 0
}

// scalar accepts integer and floating point numbers only; bool is rejected.
func scalar(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

var opNames = [...]string{"add", "subtract", "multiply", "divide"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// ParseOp maps an operation name to its Op.
func ParseOp(name string) (Op, error) {
	for i, n := range opNames {
		if n == name {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("unknown vector operation %q", name)
}

// Apply performs op with either another vector (elementwise) or a numeric
// scalar (broadcast). Any other operand is a *TypeError.
func (v Vec3) Apply(op Op, arg any) (Vec3, error) {
	if op < OpAdd || op > OpDiv {
		return Vec3{}, fmt.Errorf("unknown vector operation %v", op)
	}
	var o Vec3
	switch x := arg.(type) {
	case Vec3:
		o = x
	case *Vec3:
		if x == nil {
			return Vec3{}, &TypeError{Operand: arg}
		}
		o = *x
	default:
		k, ok := scalar(arg)
		if !ok {
			return Vec3{}, &TypeError{Operand: arg}
		}
		o = Vec3{X: k, Y: k, Z: k}
	}
	switch op {
	case OpAdd:
		return v.Add(o), nil
	case OpSub:
		return v.Sub(o), nil
	case OpMul:
		return v.Mul(o), nil
	default:
		return v.Div(o), nil
	}
}
