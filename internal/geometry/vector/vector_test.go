package vector

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestFromSlice_RoundTrip(t *testing.T) {
	tcs := [][]float64{
		{0, 0, 0},
		{1, 2, 3},
		{-1.5, 1e9, 7e-12},
	}
	for _, tc := range tcs {
		v, err := FromSlice(tc)
		if err != nil {
			t.Fatalf("FromSlice(%v) err=%v", tc, err)
		}
		got := v.Slice()
		for i := range tc {
			if got[i] != tc[i] {
				t.Fatalf("FromSlice(%v) components=%v", tc, got)
			}
		}
	}
}

func TestParse_Errors(t *testing.T) {
	var shapeErr *ShapeError
	var sizeErr *SizeError
	var typeErr *TypeError

	tcs := []struct {
		name string
		in   any
		want any
	}{
		{name: "short", in: []float64{1, 2}, want: &sizeErr},
		{name: "long", in: []int{1, 2, 3, 4}, want: &sizeErr},
		{name: "empty any", in: []any{}, want: &sizeErr},
		{name: "nested", in: [][]float64{{1, 2, 3}}, want: &shapeErr},
		{name: "nested any", in: []any{[]any{1.0, 2.0, 3.0}, 1.0, 2.0}, want: &shapeErr},
		{name: "string element", in: []any{1.0, "2", 3.0}, want: &typeErr},
		{name: "bool element", in: []any{1.0, true, 3.0}, want: &typeErr},
		{name: "map", in: map[string]float64{"x": 1}, want: &typeErr},
	}

	for _, tc := range tcs {
		_, err := Parse(tc.in)
		if err == nil {
			t.Fatalf("%s: Parse(%v) succeeded; want error", tc.name, tc.in)
		}
		if !errors.As(err, tc.want) {
			t.Fatalf("%s: Parse(%v) err=%T %v", tc.name, tc.in, err, err)
		}
	}
}

func TestParse_JSONArray(t *testing.T) {
	var raw any
	if err := json.Unmarshal([]byte(`[1, 2.5, -3]`), &raw); err != nil {
		t.Fatal(err)
	}
	v, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse err=%v", err)
	}
	if v != (Vec3{X: 1, Y: 2.5, Z: -3}) {
		t.Fatalf("Parse got %v", v)
	}
}

func TestArithmetic(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: -3, Y: 4, Z: 5}

	if got := a.Add(b); got != (Vec3{X: -2, Y: 6, Z: 8}) {
		t.Fatalf("Add got %v", got)
	}
	if got := a.Sub(b); got != (Vec3{X: 4, Y: -2, Z: -2}) {
		t.Fatalf("Sub got %v", got)
	}
	if got := a.Mul(b); got != (Vec3{X: -3, Y: 8, Z: 15}) {
		t.Fatalf("Mul got %v", got)
	}
	if got := a.DivScalar(2); got != (Vec3{X: 0.5, Y: 1, Z: 1.5}) {
		t.Fatalf("DivScalar got %v", got)
	}
	if got := a.AddScalar(1); got != (Vec3{X: 2, Y: 3, Z: 4}) {
		t.Fatalf("AddScalar got %v", got)
	}
	if a != (Vec3{X: 1, Y: 2, Z: 3}) || b != (Vec3{X: -3, Y: 4, Z: 5}) {
		t.Fatalf("operands mutated: a=%v b=%v", a, b)
	}
}

func TestArithmetic_Inverse(t *testing.T) {
	vs := []Vec3{
		{X: 1, Y: 2, Z: 3},
		{X: -1e3, Y: 0.1, Z: 42.42},
		{X: 1e-3, Y: -7, Z: 123456.789},
	}
	scalars := []float64{0.3, -2, 1e5, 3.14159}
	for _, a := range vs {
		for _, b := range vs {
			if got := a.Add(b).Sub(b); !got.Equal(a) {
				t.Fatalf("(%v+%v)-%v = %v", a, b, b, got)
			}
		}
		for _, s := range scalars {
			if got := a.MulScalar(s).DivScalar(s); !got.Equal(a) {
				t.Fatalf("(%v*%g)/%g = %v", a, s, s, got)
			}
		}
	}
}

func TestApply(t *testing.T) {
	a := Vec3{X: 2, Y: 4, Z: 6}

	got, err := a.Apply(OpDiv, 2)
	if err != nil || got != (Vec3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("Apply(divide, 2) = %v, %v", got, err)
	}
	got, err = a.Apply(OpSub, Vec3{X: 1, Y: 1, Z: 1})
	if err != nil || got != (Vec3{X: 1, Y: 3, Z: 5}) {
		t.Fatalf("Apply(subtract, vec) = %v, %v", got, err)
	}
	got, err = a.Apply(OpMul, json.Number("0.5"))
	if err != nil || got != (Vec3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("Apply(multiply, json.Number) = %v, %v", got, err)
	}

	var typeErr *TypeError
	for _, bad := range []any{"2", true, []float64{1, 2, 3}, nil} {
		if _, err := a.Apply(OpAdd, bad); !errors.As(err, &typeErr) {
			t.Fatalf("Apply(add, %#v) err=%v; want TypeError", bad, err)
		}
	}
}

func TestParseOp(t *testing.T) {
	for _, name := range []string{"add", "subtract", "multiply", "divide"} {
		op, err := ParseOp(name)
		if err != nil {
			t.Fatalf("ParseOp(%q) err=%v", name, err)
		}
		if op.String() != name {
			t.Fatalf("ParseOp(%q).String()=%q", name, op.String())
		}
	}
	if _, err := ParseOp("modulo"); err == nil {
		t.Fatalf("ParseOp(modulo) succeeded")
	}
}

func TestEqual_Tolerance(t *testing.T) {
	a := Vec3{X: 0.1 + 0.2, Y: 1, Z: 1000}
	b := Vec3{X: 0.3, Y: 1 + 1e-9, Z: 1000.001}
	if !a.Equal(b) {
		t.Fatalf("%v should equal %v", a, b)
	}
	if a.Equal(Vec3{X: 0.3, Y: 1.001, Z: 1000}) {
		t.Fatalf("%v should not equal a vector off by 1e-3", a)
	}
	nan := Vec3{X: math.NaN()}
	if nan.Equal(nan) {
		t.Fatalf("NaN vector must not be equal to itself")
	}
}

func TestComponents(t *testing.T) {
	v := NewVec3(1, 2, 3)
	v.SetX1(10)
	v.SetX3(30)
	if v.X1() != 10 || v.X2() != 2 || v.X3() != 30 {
		t.Fatalf("accessors got %v", v)
	}
	if err := v.SetComponent(1, 20); err != nil {
		t.Fatal(err)
	}
	if c, err := v.Component(1); err != nil || c != 20 {
		t.Fatalf("Component(1) = %v, %v", c, err)
	}

	var idxErr *IndexError
	if _, err := v.Component(3); !errors.As(err, &idxErr) {
		t.Fatalf("Component(3) err=%v", err)
	}
	if err := v.SetComponent(-1, 0); !errors.As(err, &idxErr) {
		t.Fatalf("SetComponent(-1) err=%v", err)
	}
	if v.Components() != [3]float64{10, 20, 30} {
		t.Fatalf("Components got %v", v.Components())
	}
}

func TestNormAndCross(t *testing.T) {
	v := Vec3{X: 3, Y: 4}
	if v.Norm() != 5 {
		t.Fatalf("Norm got %v", v.Norm())
	}
	if n := v.Normalize(); !n.Equal(Vec3{X: 0.6, Y: 0.8}) {
		t.Fatalf("Normalize got %v", n)
	}
	x := Vec3{X: 1}
	y := Vec3{Y: 1}
	if got := x.Cross(y); got != (Vec3{Z: 1}) {
		t.Fatalf("Cross got %v", got)
	}
}
