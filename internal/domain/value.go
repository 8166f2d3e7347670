package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is an optional float64. The zero Value is missing.
//
// Arithmetic on Values propagates absence: if any operand is missing,
// the result is missing.
type Value struct {
	v     float64
	valid bool
}

// Some returns a present Value. NaN is treated as missing.
func Some(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{v: v, valid: true}
}

// Missing returns a missing Value.
func Missing() Value {
	return Value{}
}

// ValueOf converts a nullable pointer to a Value.
func ValueOf(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return Some(*p)
}

// Valid reports whether the value is present.
func (x Value) Valid() bool {
	return x.valid
}

// Get returns the value and whether it is present.
func (x Value) Get() (float64, bool) {
	return x.v, x.valid
}

// Ptr returns a pointer to a copy of the value, or nil if missing.
func (x Value) Ptr() *float64 {
	if !x.valid {
		return nil
	}
	v := x.v
	return &v
}

// Add returns x + y.
func (x Value) Add(y Value) Value {
	if !x.valid || !y.valid {
		return Value{}
	}
	return Some(x.v + y.v)
}

// Sub returns x - y.
func (x Value) Sub(y Value) Value {
	if !x.valid || !y.valid {
		return Value{}
	}
	return Some(x.v - y.v)
}

// Scale returns k * x.
func (x Value) Scale(k float64) Value {
	if !x.valid {
		return Value{}
	}
	return Some(k * x.v)
}

// DivGuarded returns x / (y + eps).
func (x Value) DivGuarded(y Value, eps float64) Value {
	if !x.valid || !y.valid {
		return Value{}
	}
	return Some(x.v / (y.v + eps))
}

// String renders the value, or "missing".
func (x Value) String() string {
	if !x.valid {
		return "missing"
	}
	return strconv.FormatFloat(x.v, 'g', -1, 64)
}

// MarshalJSON encodes a missing value as null.
func (x Value) MarshalJSON() ([]byte, error) {
	if !x.valid {
		return []byte("null"), nil
	}
	return json.Marshal(x.v)
}

// UnmarshalJSON decodes null as missing.
func (x *Value) UnmarshalJSON(data []byte) error {
	var p *float64
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*x = ValueOf(p)
	return nil
}
