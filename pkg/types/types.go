// Package types defines the closed set of value types the compiler's
// intermediate representations carry: Empty, Byte, Boolean, Array and
// Struct, plus their byte-size and serialization rules.
package types

import (
	"fmt"
	"strings"
)

// Type is a value type. The concrete implementations below are the
// complete, closed set — there is no mechanism for user-defined types.
type Type interface {
	// Size returns the number of bytes a value of this type occupies.
	Size() int
	String() string
}

// Empty is the zero-size unit type.
type Empty struct{}

func (Empty) Size() int      { return 0 }
func (Empty) String() string { return "empty" }

// Byte is a single unsigned byte.
type Byte struct{}

func (Byte) Size() int      { return 1 }
func (Byte) String() string { return "byte" }

// Boolean is a single byte holding 0 or 1.
type Boolean struct{}

func (Boolean) Size() int      { return 1 }
func (Boolean) String() string { return "bool" }

// Array is Count repetitions of Of.
type Array struct {
	Of    Type
	Count int
}

func (a Array) Size() int { return a.Of.Size() * a.Count }
func (a Array) String() string {
	return fmt.Sprintf("[%d]%s", a.Count, a.Of)
}

// Struct is an ordered sequence of fields; Size is their sum.
type Struct struct {
	Fields []Type
}

func (s Struct) Size() int {
	total := 0
	for _, f := range s.Fields {
		total += f.Size()
	}
	return total
}

func (s Struct) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Value is a value whose shape mirrors the Type grammar.
type Value interface {
	// Bytes serializes the value; len(Bytes()) always equals
	// the Size() of the value's type.
	Bytes() []byte
	String() string
}

// EmptyValue serializes to zero bytes.
type EmptyValue struct{}

func (EmptyValue) Bytes() []byte  { return nil }
func (EmptyValue) String() string { return "()" }

// ByteValue is a single literal byte.
type ByteValue uint8

func (b ByteValue) Bytes() []byte  { return []byte{byte(b)} }
func (b ByteValue) String() string { return fmt.Sprintf("%d", uint8(b)) }

// BooleanValue serializes to a single byte: 1 if true, 0 if false.
type BooleanValue bool

func (b BooleanValue) Bytes() []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func (b BooleanValue) String() string { return fmt.Sprintf("%v", bool(b)) }

// ArrayValue is Count repetitions of the same Value.
type ArrayValue struct {
	Elem  Value
	Count int
}

func (a ArrayValue) Bytes() []byte {
	out := make([]byte, 0, a.Count*len(a.Elem.Bytes()))
	for i := 0; i < a.Count; i++ {
		out = append(out, a.Elem.Bytes()...)
	}
	return out
}

func (a ArrayValue) String() string {
	return fmt.Sprintf("[%d x %s]", a.Count, a.Elem)
}

// StructValue is an ordered sequence of component values, concatenated
// in field order when serialized.
type StructValue struct {
	Fields []Value
}

func (s StructValue) Bytes() []byte {
	var out []byte
	for _, f := range s.Fields {
		out = append(out, f.Bytes()...)
	}
	return out
}

func (s StructValue) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
