package regdef

import (
	"fmt"
	"strings"
)

// FieldValue is a set of field assignments within one register: Mask says which
// bits are being assigned and Value what they are assigned to.  Values for
// different fields of the same register combine with Plus.
type FieldValue struct {
	Mask  uint64
	Value uint64
}

// Val assigns the raw value v to the field.  A value wider than the field
// panics.
func (f *FieldDef) Val(v uint64) FieldValue {
	m := f.BitRange.Mask()
	shifted := v << uint(f.BitRange.Lsb)
	if shifted&^m != 0 || shifted>>uint(f.BitRange.Lsb) != v {
		panic(fmt.Sprintf("regdef: value %#x does not fit field %s%s", v, f.Name, f.BitRange))
	}
	return FieldValue{Mask: m, Value: shifted}
}

// Is assigns the enumerated value called name.
func (f *FieldDef) Is(name string) FieldValue {
	for _, e := range f.EnumeratedValue {
		if e.Name == name {
			return f.Val(e.Value)
		}
	}
	panic("regdef: field " + f.Name + " has no value " + name)
}

// Set assigns all ones to the field.
func (f *FieldDef) Set() FieldValue {
	m := f.BitRange.Mask()
	return FieldValue{Mask: m, Value: m}
}

// Clear assigns zero to the field.
func (f *FieldDef) Clear() FieldValue {
	return FieldValue{Mask: f.BitRange.Mask()}
}

// Get extracts the field from a whole register value.
func (f *FieldDef) Get(word uint64) uint64 {
	return (word & f.BitRange.Mask()) >> uint(f.BitRange.Lsb)
}

// Enum finds the name of the field's current value within word.
func (f *FieldDef) Enum(word uint64) (EnumeratedValueDef, bool) {
	v := f.Get(word)
	for _, e := range f.EnumeratedValue {
		if e.Value == v {
			return e, true
		}
	}
	return EnumeratedValueDef{}, false
}

// Plus combines two assignments.  Assigning the same bits twice is a mistake in
// the caller and panics.
func (a FieldValue) Plus(b FieldValue) FieldValue {
	if a.Mask&b.Mask != 0 {
		panic(fmt.Sprintf("regdef: field values overlap (mask %#x and %#x)", a.Mask, b.Mask))
	}
	return FieldValue{Mask: a.Mask | b.Mask, Value: a.Value | b.Value}
}

// Apply replaces the assigned bits of word, keeping all others.
func (a FieldValue) Apply(word uint64) uint64 {
	return (word &^ a.Mask) | a.Value
}

// MatchesAll reports whether every assigned field of a has its value in word.
func (a FieldValue) MatchesAll(word uint64) bool {
	return word&a.Mask == a.Value
}

// Describe renders word as field=value pairs, using enumerated names where the
// catalog has them.  Registers without fields render as a single hex number.
func (r *RegisterDef) Describe(word uint64) string {
	if len(r.Fields) == 0 {
		return fmt.Sprintf("%#x", word)
	}
	var b strings.Builder
	for i, f := range r.Fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.Name)
		b.WriteByte('=')
		if e, ok := f.Enum(word); ok {
			b.WriteString(e.Name)
		} else {
			fmt.Fprintf(&b, "%#x", f.Get(word))
		}
	}
	return b.String()
}
