// Package regdef describes hardware register blocks as data: peripherals made of
// registers, registers made of bit fields, and fields whose values have names.
// Drivers express every register touch through these descriptors rather than
// through raw masks and shifts.
package regdef

// PeripheralDef is a contiguous block of registers at a fixed place in the
// memory map.  System is set for blocks that are not memory mapped at all, such
// as the ARM system registers, where AddressOffset carries no meaning.
type PeripheralDef struct {
	Name         string
	Description  string
	AddressBlock AddressBlockDef
	System       bool
	Registers    []*RegisterDef
}

// AddressBlockDef gives the offset of a peripheral from the start of the
// peripheral IO window and the number of bytes it spans.
type AddressBlockDef struct {
	BaseAddress int
	Size        int
}

type RegisterDef struct {
	Name          string
	Description   string
	AddressOffset int
	Size          int //in bits, 32 or 64
	Access        AccessDef
	ResetValue    uint64
	Fields        []*FieldDef
}

type FieldDef struct {
	Name            string
	Description     string
	BitRange        BitRangeDef
	EnumeratedValue []EnumeratedValueDef
}

type EnumeratedValueDef struct {
	Name        string
	Description string
	Value       uint64
}

// Register returns the register called name. It panics if there is none, a
// misspelled register is a bug in the catalog, not a runtime condition.
func (p *PeripheralDef) Register(name string) *RegisterDef {
	for _, r := range p.Registers {
		if r.Name == name {
			return r
		}
	}
	panic("regdef: no register " + name + " in " + p.Name)
}

// FindField is the non-panicking version of Field, for tools that take field
// names from the user.
func (r *RegisterDef) FindField(name string) (*FieldDef, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Field returns the field called name and panics if the register has none.
func (r *RegisterDef) Field(name string) *FieldDef {
	f, ok := r.FindField(name)
	if !ok {
		panic("regdef: no field " + name + " in register " + r.Name)
	}
	return f
}

// Mask covers every bit of the register.
func (r *RegisterDef) Mask() uint64 {
	if r.Size >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(r.Size)) - 1
}
