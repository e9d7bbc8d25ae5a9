package regdef

import "fmt"

// Bus moves 32 bit words to and from physical addresses.  On the board every
// access is volatile; simulated buses record the accesses instead.
type Bus interface {
	Read32(addr uintptr) uint32
	Write32(addr uintptr, value uint32)
}

// Block is a peripheral's registers as seen through a Bus at a base address.
// It is the only way drivers touch hardware.
type Block struct {
	Bus  Bus
	Base uintptr
}

func (b Block) addr(r *RegisterDef) uintptr {
	if r.Size != 32 {
		panic(fmt.Sprintf("regdef: %s is %d bits, memory mapped access is 32 bits", r.Name, r.Size))
	}
	return b.Base + uintptr(r.AddressOffset)
}

// Get reads the whole register.
func (b Block) Get(r *RegisterDef) uint32 {
	if !r.Access.CanRead() {
		panic("regdef: read of write-only register " + r.Name)
	}
	return b.Bus.Read32(b.addr(r))
}

// Set writes the whole register.
func (b Block) Set(r *RegisterDef, value uint32) {
	if !r.Access.CanWrite() {
		panic("regdef: write of read-only register " + r.Name)
	}
	b.Bus.Write32(b.addr(r), value)
}

// Write stores the assignments of fv with every other bit zero.
func (b Block) Write(r *RegisterDef, fv FieldValue) {
	b.Set(r, uint32(fv.Apply(0)))
}

// Modify is a read-modify-write that changes only the bits fv assigns.
func (b Block) Modify(r *RegisterDef, fv FieldValue) {
	v := b.Get(r)
	b.Set(r, uint32(fv.Apply(uint64(v))))
}

// Matches reads r and reports whether every field of fv currently holds its
// value.
func (b Block) Matches(r *RegisterDef, fv FieldValue) bool {
	return fv.MatchesAll(uint64(b.Get(r)))
}

// Read extracts a single field.
func (b Block) Read(r *RegisterDef, f *FieldDef) uint64 {
	return f.Get(uint64(b.Get(r)))
}
