package regdef

import "fmt"

// Validate checks the invariants a catalog has to hold before any driver uses
// it: register access is declared, fields sit inside their register and do not
// share bits, enumerated values fit their fields, and the registers of a
// memory mapped block neither overlap nor fall outside the block.
func (p *PeripheralDef) Validate() error {
	for i, r := range p.Registers {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		if p.System {
			continue
		}
		if r.AddressOffset%4 != 0 {
			return fmt.Errorf("%s: register %s at unaligned offset %#x", p.Name, r.Name, r.AddressOffset)
		}
		end := r.AddressOffset + r.Size/8
		if p.AddressBlock.Size > 0 && end > p.AddressBlock.Size {
			return fmt.Errorf("%s: register %s ends at %#x, past the block size %#x",
				p.Name, r.Name, end, p.AddressBlock.Size)
		}
		for _, other := range p.Registers[:i] {
			oend := other.AddressOffset + other.Size/8
			if r.AddressOffset < oend && other.AddressOffset < end {
				return fmt.Errorf("%s: registers %s and %s overlap", p.Name, other.Name, r.Name)
			}
		}
	}
	return nil
}

// Validate checks a single register.
func (r *RegisterDef) Validate() error {
	if r.Size != 32 && r.Size != 64 {
		return fmt.Errorf("register %s: unsupported size %d", r.Name, r.Size)
	}
	if !r.Access.IsSet() {
		return fmt.Errorf("register %s: no declared access level (r, w, or rw)", r.Name)
	}
	var used uint64
	for _, f := range r.Fields {
		if f.BitRange.Msb >= r.Size {
			return fmt.Errorf("register %s: field %s%s is wider than the register", r.Name, f.Name, f.BitRange)
		}
		m := f.BitRange.Mask()
		if used&m != 0 {
			return fmt.Errorf("register %s: field %s%s overlaps another field", r.Name, f.Name, f.BitRange)
		}
		used |= m
		for _, e := range f.EnumeratedValue {
			if e.Value > m>>uint(f.BitRange.Lsb) {
				return fmt.Errorf("register %s: value %s=%#x does not fit field %s%s",
					r.Name, e.Name, e.Value, f.Name, f.BitRange)
			}
		}
	}
	return nil
}
