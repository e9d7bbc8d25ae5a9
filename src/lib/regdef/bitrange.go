package regdef

import "fmt"

type BitRangeDef struct {
	Lsb int
	Msb int
}

func (b BitRangeDef) String() string {
	if b.Msb == b.Lsb {
		return fmt.Sprintf("[%d]", b.Lsb)
	}
	return fmt.Sprintf("[%d:%d]", b.Msb, b.Lsb)
}

func (b BitRangeDef) Width() int {
	return (b.Msb - b.Lsb) + 1
}

// Mask is the range shifted into place.
func (b BitRangeDef) Mask() uint64 {
	w := b.Width()
	if w >= 64 {
		return ^uint64(0)
	}
	return ((uint64(1) << uint(w)) - 1) << uint(b.Lsb)
}

func BitRange(Msb int, Lsb int) BitRangeDef {
	if Msb > 63 || Lsb > 63 || Msb < 0 || Lsb < 0 {
		panic("BitRange value for Msb/Lsb out of range")
	}
	if Msb < Lsb {
		panic("BitRange Msb < Lsb")
	}
	return BitRangeDef{Msb: Msb, Lsb: Lsb}
}

// Bit is a one bit wide BitRange.
func Bit(n int) BitRangeDef {
	return BitRange(n, n)
}
