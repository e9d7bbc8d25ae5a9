package arm_cortex_a53

import (
	"earlyboot/src/lib/regdef"
	"earlyboot/src/lib/upbeat"
)

// ExceptionLevel is the ARM privilege tier, EL3 the most privileged.
type ExceptionLevel uint8

const (
	EL0 ExceptionLevel = iota
	EL1
	EL2
	EL3
)

func (e ExceptionLevel) String() string {
	switch e {
	case EL0:
		return "EL0"
	case EL1:
		return "EL1"
	case EL2:
		return "EL2"
	case EL3:
		return "EL3"
	}
	return "EL?"
}

// CPU is the processor as the boot path sees it: system registers accessed by
// descriptor, the exception return, and a place to stop.
//
// ExceptionReturn and Halt do not return.  On the board eret abandons the
// caller's frame and Halt parks the core with interrupts masked.
type CPU interface {
	ReadSystem(r *regdef.RegisterDef) uint64
	WriteSystem(r *regdef.RegisterDef, value uint64)
	ExceptionReturn()
	Halt()
}

// CurrentLevel decodes CurrentEL.
func CurrentLevel(c CPU) (ExceptionLevel, error) {
	v := CurrentEL.Field("EL").Get(c.ReadSystem(CurrentEL))
	if v > uint64(EL3) {
		return 0, upbeat.ErrUnknownLevel
	}
	return ExceptionLevel(v), nil
}

// Write stores the assignments of fv into r, every other bit zero.
func Write(c CPU, r *regdef.RegisterDef, fv regdef.FieldValue) {
	c.WriteSystem(r, fv.Apply(0))
}

// ModeLevel is the exception level an SPSR value returns to, and whether the
// mode uses that level's own stack pointer (the "h" modes).
func ModeLevel(spsr uint64) (level ExceptionLevel, handler bool) {
	m := SPSR_EL2.Field("M").Get(spsr)
	return ExceptionLevel(m >> 2), m&1 == 1
}
