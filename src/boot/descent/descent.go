package descent

import (
	arm "earlyboot/src/hardware/arm-cortex-a53"
	"earlyboot/src/lib/regdef"
	"earlyboot/src/lib/upbeat"
)

// State is where the descent finds the processor.
type State uint8

const (
	AtLevel3 State = iota
	AtLevel2
	AtLevel1OrLower
)

func (s State) String() string {
	switch s {
	case AtLevel3:
		return "AtLevel3"
	case AtLevel2:
		return "AtLevel2"
	case AtLevel1OrLower:
		return "AtLevel1OrLower"
	}
	return "State?"
}

// StateOf maps an exception level to a descent state.
func StateOf(level arm.ExceptionLevel) (State, error) {
	switch level {
	case arm.EL3:
		return AtLevel3, nil
	case arm.EL2:
		return AtLevel2, nil
	case arm.EL1, arm.EL0:
		return AtLevel1OrLower, nil
	}
	return 0, upbeat.ErrUnknownLevel
}

// Write is one system register assignment.
type Write struct {
	Register *regdef.RegisterDef
	Value    uint64
}

const maxWrites = 8

// Leg is one step of the descent: the register writes to perform, in order,
// before the exception return that moves From to To.  A Direct leg has no
// writes and no exception return; the kernel is called where we are.
type Leg struct {
	From   arm.ExceptionLevel
	To     arm.ExceptionLevel
	State  State
	Direct bool

	writes [maxWrites]Write
	n      int
}

// Writes is the ordered list of register assignments.
func (l *Leg) Writes() []Write {
	return l.writes[:l.n]
}

func (l *Leg) add(r *regdef.RegisterDef, v uint64) {
	l.writes[l.n] = Write{Register: r, Value: v}
	l.n++
}

func (l *Leg) addFields(r *regdef.RegisterDef, fv regdef.FieldValue) {
	l.add(r, fv.Apply(0))
}

// all of DAIF masked, returning to mode
func maskedStatus(spsr *regdef.RegisterDef, mode string) regdef.FieldValue {
	return spsr.Field("D").Is("Masked").
		Plus(spsr.Field("A").Is("Masked")).
		Plus(spsr.Field("I").Is("Masked")).
		Plus(spsr.Field("F").Is("Masked")).
		Plus(spsr.Field("M").Is(mode))
}

// Plan computes the leg that starts at level without touching any hardware.
func Plan(level arm.ExceptionLevel, layout Layout) (Leg, error) {
	var leg Leg
	state, err := StateOf(level)
	if err != nil {
		return leg, err
	}
	leg.From = level
	leg.State = state
	switch state {
	case AtLevel3:
		if err := layout.Validate(); err != nil {
			return leg, err
		}
		leg.To = arm.EL2
		leg.addFields(arm.SPSR_EL3, maskedStatus(arm.SPSR_EL3, "EL2h"))
		leg.addFields(arm.SCR_EL3, arm.SCR_EL3.Field("RW").Is("NextELIsAarch64").
			Plus(arm.SCR_EL3.Field("NS").Is("NonSecure")).
			Plus(arm.SCR_EL3.Field("SMD").Is("SmcDisabled")).
			Plus(arm.SCR_EL3.Field("HCE").Is("HvcDisabled")).
			Plus(arm.SCR_EL3.Field("RES1").Set()))
		leg.add(arm.ELR_EL3, layout.ReloadVector)
	case AtLevel2:
		if err := layout.Validate(); err != nil {
			return leg, err
		}
		leg.To = arm.EL1
		//timer and counter usable from EL1, no virtual offset
		leg.addFields(arm.CNTHCTL_EL2, arm.CNTHCTL_EL2.Field("EL1PCEN").Set().
			Plus(arm.CNTHCTL_EL2.Field("EL1PCTEN").Set()))
		leg.add(arm.CNTVOFF_EL2, 0)
		leg.addFields(arm.SPSR_EL2, maskedStatus(arm.SPSR_EL2, "EL1h"))
		leg.add(arm.ELR_EL2, layout.KernelEntry)
		leg.addFields(arm.HCR_EL2, arm.HCR_EL2.Field("RW").Is("EL1IsAarch64"))
		leg.add(arm.SP_EL1, layout.EL1Stack)
	default:
		leg.To = level
		leg.Direct = true
	}
	return leg, nil
}

// Step reads CurrentEL and performs the register writes of one leg.  It does
// not issue the exception return.
func Step(cpu arm.CPU, layout Layout) (Leg, error) {
	level, err := arm.CurrentLevel(cpu)
	if err != nil {
		return Leg{}, err
	}
	leg, err := Plan(level, layout)
	if err != nil {
		return leg, err
	}
	for _, w := range leg.Writes() {
		cpu.WriteSystem(w.Register, w.Value)
	}
	return leg, nil
}

// Enter brings the processor down one level per call and never returns.  Above
// EL1 it ends in an exception return, to the reload vector from EL3 or to the
// kernel entry from EL2.  At EL1 or below it calls kernel directly.  Anything
// it cannot make sense of halts the processor.
func Enter(cpu arm.CPU, layout Layout, kernel func()) {
	leg, err := Step(cpu, layout)
	if err != nil {
		cpu.Halt()
		return
	}
	if leg.Direct {
		kernel()
		cpu.Halt()
		return
	}
	cpu.ExceptionReturn()
	cpu.Halt() //unreachable
}
