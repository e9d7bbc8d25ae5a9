package arm_cortex_a53

import "earlyboot/src/lib/regdef"

// ***************************************
// Exception level descent registers, from the AArch64 Reference Manual.
// These are system registers: mrs/msr by name, not memory mapped.
// ***************************************

var CurrentEL = &regdef.RegisterDef{
	Name:        "CurrentEL",
	Description: "Current Exception Level",
	Size:        64,
	Access:      regdef.Access("r"),
	Fields: []*regdef.FieldDef{
		{Name: "EL", BitRange: regdef.BitRange(3, 2), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "EL0", Value: 0},
			{Name: "EL1", Value: 1},
			{Name: "EL2", Value: 2},
			{Name: "EL3", Value: 3},
		}},
	},
}

// both SPSRs we write share a layout
func savedProgramStatus(name string) *regdef.RegisterDef {
	masked := func(n string, bit int, what string) *regdef.FieldDef {
		return &regdef.FieldDef{
			Name:        n,
			Description: what + " mask bit",
			BitRange:    regdef.Bit(bit),
			EnumeratedValue: []regdef.EnumeratedValueDef{
				{Name: "Unmasked", Value: 0},
				{Name: "Masked", Value: 1},
			},
		}
	}
	return &regdef.RegisterDef{
		Name:        name,
		Description: "Saved Program Status Register, restored into PSTATE by eret",
		Size:        64,
		Access:      regdef.Access("rw"),
		Fields: []*regdef.FieldDef{
			masked("D", 9, "Debug exception"),
			masked("A", 8, "SError interrupt"),
			masked("I", 7, "IRQ"),
			masked("F", 6, "FIQ"),
			{Name: "M", Description: "AArch64 mode (exception level and stack pointer) after eret",
				BitRange: regdef.BitRange(3, 0),
				EnumeratedValue: []regdef.EnumeratedValueDef{
					{Name: "EL0t", Value: 0b0000},
					{Name: "EL1t", Value: 0b0100},
					{Name: "EL1h", Value: 0b0101}, //EL1 has own stack
					{Name: "EL2t", Value: 0b1000},
					{Name: "EL2h", Value: 0b1001},
					{Name: "EL3t", Value: 0b1100},
					{Name: "EL3h", Value: 0b1101},
				}},
		},
	}
}

var SPSR_EL3 = savedProgramStatus("SPSR_EL3")
var SPSR_EL2 = savedProgramStatus("SPSR_EL2")

var SCR_EL3 = &regdef.RegisterDef{
	Name:        "SCR_EL3",
	Description: "Secure Configuration Register",
	Size:        64,
	Access:      regdef.Access("rw"),
	Fields: []*regdef.FieldDef{
		{Name: "RW", BitRange: regdef.Bit(10), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "AllLowerELsAreAarch32", Value: 0},
			{Name: "NextELIsAarch64", Value: 1},
		}},
		{Name: "HCE", BitRange: regdef.Bit(8), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "HvcDisabled", Value: 0},
			{Name: "HvcEnabled", Value: 1},
		}},
		{Name: "SMD", BitRange: regdef.Bit(7), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "SmcEnabled", Value: 0},
			{Name: "SmcDisabled", Value: 1},
		}},
		{Name: "RES1", Description: "reserved, should be one", BitRange: regdef.BitRange(5, 4)},
		{Name: "NS", BitRange: regdef.Bit(0), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "Secure", Value: 0},
			{Name: "NonSecure", Value: 1},
		}},
	},
}

var HCR_EL2 = &regdef.RegisterDef{
	Name:        "HCR_EL2",
	Description: "Hypervisor Configuration Register",
	Size:        64,
	Access:      regdef.Access("rw"),
	Fields: []*regdef.FieldDef{
		{Name: "RW", BitRange: regdef.Bit(31), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "AllLowerELsAreAarch32", Value: 0},
			{Name: "EL1IsAarch64", Value: 1},
		}},
	},
}

var CNTHCTL_EL2 = &regdef.RegisterDef{
	Name:        "CNTHCTL_EL2",
	Description: "Counter-timer Hypervisor Control register",
	Size:        64,
	Access:      regdef.Access("rw"),
	Fields: []*regdef.FieldDef{
		{Name: "EL1PCEN", Description: "EL1 access to the physical timer registers", BitRange: regdef.Bit(1)},
		{Name: "EL1PCTEN", Description: "EL1 access to the physical counter", BitRange: regdef.Bit(0)},
	},
}

var CNTVOFF_EL2 = &regdef.RegisterDef{
	Name:        "CNTVOFF_EL2",
	Description: "Counter-timer Virtual Offset register",
	Size:        64,
	Access:      regdef.Access("rw"),
}

var ELR_EL3 = &regdef.RegisterDef{
	Name:        "ELR_EL3",
	Description: "Exception Link Register, where eret from EL3 resumes",
	Size:        64,
	Access:      regdef.Access("rw"),
}

var ELR_EL2 = &regdef.RegisterDef{
	Name:        "ELR_EL2",
	Description: "Exception Link Register, where eret from EL2 resumes",
	Size:        64,
	Access:      regdef.Access("rw"),
}

var SP_EL1 = &regdef.RegisterDef{
	Name:        "SP_EL1",
	Description: "Stack Pointer used at EL1 with SPSel=1 (EL1h)",
	Size:        64,
	Access:      regdef.Access("rw"),
}

// SystemRegisters is the catalog of every register above, in the order the
// descent touches them.
var SystemRegisters = &regdef.PeripheralDef{
	Name:        "SystemRegisters",
	Description: "Cortex-A53 system registers used to leave EL3 and EL2",
	System:      true,
	Registers: []*regdef.RegisterDef{
		CurrentEL,
		SPSR_EL3,
		SCR_EL3,
		ELR_EL3,
		CNTHCTL_EL2,
		CNTVOFF_EL2,
		SPSR_EL2,
		ELR_EL2,
		HCR_EL2,
		SP_EL1,
	},
}

// lowest exception level that may access each register; SP_EL1 is only
// visible from above EL1
var minimumLevel = [...]struct {
	reg   *regdef.RegisterDef
	level ExceptionLevel
}{
	{CurrentEL, EL1},
	{SPSR_EL3, EL3},
	{SCR_EL3, EL3},
	{ELR_EL3, EL3},
	{CNTHCTL_EL2, EL2},
	{CNTVOFF_EL2, EL2},
	{SPSR_EL2, EL2},
	{ELR_EL2, EL2},
	{HCR_EL2, EL2},
	{SP_EL1, EL2},
}

// MinimumLevel is the lowest exception level at which r can be accessed.  It
// returns false for registers outside SystemRegisters.
func MinimumLevel(r *regdef.RegisterDef) (ExceptionLevel, bool) {
	for _, m := range minimumLevel {
		if m.reg == r {
			return m.level, true
		}
	}
	return 0, false
}
