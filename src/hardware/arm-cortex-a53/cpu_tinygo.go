//go:build tinygo

package arm_cortex_a53

import (
	"earlyboot/src/lib/regdef"

	"github.com/tinygo-org/tinygo/src/device/arm"
)

// Hardware is the processor this code is running on.
var Hardware CPU = hardwareCPU{}

type hardwareCPU struct{}

// each register needs its own instruction, the name is part of the encoding
func (hardwareCPU) ReadSystem(r *regdef.RegisterDef) uint64 {
	var v uint64
	switch r {
	case CurrentEL:
		arm.AsmFull(`mrs x28, CurrentEL
			str x28,{v}`, map[string]interface{}{"v": &v})
	case SPSR_EL3:
		arm.AsmFull(`mrs x28, spsr_el3
			str x28,{v}`, map[string]interface{}{"v": &v})
	case SCR_EL3:
		arm.AsmFull(`mrs x28, scr_el3
			str x28,{v}`, map[string]interface{}{"v": &v})
	case ELR_EL3:
		arm.AsmFull(`mrs x28, elr_el3
			str x28,{v}`, map[string]interface{}{"v": &v})
	case CNTHCTL_EL2:
		arm.AsmFull(`mrs x28, cnthctl_el2
			str x28,{v}`, map[string]interface{}{"v": &v})
	case CNTVOFF_EL2:
		arm.AsmFull(`mrs x28, cntvoff_el2
			str x28,{v}`, map[string]interface{}{"v": &v})
	case SPSR_EL2:
		arm.AsmFull(`mrs x28, spsr_el2
			str x28,{v}`, map[string]interface{}{"v": &v})
	case ELR_EL2:
		arm.AsmFull(`mrs x28, elr_el2
			str x28,{v}`, map[string]interface{}{"v": &v})
	case HCR_EL2:
		arm.AsmFull(`mrs x28, hcr_el2
			str x28,{v}`, map[string]interface{}{"v": &v})
	case SP_EL1:
		arm.AsmFull(`mrs x28, sp_el1
			str x28,{v}`, map[string]interface{}{"v": &v})
	default:
		panic("no mrs for register " + r.Name)
	}
	return v
}

func (hardwareCPU) WriteSystem(r *regdef.RegisterDef, value uint64) {
	switch r {
	case SPSR_EL3:
		arm.AsmFull("msr spsr_el3, {value}", map[string]interface{}{"value": value})
	case SCR_EL3:
		arm.AsmFull("msr scr_el3, {value}", map[string]interface{}{"value": value})
	case ELR_EL3:
		arm.AsmFull("msr elr_el3, {value}", map[string]interface{}{"value": value})
	case CNTHCTL_EL2:
		arm.AsmFull("msr cnthctl_el2, {value}", map[string]interface{}{"value": value})
	case CNTVOFF_EL2:
		arm.AsmFull("msr cntvoff_el2, {value}", map[string]interface{}{"value": value})
	case SPSR_EL2:
		arm.AsmFull("msr spsr_el2, {value}", map[string]interface{}{"value": value})
	case ELR_EL2:
		arm.AsmFull("msr elr_el2, {value}", map[string]interface{}{"value": value})
	case HCR_EL2:
		arm.AsmFull("msr hcr_el2, {value}", map[string]interface{}{"value": value})
	case SP_EL1:
		arm.AsmFull("msr sp_el1, {value}", map[string]interface{}{"value": value})
	default:
		panic("no msr for register " + r.Name)
	}
}

func (hardwareCPU) ExceptionReturn() {
	arm.Asm("eret")
}

// Halt masks all of D-A-I-F and waits for an event that never matters.
func (hardwareCPU) Halt() {
	arm.Asm("msr    daifset, #0xf")
	for {
		arm.Asm("wfe")
	}
}
