// Package sysdec renders the register catalogs the drivers use into other
// forms: Go constants for code that cannot import the catalog (assembly
// helpers, other toolchains) and a human readable dump.
package sysdec

import (
	"fmt"
	"strings"

	arm "earlyboot/src/hardware/arm-cortex-a53"
	"earlyboot/src/hardware/bcm2835"
	"earlyboot/src/lib/regdef"
)

// Catalogs is every register block this repository describes.
func Catalogs() []*regdef.PeripheralDef {
	return []*regdef.PeripheralDef{
		arm.SystemRegisters,
		bcm2835.GPIORegisters,
		bcm2835.UARTRegisters,
	}
}

// Find looks a catalog up by name, ignoring case.
func Find(name string) (*regdef.PeripheralDef, error) {
	var names []string
	for _, p := range Catalogs() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
		names = append(names, p.Name)
	}
	return nil, fmt.Errorf("no catalog %q, have %s", name, strings.Join(names, ", "))
}
