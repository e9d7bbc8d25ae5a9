package bcm2835

import (
	"earlyboot/src/hardware/rpi"
	"earlyboot/src/lib/regdef"
)

// Offsets of the peripherals we drive, from the start of the peripheral window.
const GPIOOffset = 0x0020_0000
const UARTOffset = 0x0020_1000

// Bus is the memory bus plus a way to burn one cycle.  The GPIO pull-up/down
// sequence needs the latter between its register writes.
type Bus interface {
	regdef.Bus
	Nop()
}

// Config places the devices and sets the line parameters.
type Config struct {
	GPIOBase         uintptr
	UARTBase         uintptr
	UARTClock        uint32
	BaudRate         uint32
	PullSettleCycles int
}

// ConfigFor derives the device configuration from a board profile.
func ConfigFor(p rpi.Profile) Config {
	return Config{
		GPIOBase:         uintptr(p.PeripheralBase + p.GPIOOffset),
		UARTBase:         uintptr(p.PeripheralBase + p.UARTOffset),
		UARTClock:        p.UARTClock,
		BaudRate:         p.BaudRate,
		PullSettleCycles: p.PullSettleCycles,
	}
}

func spin(bus Bus, n int) {
	for i := 0; i < n; i++ {
		bus.Nop()
	}
}
