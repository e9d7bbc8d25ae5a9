//go:build tinygo && (rpi3 || rpi3_qemu || rpi4)

package bcm2835

import (
	"unsafe"

	"github.com/tinygo-org/tinygo/src/device/arm"
	"github.com/tinygo-org/tinygo/src/runtime/volatile"

	"earlyboot/src/hardware/rpi"
)

type hardwareBus struct{}

func (hardwareBus) Read32(addr uintptr) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

func (hardwareBus) Write32(addr uintptr, value uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(addr)), value)
}

func (hardwareBus) Nop() {
	arm.Asm("nop")
}

// Hardware is the real memory bus.
var Hardware Bus = hardwareBus{}

// Default is the registry of the board this image was built for.
var Default = mustRegistry()

func mustRegistry() *Registry {
	r, err := NewRegistry(Hardware, ConfigFor(rpi.TargetProfile()))
	if err != nil {
		panic(err.Error())
	}
	return r
}
