package sim

import (
	"sync"

	"earlyboot/src/hardware/bcm2835"
)

// GPIO is a storage backed GPIO register block.  It also latches pull-up/down
// settings into pins the way the hardware does: a pin takes the current GPPUD
// value when its bit in GPPUDCLKn is written as one.
type GPIO struct {
	mu    sync.Mutex
	regs  [0xA0 / 4]uint32
	pulls [bcm2835.GPIOPins]bcm2835.GPIOPull
}

// pulls as they come out of reset; the real reset state varies by pin, pulled
// down is the common case
const resetPull = bcm2835.GPIOPullDown

func NewGPIO() *GPIO {
	g := &GPIO{}
	for i := range g.pulls {
		g.pulls[i] = resetPull
	}
	return g
}

func (g *GPIO) ReadRegister(offset uintptr) uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.regs[offset/4]
}

func (g *GPIO) WriteRegister(offset uintptr, value uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.regs[offset/4] = value
	var first int
	switch offset {
	case uintptr(bcm2835.GPPUDCLK0.AddressOffset):
		first = 0
	case uintptr(bcm2835.GPPUDCLK1.AddressOffset):
		first = 32
	default:
		return
	}
	pud := bcm2835.GPIOPull(g.regs[bcm2835.GPPUD.AddressOffset/4] & 0x3)
	for i := 0; i < 32 && first+i < bcm2835.GPIOPins; i++ {
		if value&(1<<uint(i)) != 0 {
			g.pulls[first+i] = pud
		}
	}
}

// Function is the mode of pin as held in the function select registers.
func (g *GPIO) Function(pin int) bcm2835.GPIOMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return bcm2835.GPIOMode((g.regs[pin/10] >> (uint(pin%10) * 3)) & 0x7)
}

// Pull is the pull-up/down state last latched into pin.
func (g *GPIO) Pull(pin int) bcm2835.GPIOPull {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pulls[pin]
}
