package bcm2835

import (
	"github.com/usbarmory/tamago/bits"

	"earlyboot/src/lib/regdef"
	"earlyboot/src/lib/upbeat"
)

type GPIOMode uint32 //3 bits wide
const GPIOInput GPIOMode = 0
const GPIOOutput GPIOMode = 1
const GPIOAltFunc5 GPIOMode = 2
const GPIOAltFunc4 GPIOMode = 3
const GPIOAltFunc0 GPIOMode = 4
const GPIOAltFunc1 GPIOMode = 5
const GPIOAltFunc2 GPIOMode = 6
const GPIOAltFunc3 GPIOMode = 7

type GPIOPull uint32 //2 bits wide, 3 is reserved
const GPIOPullOff GPIOPull = 0
const GPIOPullDown GPIOPull = 1
const GPIOPullUp GPIOPull = 2

// GPIOPins is the number of pins on the BCM2837.
const GPIOPins = 54

var gpioModes = []regdef.EnumeratedValueDef{
	{Name: "Input", Value: uint64(GPIOInput)},
	{Name: "Output", Value: uint64(GPIOOutput)},
	{Name: "AltFunc5", Value: uint64(GPIOAltFunc5)},
	{Name: "AltFunc4", Value: uint64(GPIOAltFunc4)},
	{Name: "AltFunc0", Value: uint64(GPIOAltFunc0)},
	{Name: "AltFunc1", Value: uint64(GPIOAltFunc1)},
	{Name: "AltFunc2", Value: uint64(GPIOAltFunc2)},
	{Name: "AltFunc3", Value: uint64(GPIOAltFunc3)},
}

var pinDigits = "0123456789"

func pinName(pin int) string {
	if pin < 10 {
		return pinDigits[pin : pin+1]
	}
	return pinDigits[pin/10:pin/10+1] + pinDigits[pin%10:pin%10+1]
}

// the function select registers hold ten pins each, the last one only four
func functionSelect(n int) *regdef.RegisterDef {
	r := &regdef.RegisterDef{
		Name:          "GPFSEL" + pinName(n),
		Description:   "Function Select " + pinName(n),
		AddressOffset: 4 * n,
		Size:          32,
		Access:        regdef.Access("rw"),
	}
	for i := 0; i < 10 && n*10+i < GPIOPins; i++ {
		r.Fields = append(r.Fields, &regdef.FieldDef{
			Name:            "FSEL" + pinName(n*10+i),
			BitRange:        regdef.BitRange(i*3+2, i*3),
			EnumeratedValue: gpioModes,
		})
	}
	return r
}

var GPFSEL = [6]*regdef.RegisterDef{
	functionSelect(0), functionSelect(1), functionSelect(2),
	functionSelect(3), functionSelect(4), functionSelect(5),
}

var GPPUD = &regdef.RegisterDef{
	Name:          "GPPUD",
	Description:   "Pull-up/down Register",
	AddressOffset: 0x94,
	Size:          32,
	Access:        regdef.Access("rw"),
	Fields: []*regdef.FieldDef{
		{Name: "PUD", BitRange: regdef.BitRange(1, 0), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "Off", Value: uint64(GPIOPullOff)},
			{Name: "PullDown", Value: uint64(GPIOPullDown)},
			{Name: "PullUp", Value: uint64(GPIOPullUp)},
		}},
	},
}

func pullClock(n int) *regdef.RegisterDef {
	r := &regdef.RegisterDef{
		Name:          "GPPUDCLK" + pinName(n),
		Description:   "Pull-up/down Clock " + pinName(n),
		AddressOffset: 0x98 + 4*n,
		Size:          32,
		Access:        regdef.Access("rw"),
	}
	for i := 0; i < 32 && n*32+i < GPIOPins; i++ {
		r.Fields = append(r.Fields, &regdef.FieldDef{
			Name:     "PUDCLK" + pinName(n*32+i),
			BitRange: regdef.Bit(i),
		})
	}
	return r
}

var GPPUDCLK0 = pullClock(0)
var GPPUDCLK1 = pullClock(1)

var GPIORegisters = &regdef.PeripheralDef{
	Name:         "GPIO",
	Description:  "General Purpose I/O",
	AddressBlock: regdef.AddressBlockDef{BaseAddress: GPIOOffset, Size: 0xA0},
	Registers: []*regdef.RegisterDef{
		GPFSEL[0], GPFSEL[1], GPFSEL[2], GPFSEL[3], GPFSEL[4], GPFSEL[5],
		GPPUD, GPPUDCLK0, GPPUDCLK1,
	},
}

// Gpio is the owner of the GPIO register block.  Get one from a Registry.
type Gpio struct {
	regs   regdef.Block
	bus    Bus
	settle int
}

// ConfigureUARTAlternateFunction routes UART0 to pins 14 (TXD) and 15 (RXD)
// with their pull-up/down resistors off.
func (g *Gpio) ConfigureUARTAlternateFunction() {
	g.regs.Modify(GPFSEL[1], GPFSEL[1].Field("FSEL14").Is("AltFunc0").
		Plus(GPFSEL[1].Field("FSEL15").Is("AltFunc0")))

	// the pull control signal must settle before and after it is clocked
	// into the pins
	g.regs.Write(GPPUD, GPPUD.Field("PUD").Is("Off"))
	spin(g.bus, g.settle)
	g.regs.Write(GPPUDCLK0, GPPUDCLK0.Field("PUDCLK14").Set().
		Plus(GPPUDCLK0.Field("PUDCLK15").Set()))
	spin(g.bus, g.settle)
	g.regs.Write(GPPUD, GPPUD.Field("PUD").Is("Off"))
	g.regs.Set(GPPUDCLK0, 0)
}

// SetFunction selects the role of a single pin.
func (g *Gpio) SetFunction(pin int, mode GPIOMode) error {
	if pin < 0 || pin >= GPIOPins {
		return upbeat.ErrPinOutOfRange
	}
	r := GPFSEL[pin/10]
	v := g.regs.Get(r)
	bits.SetN(&v, (pin%10)*3, 0x7, uint32(mode))
	g.regs.Set(r, v)
	return nil
}

// Function reads back the role of a pin.
func (g *Gpio) Function(pin int) (GPIOMode, error) {
	if pin < 0 || pin >= GPIOPins {
		return 0, upbeat.ErrPinOutOfRange
	}
	v := g.regs.Get(GPFSEL[pin/10])
	return GPIOMode(bits.Get(&v, (pin%10)*3, 0x7)), nil
}

// SetPull runs the pull-up/down sequence for one pin.
func (g *Gpio) SetPull(pin int, pud GPIOPull) error {
	if pin < 0 || pin >= GPIOPins {
		return upbeat.ErrPinOutOfRange
	}
	if pud > GPIOPullUp {
		return upbeat.ErrBadPull
	}
	clk := GPPUDCLK0
	if pin >= 32 {
		clk = GPPUDCLK1
	}
	g.regs.Write(GPPUD, GPPUD.Field("PUD").Val(uint64(pud)))
	spin(g.bus, g.settle)
	g.regs.Write(clk, clk.Field("PUDCLK"+pinName(pin)).Set())
	spin(g.bus, g.settle)
	g.regs.Write(GPPUD, GPPUD.Field("PUD").Is("Off"))
	g.regs.Set(clk, 0)
	return nil
}
