package bcm2835

import (
	"earlyboot/src/lib/regdef"
	"earlyboot/src/lib/upbeat"
)

// ***************************************
// ARM PrimeCell UART (PL011), UART0 on the BCM2837
// ***************************************

var UART_DR = &regdef.RegisterDef{
	Name:          "DR",
	Description:   "Data Register",
	AddressOffset: 0x00,
	Size:          32,
	Access:        regdef.Access("rw"),
	Fields: []*regdef.FieldDef{
		{Name: "OE", Description: "overrun error", BitRange: regdef.Bit(11)},
		{Name: "BE", Description: "break error", BitRange: regdef.Bit(10)},
		{Name: "PE", Description: "parity error", BitRange: regdef.Bit(9)},
		{Name: "FE", Description: "framing error", BitRange: regdef.Bit(8)},
		{Name: "DATA", BitRange: regdef.BitRange(7, 0)},
	},
}

var UART_FR = &regdef.RegisterDef{
	Name:          "FR",
	Description:   "Flag Register",
	AddressOffset: 0x18,
	Size:          32,
	Access:        regdef.Access("r"),
	Fields: []*regdef.FieldDef{
		{Name: "TXFE", Description: "transmit FIFO empty", BitRange: regdef.Bit(7)},
		{Name: "RXFF", Description: "receive FIFO full", BitRange: regdef.Bit(6)},
		{Name: "TXFF", Description: "transmit FIFO full", BitRange: regdef.Bit(5)},
		{Name: "RXFE", Description: "receive FIFO empty", BitRange: regdef.Bit(4)},
		{Name: "BUSY", Description: "transmitting data", BitRange: regdef.Bit(3)},
	},
}

var UART_IBRD = &regdef.RegisterDef{
	Name:          "IBRD",
	Description:   "Integer Baud Rate Divisor",
	AddressOffset: 0x24,
	Size:          32,
	Access:        regdef.Access("w"),
	Fields: []*regdef.FieldDef{
		{Name: "BAUDDIVINT", BitRange: regdef.BitRange(15, 0)},
	},
}

var UART_FBRD = &regdef.RegisterDef{
	Name:          "FBRD",
	Description:   "Fractional Baud Rate Divisor",
	AddressOffset: 0x28,
	Size:          32,
	Access:        regdef.Access("w"),
	Fields: []*regdef.FieldDef{
		{Name: "BAUDDIVFRAC", BitRange: regdef.BitRange(5, 0)},
	},
}

var UART_LCRH = &regdef.RegisterDef{
	Name:          "LCRH",
	Description:   "Line Control Register",
	AddressOffset: 0x2C,
	Size:          32,
	Access:        regdef.Access("w"),
	Fields: []*regdef.FieldDef{
		{Name: "WLEN", Description: "word length", BitRange: regdef.BitRange(6, 5), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "FiveBit", Value: 0},
			{Name: "SixBit", Value: 1},
			{Name: "SevenBit", Value: 2},
			{Name: "EightBit", Value: 3},
		}},
		{Name: "FEN", BitRange: regdef.Bit(4), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "FifosDisabled", Value: 0},
			{Name: "FifosEnabled", Value: 1},
		}},
		{Name: "STP2", Description: "two stop bits", BitRange: regdef.Bit(3)},
		{Name: "PEN", Description: "parity enable", BitRange: regdef.Bit(1)},
	},
}

var UART_CR = &regdef.RegisterDef{
	Name:          "CR",
	Description:   "Control Register",
	AddressOffset: 0x30,
	Size:          32,
	Access:        regdef.Access("w"),
	Fields: []*regdef.FieldDef{
		{Name: "RXE", BitRange: regdef.Bit(9), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "Disabled", Value: 0},
			{Name: "Enabled", Value: 1},
		}},
		{Name: "TXE", BitRange: regdef.Bit(8), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "Disabled", Value: 0},
			{Name: "Enabled", Value: 1},
		}},
		{Name: "LBE", Description: "loopback", BitRange: regdef.Bit(7)},
		{Name: "UARTEN", BitRange: regdef.Bit(0), EnumeratedValue: []regdef.EnumeratedValueDef{
			{Name: "Disabled", Value: 0},
			{Name: "Enabled", Value: 1},
		}},
	},
}

var UART_ICR = &regdef.RegisterDef{
	Name:          "ICR",
	Description:   "Interrupt Clear Register, write one to clear",
	AddressOffset: 0x44,
	Size:          32,
	Access:        regdef.Access("w"),
	Fields: []*regdef.FieldDef{
		{Name: "ALL", BitRange: regdef.BitRange(10, 0)},
	},
}

var UARTRegisters = &regdef.PeripheralDef{
	Name:         "UART0",
	Description:  "PL011 UART",
	AddressBlock: regdef.AddressBlockDef{BaseAddress: UARTOffset, Size: 0x48},
	Registers: []*regdef.RegisterDef{
		UART_DR, UART_FR, UART_IBRD, UART_FBRD, UART_LCRH, UART_CR, UART_ICR,
	},
}

// Divisors computes the baud rate divisor pair for a UART reference clock.
// The fractional part is the remainder in 64ths, rounded to nearest; rounding
// up to a whole 64 carries into the integer divisor.
func Divisors(clock uint32, baud uint32) (ibrd uint32, fbrd uint32, err error) {
	if baud == 0 || clock == 0 {
		return 0, 0, upbeat.ErrBadBaudRate
	}
	d := 16 * uint64(baud)
	i := uint64(clock) / d
	f := (uint64(clock)%d*64 + d/2) / d
	if f == 64 {
		i++
		f = 0
	}
	if i == 0 || i > 0xFFFF {
		return 0, 0, upbeat.ErrBadBaudRate
	}
	return uint32(i), uint32(f), nil
}

// Uart is the owner of the PL011 register block.  Get one from a Registry.
// All waits spin on the flag register.
type Uart struct {
	regs regdef.Block
	ibrd uint32
	fbrd uint32
}

func (u *Uart) waitWhile(flag string) {
	fv := UART_FR.Field(flag).Set()
	for u.regs.Matches(UART_FR, fv) {
	}
}

// 8N1, FIFOs on, transmit and receive enabled
func (u *Uart) init() {
	u.waitWhile("BUSY")
	u.regs.Write(UART_CR, UART_CR.Field("UARTEN").Is("Disabled"))
	u.regs.Write(UART_ICR, UART_ICR.Field("ALL").Set())
	u.regs.Write(UART_IBRD, UART_IBRD.Field("BAUDDIVINT").Val(uint64(u.ibrd)))
	u.regs.Write(UART_FBRD, UART_FBRD.Field("BAUDDIVFRAC").Val(uint64(u.fbrd)))
	u.regs.Write(UART_LCRH, UART_LCRH.Field("WLEN").Is("EightBit").
		Plus(UART_LCRH.Field("FEN").Is("FifosEnabled")))
	u.regs.Write(UART_CR, UART_CR.Field("RXE").Is("Enabled").
		Plus(UART_CR.Field("TXE").Is("Enabled")).
		Plus(UART_CR.Field("UARTEN").Is("Enabled")))
}

// WriteByte waits for room in the transmit FIFO and queues c.
func (u *Uart) WriteByte(c byte) error {
	u.waitWhile("TXFF")
	u.regs.Set(UART_DR, uint32(c))
	return nil
}

// Write sends the bytes of p as they are, for output that is already encoded.
func (u *Uart) Write(p []byte) (int, error) {
	for _, c := range p {
		u.WriteByte(c)
	}
	return len(p), nil
}

// WriteString sends one byte per character of s, the low byte of its code
// point.  Anything outside Latin-1 is truncated, the line is not UTF-8.
func (u *Uart) WriteString(s string) (int, error) {
	for _, r := range s {
		u.WriteByte(byte(r))
	}
	return len(s), nil
}

func (u *Uart) WriteLine(s string) {
	u.WriteString(s)
	u.WriteByte('\n')
}

// Flush waits until the last byte has left the shift register.
func (u *Uart) Flush() {
	u.waitWhile("BUSY")
}

// ReadByte waits for a received byte.
func (u *Uart) ReadByte() (byte, error) {
	u.waitWhile("RXFE")
	return byte(u.regs.Read(UART_DR, UART_DR.Field("DATA"))), nil
}
