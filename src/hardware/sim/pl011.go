package sim

import (
	"bytes"
	"sync"

	"earlyboot/src/hardware/bcm2835"
)

// flag register bits, after the PL011 TRM
const (
	FlagTXFE = 1 << 7
	FlagRXFF = 1 << 6
	FlagTXFF = 1 << 5
	FlagRXFE = 1 << 4
	FlagBUSY = 1 << 3
)

const (
	crUARTEN = 1 << 0
	crTXE    = 1 << 8
)

// PL011 models the UART registers the driver uses.  The transmit side of the
// flag register follows a script: each read of FR consumes the next entry, of
// which only TXFF and BUSY are used.  Once the script runs out the transmitter
// is idle.  The receive side follows the queue fed with Feed.
type PL011 struct {
	mu sync.Mutex

	script []uint32
	polls  int
	// transmit flags the driver saw on its last read of FR
	seen uint32

	cr, lcrh, ibrd, fbrd, icr uint32

	out bytes.Buffer
	rx  []byte

	violations int
	disabled   int
}

func NewPL011() *PL011 {
	return &PL011{}
}

// Script sets the sequence of transmit flags the next FR reads return.
func (p *PL011) Script(flags ...uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.script = append([]uint32(nil), flags...)
	p.polls = 0
}

// Feed queues bytes for the driver to receive.
func (p *PL011) Feed(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rx = append(p.rx, s...)
}

func (p *PL011) ReadRegister(offset uintptr) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch offset {
	case uintptr(bcm2835.UART_DR.AddressOffset):
		if len(p.rx) == 0 {
			return 0
		}
		c := p.rx[0]
		p.rx = p.rx[1:]
		return uint32(c)
	case uintptr(bcm2835.UART_FR.AddressOffset):
		tx := uint32(0)
		if p.polls < len(p.script) {
			tx = p.script[p.polls] & (FlagTXFF | FlagBUSY)
			p.polls++
		}
		p.seen = tx
		fr := tx
		if tx&FlagTXFF == 0 {
			fr |= FlagTXFE
		}
		if len(p.rx) == 0 {
			fr |= FlagRXFE
		}
		return fr
	}
	// everything else is write only, reads as zero
	return 0
}

func (p *PL011) WriteRegister(offset uintptr, value uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch offset {
	case uintptr(bcm2835.UART_DR.AddressOffset):
		if p.seen&FlagTXFF != 0 {
			p.violations++
		}
		if p.cr&(crUARTEN|crTXE) != crUARTEN|crTXE {
			p.disabled++
		}
		p.out.WriteByte(byte(value))
	case uintptr(bcm2835.UART_IBRD.AddressOffset):
		p.ibrd = value
	case uintptr(bcm2835.UART_FBRD.AddressOffset):
		p.fbrd = value
	case uintptr(bcm2835.UART_LCRH.AddressOffset):
		p.lcrh = value
	case uintptr(bcm2835.UART_CR.AddressOffset):
		p.cr = value
	case uintptr(bcm2835.UART_ICR.AddressOffset):
		p.icr |= value
	}
}

// Output is everything transmitted so far.
func (p *PL011) Output() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.String()
}

// Violations counts bytes written to DR while the driver's last look at FR
// said the transmit FIFO was full.
func (p *PL011) Violations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.violations
}

// DisabledWrites counts bytes written to DR while the UART or its transmitter
// was off.
func (p *PL011) DisabledWrites() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disabled
}

// Divisors is the baud rate divisor pair last programmed.
func (p *PL011) Divisors() (ibrd uint32, fbrd uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ibrd, p.fbrd
}

// LineControl is the last LCRH value.
func (p *PL011) LineControl() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lcrh
}

// Control is the last CR value.
func (p *PL011) Control() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cr
}

// ClearedInterrupts is every interrupt bit ever written to ICR.
func (p *PL011) ClearedInterrupts() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.icr
}
