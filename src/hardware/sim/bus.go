// Package sim is a host model of the part of a Raspberry Pi the boot path
// touches: the system registers and exception return of the CPU, and the GPIO
// and PL011 register blocks on the peripheral bus.  It lets the real drivers
// and the real descent run unmodified on the build machine.
package sim

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"earlyboot/src/lib/regdef"
)

// Device is a register block on the simulated bus.  Offsets are relative to
// the start of the device's region.
type Device interface {
	ReadRegister(offset uintptr) uint32
	WriteRegister(offset uintptr, value uint32)
}

// Access is one bus transaction.
type Access struct {
	Write    bool
	Device   string
	Register string
	Address  uintptr
	Value    uint32
}

func (a Access) String() string {
	dir := "read "
	if a.Write {
		dir = "write"
	}
	return fmt.Sprintf("%s %s.%s %#08x", dir, a.Device, a.Register, a.Value)
}

type region struct {
	name    string
	base    uintptr
	size    uintptr
	dev     Device
	catalog *regdef.PeripheralDef
}

// Bus routes 32 bit accesses to the mapped devices and keeps a trace of them.
// Accesses outside every region panic; on the board they would fault.
type Bus struct {
	mu      sync.Mutex
	regions []region
	trace   []Access
	nops    int
	log     *logrus.Entry

	// TraceReads adds reads to the trace, which otherwise holds only writes.
	TraceReads bool
}

func NewBus(log *logrus.Logger) *Bus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bus{log: log.WithField("component", "bus")}
}

// Map places dev at base.  The catalog, when given, names the registers in the
// trace.
func (b *Bus) Map(name string, base uintptr, size uintptr, dev Device, catalog *regdef.PeripheralDef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.regions {
		if base < r.base+r.size && r.base < base+size {
			panic(fmt.Sprintf("sim: %s at %#x overlaps %s", name, base, r.name))
		}
	}
	b.regions = append(b.regions, region{name: name, base: base, size: size, dev: dev, catalog: catalog})
}

func (b *Bus) find(addr uintptr) (*region, uintptr) {
	if addr%4 != 0 {
		panic(fmt.Sprintf("sim: unaligned access at %#x", addr))
	}
	for i := range b.regions {
		r := &b.regions[i]
		if addr >= r.base && addr+4 <= r.base+r.size {
			return r, addr - r.base
		}
	}
	panic(fmt.Sprintf("sim: access to unmapped address %#x", addr))
}

func (r *region) registerName(offset uintptr) string {
	if r.catalog != nil {
		for _, reg := range r.catalog.Registers {
			if uintptr(reg.AddressOffset) == offset {
				return reg.Name
			}
		}
	}
	return fmt.Sprintf("%#x", offset)
}

func (b *Bus) Read32(addr uintptr) uint32 {
	b.mu.Lock()
	r, offset := b.find(addr)
	b.mu.Unlock()
	v := r.dev.ReadRegister(offset)
	if b.TraceReads {
		b.record(Access{Device: r.name, Register: r.registerName(offset), Address: addr, Value: v})
	}
	return v
}

func (b *Bus) Write32(addr uintptr, value uint32) {
	b.mu.Lock()
	r, offset := b.find(addr)
	b.mu.Unlock()
	b.record(Access{Write: true, Device: r.name, Register: r.registerName(offset), Address: addr, Value: value})
	r.dev.WriteRegister(offset, value)
}

// Nop counts a cycle.
func (b *Bus) Nop() {
	b.mu.Lock()
	b.nops++
	b.mu.Unlock()
}

func (b *Bus) record(a Access) {
	b.mu.Lock()
	b.trace = append(b.trace, a)
	b.mu.Unlock()
	b.log.WithFields(logrus.Fields{
		"device":   a.Device,
		"register": a.Register,
		"value":    fmt.Sprintf("%#x", a.Value),
		"write":    a.Write,
	}).Trace("mmio")
}

// Trace is a copy of the accesses so far.
func (b *Bus) Trace() []Access {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]Access, len(b.trace))
	copy(result, b.trace)
	return result
}

// Writes is the trace of writes to one device.
func (b *Bus) Writes(device string) []Access {
	var result []Access
	for _, a := range b.Trace() {
		if a.Write && a.Device == device {
			result = append(result, a)
		}
	}
	return result
}

// Nops is the number of Nop cycles burned.
func (b *Bus) Nops() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nops
}

// Reset forgets the trace and the cycle count.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trace = nil
	b.nops = 0
}
