package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"earlyboot/src/boot/descent"
	arm "earlyboot/src/hardware/arm-cortex-a53"
	"earlyboot/src/hardware/bcm2835"
	"earlyboot/src/hardware/rpi"
)

// maxSteps bounds how many times control may move before Boot gives up; a
// full descent from EL3 needs three.
const maxSteps = 8

// Machine is a simulated board: a CPU, a bus with the GPIO and UART mapped
// where the profile says, and a device registry over that bus.  Code is
// "loaded" by mapping Go functions at addresses; an exception return to an
// address runs the function mapped there.
type Machine struct {
	Profile  rpi.Profile
	CPU      *CPU
	Bus      *Bus
	UART     *PL011
	GPIO     *GPIO
	Registry *bcm2835.Registry

	code []placed
	log  *logrus.Entry
}

type placed struct {
	addr uint64
	fn   func()
}

// Report is what happened during Boot.
type Report struct {
	Returns    []Return
	FinalLevel arm.ExceptionLevel
	PC         uint64
	SP         uint64
	Halted     bool
	Output     string
	Trace      []Access
	Violations int
}

func NewMachine(p rpi.Profile, entry arm.ExceptionLevel, log *logrus.Logger) (*Machine, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{
		Profile: p,
		CPU:     NewCPU(entry, log),
		Bus:     NewBus(log),
		UART:    NewPL011(),
		GPIO:    NewGPIO(),
		log:     log.WithField("component", "machine"),
	}
	cfg := bcm2835.ConfigFor(p)
	m.Bus.Map("GPIO", cfg.GPIOBase, uintptr(bcm2835.GPIORegisters.AddressBlock.Size), m.GPIO, bcm2835.GPIORegisters)
	m.Bus.Map("UART0", cfg.UARTBase, uintptr(bcm2835.UARTRegisters.AddressBlock.Size), m.UART, bcm2835.UARTRegisters)
	reg, err := bcm2835.NewRegistry(m.Bus, cfg)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	m.Registry = reg
	return m, nil
}

// Place maps fn at addr.
func (m *Machine) Place(addr uint64, fn func()) {
	for i := range m.code {
		if m.code[i].addr == addr {
			m.code[i].fn = fn
			return
		}
	}
	m.code = append(m.code, placed{addr: addr, fn: fn})
}

func (m *Machine) lookup(addr uint64) func() {
	for _, p := range m.code {
		if p.addr == addr {
			return p.fn
		}
	}
	return nil
}

// LoadImage places a boot image built around kernel: the descent at the load
// address and the reload vector, kernel at the kernel entry.  Like the board,
// the kernel halts if it ever returns.
func (m *Machine) LoadImage(kernel func()) {
	layout := m.Profile.Layout()
	start := func() {
		descent.Enter(m.CPU, layout, kernel)
	}
	m.Place(m.Profile.LoadAddress, start)
	m.Place(layout.ReloadVector, start)
	m.Place(layout.KernelEntry, func() {
		kernel()
		m.CPU.Halt()
	})
}

// run executes fn on its own goroutine, as the simulated CPU ends goroutines
// rather than returning from eret or halt.
func (m *Machine) run(fn func()) (returned bool, fault interface{}) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				fault = p
			}
		}()
		fn()
		returned = true
	}()
	<-done
	return returned, fault
}

// Boot starts the CPU at the profile's load address and follows control
// through exception returns until the CPU halts.  Running off the end of a
// function, jumping to an address with nothing mapped and any CPU fault are
// errors; the report still describes everything up to that point.
func (m *Machine) Boot() (*Report, error) {
	m.CPU.SetPC(m.Profile.LoadAddress)
	var err error
	for step := 0; ; step++ {
		if step == maxSteps {
			err = fmt.Errorf("no halt after %d transfers of control", maxSteps)
			break
		}
		pc := m.CPU.PC()
		fn := m.lookup(pc)
		if fn == nil {
			err = fmt.Errorf("nothing mapped at %#x", pc)
			break
		}
		before := len(m.CPU.Returns())
		m.log.WithFields(logrus.Fields{"pc": fmt.Sprintf("%#x", pc), "level": m.CPU.Level().String()}).Debug("run")
		returned, fault := m.run(fn)
		if fault != nil {
			if f, ok := fault.(*Fault); ok {
				err = f
			} else {
				err = fmt.Errorf("panic at %#x: %v", pc, fault)
			}
			break
		}
		if returned {
			err = fmt.Errorf("code at %#x returned", pc)
			break
		}
		if m.CPU.Halted() {
			break
		}
		if len(m.CPU.Returns()) == before {
			err = fmt.Errorf("code at %#x ended without eret or halt", pc)
			break
		}
	}
	return m.report(), err
}

func (m *Machine) report() *Report {
	return &Report{
		Returns:    m.CPU.Returns(),
		FinalLevel: m.CPU.Level(),
		PC:         m.CPU.PC(),
		SP:         m.CPU.StackPointer(),
		Halted:     m.CPU.Halted(),
		Output:     m.UART.Output(),
		Trace:      m.Bus.Trace(),
		Violations: m.UART.Violations(),
	}
}
