package bcm2835

import (
	"sync/atomic"

	"earlyboot/src/lib/upbeat"
)

// Registry hands out the one Gpio and the one Uart of a machine.  The latches
// start clear and are set only by a successful take, never cleared.  The
// devices live inside the registry so taking one does not allocate.
type Registry struct {
	gpioTaken atomic.Bool
	uartTaken atomic.Bool

	gpio Gpio
	uart Uart
}

// NewRegistry checks the configuration and prepares the device handles.  No
// register is touched until a device is taken.
func NewRegistry(bus Bus, cfg Config) (*Registry, error) {
	ibrd, fbrd, err := Divisors(cfg.UARTClock, cfg.BaudRate)
	if err != nil {
		return nil, err
	}
	r := &Registry{}
	r.gpio.regs.Bus = bus
	r.gpio.regs.Base = cfg.GPIOBase
	r.gpio.bus = bus
	r.gpio.settle = cfg.PullSettleCycles
	r.uart.regs.Bus = bus
	r.uart.regs.Base = cfg.UARTBase
	r.uart.ibrd = ibrd
	r.uart.fbrd = fbrd
	return r, nil
}

// TakeGpio returns the GPIO the first time it is called and ErrGPIOTaken
// after that.  Nothing is configured.
func (r *Registry) TakeGpio() (*Gpio, error) {
	if !r.gpioTaken.CompareAndSwap(false, true) {
		return nil, upbeat.ErrGPIOTaken
	}
	return &r.gpio, nil
}

// TakeUart returns the initialized UART the first time it is called and
// ErrUARTTaken after that.
func (r *Registry) TakeUart() (*Uart, error) {
	if !r.uartTaken.CompareAndSwap(false, true) {
		return nil, upbeat.ErrUARTTaken
	}
	r.uart.init()
	return &r.uart, nil
}

// StealGpio neither reads nor sets the latch.  It is for the panic path only,
// where whoever took the device is never going to run again.
func (r *Registry) StealGpio() *Gpio {
	return &r.gpio
}

// StealUart neither reads nor sets the latch, and initializes the UART again.
func (r *Registry) StealUart() *Uart {
	r.uart.init()
	return &r.uart
}
