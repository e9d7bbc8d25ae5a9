// Package kernel is what runs once the processor is at EL1: it brings up the
// diagnostic UART in the only order that works (pins first, then the UART),
// says hello, and stops.  Panic is the last resort reporter for everything
// that goes wrong on the way.
package kernel

import (
	arm "earlyboot/src/hardware/arm-cortex-a53"
	"earlyboot/src/hardware/bcm2835"
	"earlyboot/src/hardware/rpi"
	"earlyboot/src/lib/trust"
	"earlyboot/src/lib/upbeat"
)

// Env is the machine the kernel runs on.
type Env struct {
	Registry *bcm2835.Registry
	CPU      arm.CPU
	Profile  rpi.Profile
}

const Banner = "earlyboot: diagnostic uart up"

var console *bcm2835.Uart

// Console is the UART once Main has brought it up, nil before.
func Console() *bcm2835.Uart {
	return console
}

// Main takes the GPIO, routes the UART to its pins, takes the UART and writes
// the banner and the current exception level.  It never returns.
func Main(env Env) {
	gpio, err := env.Registry.TakeGpio()
	if err != nil {
		Panic(env, err.Error())
		return
	}
	gpio.ConfigureUARTAlternateFunction()

	uart, err := env.Registry.TakeUart()
	if err != nil {
		Panic(env, err.Error())
		return
	}
	console = uart
	trust.SetSink(uart)
	trust.SetHalt(env.CPU.Halt)

	uart.WriteLine(Banner)
	level, err := arm.CurrentLevel(env.CPU)
	if err != nil {
		trust.Fatalf("reading CurrentEL: %s", err.Error())
		return
	}
	if level != arm.EL1 {
		trust.Warnf("expected to run at EL1, not %s", level)
	}
	trust.Infof("%s at %s, %d baud", env.Profile.Name, level, env.Profile.BaudRate)
	uart.Flush()
	env.CPU.Halt()
}

// Panic reports msg on the UART no matter who owns it and halts.  The devices
// are stolen, so it works before Main got that far and after it was done.
func Panic(env Env, msg string) {
	env.Registry.StealGpio().ConfigureUARTAlternateFunction()
	uart := env.Registry.StealUart()
	uart.WriteString("PANIC: ")
	uart.WriteLine(msg)

	raw := env.CPU.ReadSystem(arm.CurrentEL)
	uart.WriteString("  CurrentEL=0x")
	upbeat.WriteHex64(uart, raw)
	level, err := arm.CurrentLevel(env.CPU)
	if err == nil {
		uart.WriteString(" (" + level.String() + ")")
	}
	uart.WriteByte('\n')
	uart.Flush()
	env.CPU.Halt()
}
