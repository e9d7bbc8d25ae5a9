package kernel

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	arm "earlyboot/src/hardware/arm-cortex-a53"
	"earlyboot/src/hardware/rpi"
	"earlyboot/src/hardware/sim"
	"earlyboot/src/lib/regdef"
	"earlyboot/src/lib/trust"
)

func boot(t *testing.T, profile string, entry arm.ExceptionLevel, kernel func(Env)) (*sim.Machine, *sim.Report) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	p, _ := rpi.Builtin(profile)
	m, err := sim.NewMachine(p, entry, log)
	if err != nil {
		t.Fatal(err)
	}
	env := Env{Registry: m.Registry, CPU: m.CPU, Profile: p}
	m.LoadImage(func() { kernel(env) })
	t.Cleanup(func() {
		trust.SetSink(nil)
		console = nil
	})
	report, err := m.Boot()
	if err != nil {
		t.Fatal(err)
	}
	return m, report
}

func TestKernelMain(t *testing.T) {
	m, report := boot(t, "rpi3", arm.EL3, Main)
	want := Banner + "\n INFO:rpi3 at EL1, 115200 baud\n"
	if report.Output != want {
		t.Errorf("expected %q but got %q", want, report.Output)
	}
	if !report.Halted || report.FinalLevel != arm.EL1 {
		t.Errorf("expected a halt at EL1")
	}
	// the pins were routed before the uart was touched
	var firstGPIO, firstUART = -1, -1
	for i, a := range report.Trace {
		if a.Device == "GPIO" && firstGPIO < 0 {
			firstGPIO = i
		}
		if a.Device == "UART0" && firstUART < 0 {
			firstUART = i
		}
	}
	if firstGPIO < 0 || firstUART < firstGPIO {
		t.Errorf("expected gpio configuration before the uart, gpio at %d uart at %d", firstGPIO, firstUART)
	}
	if m.GPIO.Function(14) != 4 || m.GPIO.Function(15) != 4 {
		t.Errorf("uart pins not in alt0")
	}
}

func TestPanicWhenTaken(t *testing.T) {
	_, report := boot(t, "rpi3-qemu", arm.EL2, func(env Env) {
		env.Registry.TakeUart()
		Main(env)
	})
	want := "PANIC: uart device already taken\n  CurrentEL=0x0000000000000004 (EL1)\n"
	if report.Output != want {
		t.Errorf("expected %q but got %q", want, report.Output)
	}
}

func TestPanicAfterMain(t *testing.T) {
	_, report := boot(t, "rpi3", arm.EL1, func(env Env) {
		env.Registry.TakeGpio()
		Panic(env, "early")
	})
	want := "PANIC: early\n  CurrentEL=0x0000000000000004 (EL1)\n"
	if report.Output != want {
		t.Errorf("expected %q but got %q", want, report.Output)
	}
}

// reportsLevel lies about CurrentEL and passes everything else through.
type reportsLevel struct {
	arm.CPU
	level arm.ExceptionLevel
}

func (c reportsLevel) ReadSystem(r *regdef.RegisterDef) uint64 {
	if r == arm.CurrentEL {
		return arm.CurrentEL.Field("EL").Val(uint64(c.level)).Apply(0)
	}
	return c.CPU.ReadSystem(r)
}

func TestKernelMainWarnsAboveEL1(t *testing.T) {
	_, report := boot(t, "rpi3", arm.EL1, func(env Env) {
		env.CPU = reportsLevel{CPU: env.CPU, level: arm.EL2}
		Main(env)
	})
	want := Banner + "\n WARN:expected to run at EL1, not EL2\n INFO:rpi3 at EL2, 115200 baud\n"
	if report.Output != want {
		t.Errorf("expected %q but got %q", want, report.Output)
	}
	if !report.Halted {
		t.Errorf("expected a halt")
	}
}
