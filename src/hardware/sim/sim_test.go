package sim

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	arm "earlyboot/src/hardware/arm-cortex-a53"
	"earlyboot/src/hardware/rpi"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newMachine(t *testing.T, profile string, entry arm.ExceptionLevel) *Machine {
	t.Helper()
	p, ok := rpi.Builtin(profile)
	if !ok {
		t.Fatalf("no profile %s", profile)
	}
	m, err := NewMachine(p, entry, quietLog())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// the smallest useful kernel: bring up the uart and say something
func hello(m *Machine, problems *[]error) func() {
	return func() {
		g, err := m.Registry.TakeGpio()
		if err != nil {
			*problems = append(*problems, err)
			return
		}
		g.ConfigureUARTAlternateFunction()
		u, err := m.Registry.TakeUart()
		if err != nil {
			*problems = append(*problems, err)
			return
		}
		level, _ := arm.CurrentLevel(m.CPU)
		u.WriteLine("hello from " + level.String())
	}
}

func TestBootFromEL3(t *testing.T) {
	m := newMachine(t, "rpi3", arm.EL3)
	var problems []error
	m.LoadImage(hello(m, &problems))
	report, err := m.Boot()
	if err != nil {
		t.Fatal(err)
	}
	if len(problems) != 0 {
		t.Fatalf("kernel problems: %v", problems)
	}
	want := []Return{
		{From: arm.EL3, To: arm.EL2, PC: 0x80000, SPSR: 0x3c9, Config: 0x4b1},
		{From: arm.EL2, To: arm.EL1, PC: 0x80800, SPSR: 0x3c5, Config: 0x8000_0000},
	}
	if diff := cmp.Diff(want, report.Returns); diff != "" {
		t.Errorf("exception returns mismatch (-want +got):\n%s", diff)
	}
	scr := m.CPU.Register(arm.SCR_EL3)
	if arm.SCR_EL3.Field("NS").Get(scr) != 1 || arm.SCR_EL3.Field("RW").Get(scr) != 1 {
		t.Errorf("expected NS=1 RW=1, got %s", arm.SCR_EL3.Describe(scr))
	}
	if m.CPU.Register(arm.ELR_EL3) != m.Profile.ReloadVector {
		t.Errorf("ELR_EL3 is not the reload vector")
	}
	if report.FinalLevel != arm.EL1 || !report.Halted {
		t.Errorf("expected to halt at EL1, at %s halted=%v", report.FinalLevel, report.Halted)
	}
	if report.SP != 0x80000 {
		t.Errorf("expected SP_EL1 0x80000, got %#x", report.SP)
	}
	if report.Output != "hello from EL1\n" {
		t.Errorf("unexpected output %q", report.Output)
	}
	if report.Violations != 0 {
		t.Errorf("%d writes with the fifo full", report.Violations)
	}
}

func TestBootFromEL2(t *testing.T) {
	m := newMachine(t, "rpi3-qemu", arm.EL2)
	var problems []error
	m.LoadImage(hello(m, &problems))
	report, err := m.Boot()
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Returns) != 1 || report.Returns[0].PC != m.Profile.KernelEntry {
		t.Errorf("expected one return to the kernel, got %+v", report.Returns)
	}
	if report.Output != "hello from EL1\n" {
		t.Errorf("unexpected output %q", report.Output)
	}
}

func TestBootFromEL1(t *testing.T) {
	m := newMachine(t, "rpi3", arm.EL1)
	var problems []error
	m.LoadImage(hello(m, &problems))
	report, err := m.Boot()
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Returns) != 0 || !report.Halted || report.Output != "hello from EL1\n" {
		t.Errorf("expected a direct call at EL1, got %+v", report)
	}
}

func TestFaults(t *testing.T) {
	m := newMachine(t, "rpi3", arm.EL2)
	m.Place(m.Profile.LoadAddress, func() {
		m.CPU.WriteSystem(arm.SCR_EL3, 0)
	})
	_, err := m.Boot()
	var f *Fault
	if !errors.As(err, &f) || !strings.Contains(f.Reason, "SCR_EL3") {
		t.Errorf("expected an access fault, got %v", err)
	}

	m = newMachine(t, "rpi3", arm.EL2)
	m.Place(m.Profile.LoadAddress, func() {
		m.CPU.WriteSystem(arm.SPSR_EL2, arm.SPSR_EL2.Field("M").Is("EL3h").Apply(0))
		m.CPU.ExceptionReturn()
	})
	if _, err := m.Boot(); !errors.As(err, &f) || !strings.Contains(f.Reason, "illegal return") {
		t.Errorf("expected an illegal return, got %v", err)
	}

	m = newMachine(t, "rpi3", arm.EL3)
	m.Place(m.Profile.LoadAddress, func() {
		m.CPU.WriteSystem(arm.SPSR_EL3, arm.SPSR_EL3.Field("M").Is("EL2h").Apply(0))
		m.CPU.WriteSystem(arm.SCR_EL3, arm.SCR_EL3.Field("RW").Is("NextELIsAarch64").Apply(0))
		m.CPU.ExceptionReturn()
	})
	if _, err := m.Boot(); !errors.As(err, &f) || !strings.Contains(f.Reason, "secure EL2") {
		t.Errorf("expected a secure EL2 fault, got %v", err)
	}
}

func TestBootErrors(t *testing.T) {
	m := newMachine(t, "rpi3", arm.EL1)
	if _, err := m.Boot(); err == nil || !strings.Contains(err.Error(), "nothing mapped") {
		t.Errorf("expected nothing mapped, got %v", err)
	}
	m.Place(m.Profile.LoadAddress, func() {})
	if _, err := m.Boot(); err == nil || !strings.Contains(err.Error(), "returned") {
		t.Errorf("expected a returned error, got %v", err)
	}
}

func TestBusUnmapped(t *testing.T) {
	b := NewBus(quietLog())
	b.Map("GPIO", 0x1000, 0x10, NewGPIO(), nil)
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic for an unmapped read")
		}
	}()
	b.Read32(0x2000)
}

func TestBusTrace(t *testing.T) {
	b := NewBus(quietLog())
	b.Map("GPIO", 0x1000, 0xA0, NewGPIO(), nil)
	b.TraceReads = true
	b.Write32(0x1004, 7)
	if v := b.Read32(0x1004); v != 7 {
		t.Errorf("expected the stored value back, got %d", v)
	}
	want := []Access{
		{Write: true, Device: "GPIO", Register: "0x4", Address: 0x1004, Value: 7},
		{Device: "GPIO", Register: "0x4", Address: 0x1004, Value: 7},
	}
	if diff := cmp.Diff(want, b.Trace()); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
	if len(b.Writes("GPIO")) != 1 {
		t.Errorf("expected one write")
	}
}
