package bootsim

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	arm "earlyboot/src/hardware/arm-cortex-a53"
	"earlyboot/src/hardware/rpi"
	"earlyboot/src/kernel"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSimulate(t *testing.T) {
	p, _ := rpi.Builtin("rpi3")
	report, err := Simulate(p, arm.EL3, quietLog())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(report.Output, kernel.Banner+"\n") {
		t.Errorf("expected the banner, got %q", report.Output)
	}
	var b bytes.Buffer
	PrintReport(&b, report, false)
	for _, want := range []string{"eret 1: EL3 -> EL2 at 0x80000", "eret 2: EL2 -> EL1 at 0x80800", "final: EL1 sp=0x80000 halted=true"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("report is missing %q:\n%s", want, b.String())
		}
	}
	if _, err := Simulate(p, arm.EL0, quietLog()); err == nil {
		t.Errorf("expected EL0 to be refused")
	}
}

func TestWriteDivisors(t *testing.T) {
	var b bytes.Buffer
	if err := WriteDivisors(&b, 48_000_000, 115200); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(b.String(), "IBRD=26 FBRD=3 ") {
		t.Errorf("unexpected divisors %q", b.String())
	}
	if err := WriteDivisors(&b, 48_000_000, 0); err == nil {
		t.Errorf("expected zero baud to fail")
	}
}

func TestProfilesLoadBack(t *testing.T) {
	want, _ := rpi.Builtin("rpi4")
	for _, format := range []string{"yaml", "toml"} {
		var b bytes.Buffer
		if err := WriteProfiles(&b, []rpi.Profile{want}, format); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		path := filepath.Join(t.TempDir(), "board."+format)
		if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := rpi.Load(path)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s profile mismatch (-want +got):\n%s", format, diff)
		}
	}
	var b bytes.Buffer
	if err := WriteProfiles(&b, rpi.Builtins(), "table"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "rpi3-qemu") {
		t.Errorf("table is missing rpi3-qemu:\n%s", b.String())
	}
	if err := WriteProfiles(&b, nil, "xml"); err == nil {
		t.Errorf("expected an unknown format error")
	}
}

func TestCPUInfoRevision(t *testing.T) {
	cpuinfo := "processor\t: 0\nHardware\t: BCM2835\nRevision\t: a02082\nSerial\t\t: 00000000\n"
	rev, err := CPUInfoRevision(strings.NewReader(cpuinfo))
	if err != nil || rev != "a02082" {
		t.Errorf("expected a02082, got %q %v", rev, err)
	}
	if _, err := CPUInfoRevision(strings.NewReader("processor: 0\n")); err == nil {
		t.Errorf("expected no revision to fail")
	}
}
