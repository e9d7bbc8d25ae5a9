package rpi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuiltinsValid(t *testing.T) {
	for _, p := range Builtins() {
		if err := p.Validate(); err != nil {
			t.Errorf("builtin %s: %v", p.Name, err)
		}
	}
	p, ok := Builtin("rpi3")
	if !ok {
		t.Fatal("no rpi3 profile")
	}
	if p.PeripheralBase+p.UARTOffset != 0x3F20_1000 {
		t.Errorf("expected the rpi3 uart at 0x3F201000, got %#x", p.PeripheralBase+p.UARTOffset)
	}
	if p.PullSettleCycles != 150 {
		t.Errorf("expected 150 settle cycles, got %d", p.PullSettleCycles)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeProfile(t, "board.yaml", `
base: rpi4
name: my-pi4
baud_rate: 921600
el1_stack: 0x200000
`)
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := Builtin("rpi4")
	want.Name = "my-pi4"
	want.BaudRate = 921600
	want.EL1Stack = 0x20_0000
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestPullSettleOverride(t *testing.T) {
	for _, p := range Builtins() {
		if p.PullSettleCycles != DefaultPullSettleCycles {
			t.Errorf("%s: expected %d settle cycles, got %d", p.Name, DefaultPullSettleCycles, p.PullSettleCycles)
		}
	}
	path := writeProfile(t, "slow.yaml", "name: slow\npull_settle_cycles: 2000\n")
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.PullSettleCycles != 2000 {
		t.Errorf("expected 2000 settle cycles, got %d", got.PullSettleCycles)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeProfile(t, "board.toml", `
name = "slow"
baud_rate = 9600
firmware_level = 2
`)
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := Builtin(DefaultBase)
	want.Name = "slow"
	want.BaudRate = 9600
	want.FirmwareLevel = 2
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		file, content, want string
	}{
		{"a.json", `{}`, "unknown file type"},
		{"b.yaml", "base: rpi9\n", "unknown base"},
		{"c.yaml", "el1_stack: 0x80008\n", "stack"},
		{"d.toml", "load_address = 0x80100\n", "page aligned"},
		{"e.yaml", "baud_rate: 0\n", "baud rate"},
		{"f.toml", "firmware_level = 4\n", "firmware level"},
	}
	for _, c := range cases {
		_, err := Load(writeProfile(t, c.file, c.content))
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s: expected error containing %q, got %v", c.file, c.want, err)
		}
	}
}

func TestFind(t *testing.T) {
	if p, err := Find("rpi3-qemu"); err != nil || p.FirmwareLevel != 2 {
		t.Errorf("expected the qemu profile at EL2, got %+v %v", p, err)
	}
	if _, err := Find(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestRevision(t *testing.T) {
	if BoardRevisionDecode("a02082") != "3B, Revision 1.2, 1GB, Sony UK" {
		t.Errorf("unexpected decode %q", BoardRevisionDecode("a02082"))
	}
	p, ok := ProfileForRevision(" a020d3\n")
	if !ok || p.Name != "rpi3" {
		t.Errorf("expected rpi3 for a 3B+, got %q", p.Name)
	}
	p, ok = ProfileForRevision("c03112")
	if !ok || p.Name != "rpi4" {
		t.Errorf("expected rpi4, got %q", p.Name)
	}
	if _, ok := ProfileForRevision("900092"); ok {
		t.Errorf("a zero is not supported")
	}
}
