package sysdec

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"earlyboot/src/lib/regdef"
)

func TestGenerateConstants(t *testing.T) {
	uart, err := Find("uart0")
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := GenerateConstants(&b, uart, UserOptions{Pkg: "pl011", OutTags: "rpi3"}); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		`//go:build rpi3\n`,
		`package pl011\n`,
		`UART0_Base\s+= 0x201000`,
		`UART0_FR_Offset\s+= 0x18`,
		`UART0_FR_TXFF_Mask\s+= 0x20`,
		`UART0_FR_TXFF_Shift\s+= 5`,
		`UART0_LCRH_WLEN_EightBit\s+= 0x3`,
		`UART0_ICR_ALL_Mask\s+= 0x7ff`,
	} {
		if !regexp.MustCompile(want).MatchString(out) {
			t.Errorf("generated code is missing %s", want)
		}
	}
}

func TestGenerateSystemRegisters(t *testing.T) {
	sys, err := Find("SystemRegisters")
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := GenerateConstants(&b, sys, UserOptions{}); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if strings.Contains(out, "_Offset") || strings.Contains(out, "_Base") {
		t.Errorf("system registers have no addresses:\n%s", out)
	}
	if !regexp.MustCompile(`SystemRegisters_SCR_EL3_NS_NonSecure\s+= 0x1`).MatchString(out) {
		t.Errorf("expected the SCR_EL3.NS enumeration:\n%s", out)
	}
}

func TestGenerateRejectsInvalid(t *testing.T) {
	bad := &regdef.PeripheralDef{
		Name: "Broken",
		Registers: []*regdef.RegisterDef{
			{Name: "A", Size: 32, Access: regdef.Access("rw")},
			{Name: "B", Size: 32, Access: regdef.Access("rw")},
		},
	}
	if err := GenerateConstants(&bytes.Buffer{}, bad, UserOptions{}); err == nil {
		t.Errorf("expected overlapping registers to be rejected")
	}
}

func TestDump(t *testing.T) {
	gpio, err := Find("GPIO")
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := Dump(&b, gpio); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"GPIO at peripheral base+0x200000", "GPPUDCLK0", "FSEL14", "AltFunc0=4"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("dump is missing %q", want)
		}
	}
	if _, err := Find("nope"); err == nil {
		t.Errorf("expected an unknown catalog error")
	}
}
