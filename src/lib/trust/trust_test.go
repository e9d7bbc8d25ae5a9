package trust

import (
	"bytes"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var b bytes.Buffer
	prev := SetSink(&b)
	t.Cleanup(func() { SetSink(prev) })
	return &b
}

func TestLevels(t *testing.T) {
	b := capture(t)
	Infof("at %s", "EL1")
	Warnf("no newline needed\n")
	Infof("")
	want := " INFO:at EL1\n WARN:no newline needed\n INFO:\n"
	if b.String() != want {
		t.Errorf("expected %q but got %q", want, b.String())
	}
}

func TestNilSinkDrops(t *testing.T) {
	b := capture(t)
	if prev := SetSink(nil); prev != b {
		t.Errorf("expected the previous sink back")
	}
	Infof("dropped")
	SetSink(b)
	if b.Len() != 0 {
		t.Errorf("expected nothing, got %q", b.String())
	}
}

func TestFatalf(t *testing.T) {
	b := capture(t)
	halted := false
	prevHalt := halt
	t.Cleanup(func() { SetHalt(prevHalt) })
	SetHalt(func() { halted = true })
	Fatalf("cannot continue: %d", 3)
	if !halted {
		t.Errorf("expected Fatalf to halt")
	}
	if b.String() != "FATAL:cannot continue: 3\n" {
		t.Errorf("unexpected fatal output %q", b.String())
	}
}
