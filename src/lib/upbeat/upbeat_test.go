package upbeat

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestHex(t *testing.T) {
	var b bytes.Buffer
	if err := WriteHex64(&b, 0x80000); err != nil {
		t.Fatal(err)
	}
	if b.String() != "0000000000080000" {
		t.Errorf("expected 0000000000080000 but got %s", b.String())
	}
	b.Reset()
	WriteHex32(&b, 0x3F20_1000)
	if b.String() != "3F201000" {
		t.Errorf("expected 3F201000 but got %s", b.String())
	}
}

func TestErrorCodes(t *testing.T) {
	if ErrUARTTaken.Subsystem() != DeviceSubsystem || ErrUARTTaken.Number() != DeviceUARTTaken {
		t.Errorf("uart taken decoded as %d/%d", ErrUARTTaken.Subsystem(), ErrUARTTaken.Number())
	}
	if ErrBadLayout.Subsystem() != BootSubsystem {
		t.Errorf("bad layout is in the wrong subsystem")
	}
	wrapped := fmt.Errorf("taking the uart: %w", ErrUARTTaken)
	if !errors.Is(wrapped, ErrUARTTaken) {
		t.Errorf("expected wrapped error to match")
	}
	if errors.Is(wrapped, ErrGPIOTaken) {
		t.Errorf("uart and gpio errors must differ")
	}
	if Error(0x00ff_0000_0000_0099).Error() != "unknown error code" {
		t.Errorf("expected unknown error text")
	}
	if NoError.Error() != "no error" {
		t.Errorf("expected no error text")
	}
}
