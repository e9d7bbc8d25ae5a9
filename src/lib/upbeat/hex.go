package upbeat

import "io"

// WriteHex32 writes d as eight upper case hex digits, no prefix.
func WriteHex32(w io.ByteWriter, d uint32) error {
	return writeHex(w, uint64(d), 32)
}

// WriteHex64 writes d as sixteen upper case hex digits, no prefix.
func WriteHex64(w io.ByteWriter, d uint64) error {
	return writeHex(w, d, 64)
}

func writeHex(w io.ByteWriter, d uint64, width uint) error {
	var rc uint64
	rb := width
	for {
		rb -= 4
		rc = (d >> rb) & 0xF
		if rc > 9 {
			rc += 0x37
		} else {
			rc += 0x30
		}
		if err := w.WriteByte(uint8(rc)); err != nil {
			return err
		}
		if rb == 0 {
			break
		}
	}
	return nil
}
