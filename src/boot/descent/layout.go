package descent

import "earlyboot/src/lib/upbeat"

// Layout holds the addresses the descent needs.  None of them are known to the
// state machine itself; they come from the board profile on the host and from
// linker symbols on the board.
type Layout struct {
	// ReloadVector is where execution resumes at EL2 after leaving EL3.  It is
	// normally the image's own entry point, so the descent runs again one
	// level lower.
	ReloadVector uint64
	// KernelEntry is where execution resumes at EL1.
	KernelEntry uint64
	// EL1Stack is the initial SP_EL1.
	EL1Stack uint64
}

// Validate rejects layouts that cannot work on AArch64: instruction addresses
// must be word aligned and the stack pointer 16 byte aligned.
func (l Layout) Validate() error {
	if l.ReloadVector == 0 || l.ReloadVector&0x3 != 0 {
		return upbeat.ErrBadLayout
	}
	if l.KernelEntry == 0 || l.KernelEntry&0x3 != 0 {
		return upbeat.ErrBadLayout
	}
	if l.EL1Stack == 0 || l.EL1Stack&0xf != 0 {
		return upbeat.ErrBadLayout
	}
	return nil
}
