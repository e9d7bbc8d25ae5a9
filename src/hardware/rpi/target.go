//go:build rpi3 || rpi3_qemu || rpi4

package rpi

// TargetProfile is the profile of the board selected by build tag, with the
// peripheral window taken from the board constant.
func TargetProfile() Profile {
	p, ok := Builtin(Target)
	if !ok {
		panic("no profile for target " + Target)
	}
	p.PeripheralBase = uint64(MemoryMappedIO)
	return p
}
