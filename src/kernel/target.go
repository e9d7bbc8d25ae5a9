//go:build tinygo && (rpi3 || rpi3_qemu || rpi4)

package kernel

import (
	arm "earlyboot/src/hardware/arm-cortex-a53"
	"earlyboot/src/hardware/bcm2835"
	"earlyboot/src/hardware/rpi"
)

// TargetEnv is the board this image was built for.
func TargetEnv() Env {
	return Env{
		Registry: bcm2835.Default,
		CPU:      arm.Hardware,
		Profile:  rpi.TargetProfile(),
	}
}
