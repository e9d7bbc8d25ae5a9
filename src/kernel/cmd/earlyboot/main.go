//go:build tinygo && (rpi3 || rpi3_qemu || rpi4)

// earlyboot is the kernel image.  Firmware jumps to _start (targets/start.S),
// which calls main here once per exception level until the processor is at
// EL1 and kernel_main runs.
package main

import (
	"unsafe"

	"earlyboot/src/boot/descent"
	arm "earlyboot/src/hardware/arm-cortex-a53"
	"earlyboot/src/kernel"
	_ "earlyboot/src/tinygo_runtime"
)

// set by targets/<board>.ld
//
//go:extern _start
var _start [0]byte

//go:extern _kernel_entry
var _kernel_entry [0]byte

//go:extern _stack_top
var _stack_top [0]byte

func layout() descent.Layout {
	return descent.Layout{
		ReloadVector: uint64(uintptr(unsafe.Pointer(&_start))),
		KernelEntry:  uint64(uintptr(unsafe.Pointer(&_kernel_entry))),
		EL1Stack:     uint64(uintptr(unsafe.Pointer(&_stack_top))),
	}
}

func main() {
	descent.Enter(arm.Hardware, layout(), kernelMain)
}

//export kernel_main
func kernelMain() {
	kernel.Main(kernel.TargetEnv())
}
