//go:build tinygo && (rpi3 || rpi3_qemu || rpi4)

// Package tinygo_runtime supplies the hooks a bare metal TinyGo program must
// provide: the C entry point, console output for print and panic, and what to
// do on abort.  Import it for its side effects.
package tinygo_runtime

import (
	"unsafe"

	"github.com/tinygo-org/tinygo/src/runtime"

	"earlyboot/src/kernel"
)

//go:extern _sbss
var _sbss [0]byte

//go:extern _ebss
var _ebss [0]byte

//export runtime.external_putchar
func putchar(c uint8) {
	if u := kernel.Console(); u != nil {
		u.WriteByte(c)
	}
}

//export runtime.export_preinit
func preinit() {
	// start.S runs us once per exception level on the way down; nothing in
	// .bss survives an eret that we rely on
	ptr := unsafe.Pointer(&_sbss)
	for ptr != unsafe.Pointer(&_ebss) {
		*(*uint8)(ptr) = 0
		ptr = unsafe.Pointer(uintptr(ptr) + 1)
	}
}

//export main
func main() {
	runtime.Run()
}

//export runtime.external_postinit
func postinit() {
}

//export runtime.external_abort
func abort() {
	kernel.Panic(kernel.TargetEnv(), "runtime abort")
}

//export runtime.external_ticks
func external_ticks() uint64 {
	return uint64(0)
}

//export runtime.external_sleep_ticks
func external_sleep_ticks(d uint64) {
	return
}
