//go:build rpi3_qemu

package rpi

const MemoryMappedIO = uintptr(0x3F000000)
const Target = "rpi3-qemu"
