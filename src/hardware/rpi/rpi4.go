//go:build rpi4

package rpi

const MemoryMappedIO = uintptr(0xFE000000)
const Target = "rpi4"
