//go:build rpi3

package rpi

//This file is for things that are specific to the *model* Raspberry Pi 3 and
//are different on other rpi models.
const MemoryMappedIO = uintptr(0x3F000000)
const Target = "rpi3"
