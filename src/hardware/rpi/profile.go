// Package rpi describes the Raspberry Pi boards we know how to bring up.  A
// Profile carries everything that differs between them: where the peripherals
// are, the UART clock, and the boot memory layout.
package rpi

import (
	"fmt"

	"earlyboot/src/boot/descent"
)

type Profile struct {
	Name             string `yaml:"name" toml:"name"`
	PeripheralBase   uint64 `yaml:"peripheral_base" toml:"peripheral_base"`
	GPIOOffset       uint64 `yaml:"gpio_offset" toml:"gpio_offset"`
	UARTOffset       uint64 `yaml:"uart_offset" toml:"uart_offset"`
	UARTClock        uint32 `yaml:"uart_clock" toml:"uart_clock"`
	BaudRate         uint32 `yaml:"baud_rate" toml:"baud_rate"`
	LoadAddress      uint64 `yaml:"load_address" toml:"load_address"`
	ReloadVector     uint64 `yaml:"reload_vector" toml:"reload_vector"`
	KernelEntry      uint64 `yaml:"kernel_entry" toml:"kernel_entry"`
	EL1Stack         uint64 `yaml:"el1_stack" toml:"el1_stack"`
	PullSettleCycles int    `yaml:"pull_settle_cycles" toml:"pull_settle_cycles"`
	// FirmwareLevel is the exception level the firmware starts the kernel in.
	FirmwareLevel int `yaml:"firmware_level" toml:"firmware_level"`
}

const pageSize = 0x1000

// DefaultPullSettleCycles is the GPPUD set-up and hold time from the BCM2835
// datasheet.  Older Pi bring-up code spins 2000; a profile can ask for that
// with pull_settle_cycles.
const DefaultPullSettleCycles = 150

var builtins = []Profile{
	{
		Name:             "rpi3",
		PeripheralBase:   0x3F00_0000,
		GPIOOffset:       0x20_0000,
		UARTOffset:       0x20_1000,
		UARTClock:        48_000_000,
		BaudRate:         115200,
		LoadAddress:      0x8_0000,
		ReloadVector:     0x8_0000,
		KernelEntry:      0x8_0800,
		EL1Stack:         0x8_0000,
		PullSettleCycles: DefaultPullSettleCycles,
		FirmwareLevel:    3,
	},
	{
		// qemu's raspi3b starts the kernel at EL2
		Name:             "rpi3-qemu",
		PeripheralBase:   0x3F00_0000,
		GPIOOffset:       0x20_0000,
		UARTOffset:       0x20_1000,
		UARTClock:        48_000_000,
		BaudRate:         115200,
		LoadAddress:      0x8_0000,
		ReloadVector:     0x8_0000,
		KernelEntry:      0x8_0800,
		EL1Stack:         0x8_0000,
		PullSettleCycles: DefaultPullSettleCycles,
		FirmwareLevel:    2,
	},
	{
		Name:             "rpi4",
		PeripheralBase:   0xFE00_0000,
		GPIOOffset:       0x20_0000,
		UARTOffset:       0x20_1000,
		UARTClock:        48_000_000,
		BaudRate:         115200,
		LoadAddress:      0x8_0000,
		ReloadVector:     0x8_0000,
		KernelEntry:      0x8_0800,
		EL1Stack:         0x8_0000,
		PullSettleCycles: DefaultPullSettleCycles,
		FirmwareLevel:    2,
	},
}

// Builtins returns copies of the profiles compiled in.
func Builtins() []Profile {
	result := make([]Profile, len(builtins))
	copy(result, builtins)
	return result
}

// Builtin finds a compiled in profile by name.
func Builtin(name string) (Profile, bool) {
	for _, p := range builtins {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Validate checks that a profile can boot at all.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	if p.PeripheralBase == 0 {
		return fmt.Errorf("profile %s: no peripheral base", p.Name)
	}
	if p.UARTClock == 0 || p.BaudRate == 0 {
		return fmt.Errorf("profile %s: uart clock and baud rate must be set", p.Name)
	}
	if p.LoadAddress%pageSize != 0 {
		return fmt.Errorf("profile %s: load address %#x is not page aligned", p.Name, p.LoadAddress)
	}
	if p.FirmwareLevel < 1 || p.FirmwareLevel > 3 {
		return fmt.Errorf("profile %s: firmware level %d is not EL1, EL2 or EL3", p.Name, p.FirmwareLevel)
	}
	if p.PullSettleCycles < 0 {
		return fmt.Errorf("profile %s: negative pull settle cycles", p.Name)
	}
	if err := p.Layout().Validate(); err != nil {
		return fmt.Errorf("profile %s: reload %#x entry %#x stack %#x: %w",
			p.Name, p.ReloadVector, p.KernelEntry, p.EL1Stack, err)
	}
	return nil
}

// Layout is the part of the profile the exception level descent needs.
func (p Profile) Layout() descent.Layout {
	return descent.Layout{
		ReloadVector: p.ReloadVector,
		KernelEntry:  p.KernelEntry,
		EL1Stack:     p.EL1Stack,
	}
}
