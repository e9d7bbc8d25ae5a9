//go:build linux

package main

import (
	"github.com/google/subcommands"

	"earlyboot/src/tools/bootsim"
)

func registerPlatform() {
	subcommands.Register(&bootsim.Probe{}, "hardware")
}
