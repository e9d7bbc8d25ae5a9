//go:build linux

package bootsim

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"earlyboot/src/hardware/bcm2835"
	"earlyboot/src/hardware/devmem"
	"earlyboot/src/hardware/rpi"
)

// Probe implements subcommands.Command for the "probe" command.
type Probe struct {
	profile string
	mem     string
	message string
}

// Name implements subcommands.Command.Name.
func (*Probe) Name() string {
	return "probe"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Probe) Synopsis() string {
	return "run the GPIO and UART drivers from Linux on a real Pi (needs /dev/mem)"
}

// Usage implements subcommands.Command.Usage.
func (*Probe) Usage() string {
	return `probe [-profile auto|<name or file>] [-mem /dev/mem] [-message <text>]

Routes UART0 to GPIO 14/15, initializes it and writes one line.  Linux must
not be using the PL011 at the same time.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (p *Probe) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.profile, "profile", "auto", "profile, or auto to pick one from /proc/cpuinfo")
	f.StringVar(&p.mem, "mem", "/dev/mem", "physical memory device, indexed by physical address")
	f.StringVar(&p.message, "message", "earlyboot probe", "line to transmit")
}

// Execute implements subcommands.Command.Execute.
func (p *Probe) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	log := args[0].(*logrus.Logger)
	profile, err := p.findProfile(log)
	if err != nil {
		log.Errorf("choosing a profile: %v", err)
		return subcommands.ExitFailure
	}
	cfg := bcm2835.ConfigFor(profile)
	regions, err := hardwareRegions(p.mem, cfg)
	if err != nil {
		log.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	bus, err := devmem.Open(p.mem, regions...)
	if err != nil {
		log.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	defer bus.Close()

	registry, err := bcm2835.NewRegistry(bus, cfg)
	if err != nil {
		log.Errorf("profile %s: %v", profile.Name, err)
		return subcommands.ExitFailure
	}
	gpio, _ := registry.TakeGpio()
	gpio.ConfigureUARTAlternateFunction()
	uart, _ := registry.TakeUart()
	uart.WriteLine(p.message)
	uart.Flush()
	log.WithFields(logrus.Fields{"profile": profile.Name, "uart": fmt.Sprintf("%#x", cfg.UARTBase)}).Info("line sent")
	return subcommands.ExitSuccess
}

// hardwareRegions lays out the GPIO and UART windows in mem.  Only a file indexed
// by physical address will do: /dev/gpiomem starts at the GPIO block and has
// no UART in it.
func hardwareRegions(mem string, cfg bcm2835.Config) ([]devmem.Region, error) {
	if filepath.Base(mem) == "gpiomem" {
		return nil, fmt.Errorf("%s maps only the GPIO block, probing the UART needs /dev/mem", mem)
	}
	return []devmem.Region{
		{Phys: cfg.GPIOBase, Size: 0x1000, Offset: int64(cfg.GPIOBase)},
		{Phys: cfg.UARTBase, Size: 0x1000, Offset: int64(cfg.UARTBase)},
	}, nil
}

func (p *Probe) findProfile(log *logrus.Logger) (rpi.Profile, error) {
	if p.profile != "auto" {
		return rpi.Find(p.profile)
	}
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return rpi.Profile{}, err
	}
	defer f.Close()
	revision, err := CPUInfoRevision(f)
	if err != nil {
		return rpi.Profile{}, err
	}
	log.Infof("board revision %s: %s", revision, rpi.BoardRevisionDecode(revision))
	profile, ok := rpi.ProfileForRevision(revision)
	if !ok {
		return rpi.Profile{}, fmt.Errorf("no profile for board revision %s", revision)
	}
	return profile, nil
}
