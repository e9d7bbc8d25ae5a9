package bootsim

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"earlyboot/src/hardware/bcm2835"
)

// Divisors implements subcommands.Command for the "divisors" command.
type Divisors struct {
	clock uint
	baud  uint
}

// Name implements subcommands.Command.Name.
func (*Divisors) Name() string {
	return "divisors"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Divisors) Synopsis() string {
	return "compute the PL011 baud rate divisors for a clock and baud rate"
}

// Usage implements subcommands.Command.Usage.
func (*Divisors) Usage() string {
	return `divisors [-clock <hz>] [-baud <rate>]
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (d *Divisors) SetFlags(f *flag.FlagSet) {
	f.UintVar(&d.clock, "clock", 48_000_000, "UART reference clock in Hz")
	f.UintVar(&d.baud, "baud", 115200, "baud rate")
}

// Execute implements subcommands.Command.Execute.
func (d *Divisors) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	log := args[0].(*logrus.Logger)
	if err := WriteDivisors(os.Stdout, uint32(d.clock), uint32(d.baud)); err != nil {
		log.Errorf("clock %d baud %d: %v", d.clock, d.baud, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// WriteDivisors prints IBRD and FBRD and how close they get to baud.
func WriteDivisors(w io.Writer, clock, baud uint32) error {
	ibrd, fbrd, err := bcm2835.Divisors(clock, baud)
	if err != nil {
		return err
	}
	actual := float64(clock) / (16 * (float64(ibrd) + float64(fbrd)/64))
	fmt.Fprintf(w, "IBRD=%d FBRD=%d actual=%.1f error=%+.3f%%\n", ibrd, fbrd, actual,
		100*(actual-float64(baud))/float64(baud))
	return nil
}
