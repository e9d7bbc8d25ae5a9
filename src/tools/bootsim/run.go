package bootsim

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	arm "earlyboot/src/hardware/arm-cortex-a53"
	"earlyboot/src/hardware/rpi"
	"earlyboot/src/hardware/sim"
	"earlyboot/src/kernel"
)

// Run implements subcommands.Command for the "run" command.
type Run struct {
	profile string
	level   int
	trace   bool
}

// Name implements subcommands.Command.Name.
func (*Run) Name() string {
	return "run"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Run) Synopsis() string {
	return "boot the kernel on a simulated board and show what it did"
}

// Usage implements subcommands.Command.Usage.
func (*Run) Usage() string {
	return `run [-profile <name or file>] [-el <level>] [-trace]
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (r *Run) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.profile, "profile", rpi.DefaultBase, "built in profile name, or a .yaml/.toml profile file")
	f.IntVar(&r.level, "el", 0, "exception level to start in, 0 for the profile's firmware level")
	f.BoolVar(&r.trace, "trace", false, "print every register write")
}

// Execute implements subcommands.Command.Execute.
func (r *Run) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	log := args[0].(*logrus.Logger)
	p, err := rpi.Find(r.profile)
	if err != nil {
		log.Errorf("loading profile: %v", err)
		return subcommands.ExitFailure
	}
	level := arm.ExceptionLevel(p.FirmwareLevel)
	if r.level != 0 {
		level = arm.ExceptionLevel(r.level)
	}
	report, err := Simulate(p, level, log)
	if report != nil {
		PrintReport(os.Stdout, report, r.trace)
	}
	if err != nil {
		log.Errorf("simulated boot failed: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// Simulate boots the kernel on a simulated board described by p, starting at
// level.
func Simulate(p rpi.Profile, level arm.ExceptionLevel, log *logrus.Logger) (*sim.Report, error) {
	if level > arm.EL3 || level < arm.EL1 {
		return nil, fmt.Errorf("cannot start at %s", level)
	}
	m, err := sim.NewMachine(p, level, log)
	if err != nil {
		return nil, err
	}
	env := kernel.Env{Registry: m.Registry, CPU: m.CPU, Profile: p}
	m.LoadImage(func() { kernel.Main(env) })
	log.WithFields(logrus.Fields{"profile": p.Name, "level": level.String()}).Info("booting")
	return m.Boot()
}

// PrintReport writes the exception returns, the final state and the UART
// output of a simulated boot.
func PrintReport(w io.Writer, report *sim.Report, trace bool) {
	for i, ret := range report.Returns {
		fmt.Fprintf(w, "eret %d: %s -> %s at %#x (%s)\n", i+1, ret.From, ret.To, ret.PC,
			arm.SPSR_EL2.Describe(ret.SPSR))
	}
	fmt.Fprintf(w, "final: %s sp=%#x halted=%v\n", report.FinalLevel, report.SP, report.Halted)
	if trace {
		for _, a := range report.Trace {
			fmt.Fprintf(w, "  %s\n", a)
		}
	}
	fmt.Fprintf(w, "uart:\n%s", report.Output)
}
