package bootsim

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"earlyboot/src/hardware/rpi"
)

// Profiles implements subcommands.Command for the "profiles" command.
type Profiles struct {
	format string
}

// Name implements subcommands.Command.Name.
func (*Profiles) Name() string {
	return "profiles"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Profiles) Synopsis() string {
	return "list the built in board profiles, or print one as a starting point for a profile file"
}

// Usage implements subcommands.Command.Usage.
func (*Profiles) Usage() string {
	return `profiles [-format table|yaml|toml] [name]
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (p *Profiles) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.format, "format", "table", "table, yaml or toml")
}

// Execute implements subcommands.Command.Execute.
func (p *Profiles) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	log := args[0].(*logrus.Logger)
	profiles := rpi.Builtins()
	if f.NArg() > 0 {
		found, err := rpi.Find(f.Arg(0))
		if err != nil {
			log.Errorf("%v", err)
			return subcommands.ExitFailure
		}
		profiles = []rpi.Profile{found}
	}
	if err := WriteProfiles(os.Stdout, profiles, p.format); err != nil {
		log.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// WriteProfiles renders profiles in format.  The yaml and toml forms can be
// loaded back with rpi.Load.
func WriteProfiles(w io.Writer, profiles []rpi.Profile, format string) error {
	switch format {
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPERIPHERALS\tUART CLOCK\tBAUD\tLOAD\tENTRY EL")
		for _, p := range profiles {
			fmt.Fprintf(tw, "%s\t%#x\t%d\t%d\t%#x\tEL%d\n", p.Name, p.PeripheralBase, p.UARTClock,
				p.BaudRate, p.LoadAddress, p.FirmwareLevel)
		}
		return tw.Flush()
	case "yaml":
		enc := yaml.NewEncoder(w)
		for _, p := range profiles {
			if err := enc.Encode(p); err != nil {
				return fmt.Errorf("encoding %s: %w", p.Name, err)
			}
		}
		return enc.Close()
	case "toml":
		for i, p := range profiles {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := toml.NewEncoder(w).Encode(p); err != nil {
				return fmt.Errorf("encoding %s: %w", p.Name, err)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
