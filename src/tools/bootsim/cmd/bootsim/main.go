package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"earlyboot/src/tools/bootsim"
)

var verbose = flag.Int("v", 0, "verbosity level: 0 info (default), 1 debug, 2 every register access")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&bootsim.Run{}, "")
	subcommands.Register(&bootsim.Divisors{}, "")
	subcommands.Register(&bootsim.Profiles{}, "")
	registerPlatform()

	flag.Parse()
	log := bootsim.NewLogger(*verbose)
	os.Exit(int(subcommands.Execute(context.Background(), log)))
}
