package main

import (
	"flag"
	"os"

	"github.com/mattn/go-tty"

	"earlyboot/src/tools/bootsim"
	"earlyboot/src/tools/listen"
)

var device = flag.String("d", "/dev/ttyUSB0", "serial device the board's UART0 is wired to")
var stop = flag.Bool("p", true, "stop after the kernel reports a panic")
var verbose = flag.Int("v", 0, "verbosity level: 0 info (default), 1 debug")

// the line speed is not ours to set, go-tty only does raw mode; use
// stty -F <device> 115200 first
func main() {
	flag.Parse()
	log := bootsim.NewLogger(*verbose)

	ttyObj, err := tty.OpenDevice(*device)
	if err != nil {
		log.Fatalf("opening %s: %v", *device, err)
	}
	restore := ttyObj.MustRaw()
	defer ttyObj.Close()
	defer restore()

	log.Infof("listening on %s", *device)
	panicked, err := listen.Follow(ttyObj.Input(), log, *stop)
	if err != nil {
		log.Errorf("reading %s: %v", *device, err)
		os.Exit(1)
	}
	if panicked {
		restore()
		ttyObj.Close()
		os.Exit(2)
	}
}
