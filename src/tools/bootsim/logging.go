// Package bootsim holds the subcommands of the bootsim host tool: simulated
// boots, divisor arithmetic, board profiles, and poking a real Pi's UART from
// Linux.
package bootsim

import (
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// NewLogger is the tool's logger: text to stderr, coloured only when stderr is
// a terminal.
func NewLogger(verbose int) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: !term.IsTerminal(int(os.Stderr.Fd())),
		FullTimestamp: true,
	})
	switch {
	case verbose >= 2:
		log.SetLevel(logrus.TraceLevel)
	case verbose == 1:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
