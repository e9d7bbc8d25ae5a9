// Package listen follows the diagnostic output of a board over its serial
// line, one log entry per line of output.
package listen

import (
	"bufio"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// PanicPrefix starts the line the kernel writes when it gives up.
const PanicPrefix = "PANIC: "

// Follow logs each line read from r until r ends or, with stopOnPanic, a
// panic line has been seen together with the line after it.  It reports
// whether the board panicked.
func Follow(r io.Reader, log *logrus.Logger, stopOnPanic bool) (bool, error) {
	scanner := bufio.NewScanner(r)
	panicked := false
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if panicked && stopOnPanic {
			log.Error(line)
			return true, nil
		}
		if strings.HasPrefix(line, PanicPrefix) {
			panicked = true
			log.Error(line)
			continue
		}
		log.Info(line)
	}
	return panicked, scanner.Err()
}
