// Package trust is the on-board logger.  Messages go to a sink, normally the
// UART, once the kernel has one; until then they are dropped.
package trust

import (
	"fmt"
	"io"
)

var sink io.Writer = io.Discard

var halt = func() {
	for {
	}
}

// SetSink directs log output to w and returns the previous sink.  A nil w
// drops everything.
func SetSink(w io.Writer) io.Writer {
	prev := sink
	if w == nil {
		w = io.Discard
	}
	sink = w
	return prev
}

// SetHalt replaces what Fatalf does after printing.  On the board that is the
// CPU halt.
func SetHalt(fn func()) {
	halt = fn
}

func logf(prefix string, format string, params ...interface{}) {
	io.WriteString(sink, prefix)
	if len(format) == 0 || format[len(format)-1] != '\n' {
		format += "\n"
	}
	io.WriteString(sink, fmt.Sprintf(format, params...))
}

//Fatalf prints the given log message (format + params) and then halts.
func Fatalf(format string, params ...interface{}) {
	logf("FATAL:", format, params...)
	halt()
}

//Warnf prints the given log message for something that is wrong but not
//wrong enough to stop.
func Warnf(format string, params ...interface{}) {
	logf(" WARN:", format, params...)
}

//Infof prints the given log message (format + params).
func Infof(format string, params ...interface{}) {
	logf(" INFO:", format, params...)
}
