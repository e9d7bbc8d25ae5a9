package bootsim

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// CPUInfoRevision finds the "Revision" line of /proc/cpuinfo.
func CPUInfoRevision(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if ok && strings.TrimSpace(key) == "Revision" {
			return strings.TrimSpace(value), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no Revision in cpuinfo, not a Raspberry Pi?")
}
