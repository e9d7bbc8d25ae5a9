package rpi

import "strings"

// BoardRevisionDecode turns the revision code the firmware reports (as found in
// /proc/cpuinfo) into a description of the board.
func BoardRevisionDecode(s string) string {
	switch s {
	case "9020e0":
		return "3A+, Revision 1.0, 512MB, Sony UK"
	case "a02082":
		return "3B, Revision 1.2, 1GB, Sony UK"
	case "a020d3":
		return "3B+, Revision 1.3, 1GB, Sony UK"
	case "a22082":
		return "3B, Revision 1.2, 1GB, Embest"
	case "a220a0":
		return "CM3, Revision 1.0, 1GB, Embest"
	case "a32082":
		return "3B, Revision 1.2, 1GB, Sony Japan"
	case "a52082":
		return "3B, Revision 1.2, 1GB, Stadium"
	case "a22083":
		return "3B, Revision 1.3, 1GB, Embest"
	case "a02100":
		return "CM3+, Revision 1.0, 1GB, Sony UK"
	case "a03111":
		return "4B, Revision 1.1, 2GB, Sony UK"
	case "b03111":
		return "4B, Revision 1.2, 2GB, Sony UK"
	case "b03112":
		return "4B, Revision 1.2, 2GB, Sony UK"
	case "c03111":
		return "4B, Revision 1.1, 4GB, Sony UK"
	case "c03112":
		return "4B, Revision 1.2, 4GB, Sony UK"
	}
	return "unknown board"
}

// ProfileForRevision picks the built in profile for a revision code.
func ProfileForRevision(s string) (Profile, bool) {
	board := BoardRevisionDecode(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	switch {
	case strings.HasPrefix(board, "3"), strings.HasPrefix(board, "CM3"):
		return Builtin("rpi3")
	case strings.HasPrefix(board, "4"):
		return Builtin("rpi4")
	}
	return Profile{}, false
}
