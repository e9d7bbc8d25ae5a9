package regdef

import "strings"

type AccessDef struct {
	read  bool
	write bool
	isSet bool //did they explictly set the field
}

func (a AccessDef) CanRead() bool {
	return a.read
}
func (a AccessDef) CanWrite() bool {
	return a.write
}
func (a AccessDef) IsSet() bool {
	return a.isSet
}

// Access converts "r", "w" or "rw" into an AccessDef.  Anything else is a bug
// in a register catalog and panics.
func Access(s string) AccessDef {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	var a AccessDef
	switch s {
	case "r":
		a.read = true
		a.isSet = true
	case "w":
		a.write = true
		a.isSet = true
	case "rw":
		a.write = true
		a.read = true
		a.isSet = true
	default:
		panic("unable to understand Access value:" + s)
	}
	return a
}

func (a AccessDef) String() string {
	switch {
	case a.read && a.write:
		return "rw"
	case a.write:
		return "w"
	case a.read:
		return "r"
	}
	return "unset"
}
