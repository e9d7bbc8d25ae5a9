package sysdec

import (
	"fmt"
	"io"
	"text/tabwriter"

	"earlyboot/src/lib/regdef"
)

// Dump writes p as a table, one line per register followed by its fields.
func Dump(w io.Writer, p *regdef.PeripheralDef) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if p.System {
		fmt.Fprintf(tw, "%s (system registers)\n", p.Name)
	} else {
		fmt.Fprintf(tw, "%s at peripheral base+%#x, %#x bytes\n", p.Name, p.AddressBlock.BaseAddress, p.AddressBlock.Size)
	}
	for _, r := range p.Registers {
		offset := ""
		if !p.System {
			offset = fmt.Sprintf("%#04x", r.AddressOffset)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d bits\t%s\n", offset, r.Name, r.Access, r.Size, summary(r.Description))
		for _, f := range r.Fields {
			values := ""
			for i, e := range f.EnumeratedValue {
				if i > 0 {
					values += " "
				}
				values += fmt.Sprintf("%s=%d", e.Name, e.Value)
			}
			fmt.Fprintf(tw, "\t  %s\t%s\t\t%s\n", f.Name, f.BitRange, values)
		}
	}
	return tw.Flush()
}
