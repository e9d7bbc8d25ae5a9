package sysdec

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strings"
	"text/template"

	"earlyboot/src/lib/regdef"
)

// UserOptions control the generated file.
type UserOptions struct {
	Pkg     string //package to emit into
	OutTags string //build constraint expression, copied verbatim
}

const constantsTemplateText = `// Code generated by sysdec from the {{.Name}} catalog. DO NOT EDIT.

{{if .Tags}}//go:build {{.Tags}}

{{end}}package {{.Package}}
{{if .Base}}
// {{.Name}}_Base is the offset of {{.Name}} from the peripheral base.
const {{.Name}}_Base = {{hex .Base}}
{{end}}
{{- range .Registers}}
// {{.Name}}: {{.Description}}
const (
{{- if .HasOffset}}
	{{.Ident}}_Offset = {{hex .Offset}}
{{- end}}
{{- range .Fields}}
	{{.Ident}}_Mask  = {{hex .Mask}}
	{{.Ident}}_Shift = {{.Shift}}
{{- range .Values}}
	{{.Ident}} = {{hex .Value}}
{{- end}}
{{- end}}
)
{{end}}`

var constantsTemplate = template.Must(template.New("constants").Funcs(template.FuncMap{
	"hex": func(v interface{}) string { return fmt.Sprintf("%#x", v) },
}).Parse(constantsTemplateText))

type peripheralView struct {
	Name      string
	Package   string
	Tags      string
	Base      int
	Registers []registerView
}

type registerView struct {
	Name        string
	Description string
	Ident       string
	HasOffset   bool
	Offset      int
	Fields      []fieldView
}

type fieldView struct {
	Ident  string
	Mask   uint64
	Shift  int
	Values []valueView
}

type valueView struct {
	Ident string
	Value uint64
}

func ident(parts ...string) string {
	return strings.Join(parts, "_")
}

// first line only, comments in the output are single line
func summary(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

func view(p *regdef.PeripheralDef, opts UserOptions) peripheralView {
	v := peripheralView{Name: p.Name, Package: opts.Pkg, Tags: opts.OutTags}
	if !p.System {
		v.Base = p.AddressBlock.BaseAddress
	}
	for _, r := range p.Registers {
		rv := registerView{
			Name:        r.Name,
			Description: summary(r.Description),
			Ident:       ident(p.Name, r.Name),
			HasOffset:   !p.System,
			Offset:      r.AddressOffset,
		}
		for _, f := range r.Fields {
			fv := fieldView{
				Ident: ident(p.Name, r.Name, f.Name),
				Mask:  f.BitRange.Mask(),
				Shift: f.BitRange.Lsb,
			}
			for _, e := range f.EnumeratedValue {
				fv.Values = append(fv.Values, valueView{Ident: ident(p.Name, r.Name, f.Name, e.Name), Value: e.Value})
			}
			rv.Fields = append(rv.Fields, fv)
		}
		v.Registers = append(v.Registers, rv)
	}
	return v
}

// GenerateConstants writes a gofmt'd Go file of offsets, masks, shifts and
// enumerated values for p.
func GenerateConstants(w io.Writer, p *regdef.PeripheralDef, opts UserOptions) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("refusing to generate from an invalid catalog: %w", err)
	}
	if opts.Pkg == "" {
		opts.Pkg = "main"
	}
	var output bytes.Buffer
	if err := constantsTemplate.Execute(&output, view(p, opts)); err != nil {
		return fmt.Errorf("running constants template: %w", err)
	}
	formatted, err := format.Source(output.Bytes())
	if err != nil {
		return fmt.Errorf("formatting generated code: %w", err)
	}
	_, err = w.Write(formatted)
	return err
}
