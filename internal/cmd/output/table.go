package output

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault leaves alignment to the table writer.
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data is a result laid out as table rows.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // optional, one per column
	// WideFrom hides the columns from this index on unless the table is
	// wide. Zero shows every column.
	WideFrom int
}

// visible returns d trimmed to the columns a narrow or wide table shows.
func (d Data) visible(wide bool) Data {
	if wide || d.WideFrom <= 0 || d.WideFrom >= len(d.Headers) {
		return d
	}
	n := d.WideFrom
	out := Data{Headers: d.Headers[:n]}
	if len(d.ColumnAlignment) > n {
		out.ColumnAlignment = d.ColumnAlignment[:n]
	} else {
		out.ColumnAlignment = d.ColumnAlignment
	}
	out.Rows = make([][]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		if len(row) > n {
			row = row[:n]
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// TableFormatter outputs table format.
type TableFormatter struct {
	Wide bool
}

// Format renders Data directly. Structs and slices of structs are laid out
// by their json field names; anything else falls back to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if d, ok := data.(Data); ok {
		return f.render(w, d.visible(f.Wide))
	}
	if d, ok := reflectData(data); ok {
		return f.render(w, d)
	}
	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

func (f *TableFormatter) render(w io.Writer, data Data) error {
	config := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		align := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			align[i] = a.tw()
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: align}
		config.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	if len(data.Headers) > 0 {
		table.Header(cells(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := table.Append(cells(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func (a Align) tw() tw.Align {
	switch a {
	case AlignLeft:
		return tw.AlignLeft
	case AlignCenter:
		return tw.AlignCenter
	case AlignRight:
		return tw.AlignRight
	default:
		return tw.Skip
	}
}

func cells(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// reflectData lays out a struct as property rows, or a non-empty slice of
// structs as one row per element.
func reflectData(data any) (Data, bool) {
	v := reflect.Indirect(reflect.ValueOf(data))
	switch {
	case !v.IsValid():
		return Data{}, false
	case v.Kind() == reflect.Struct:
		fields := exportedFields(v.Type())
		d := Data{Headers: []string{"Property", "Value"}}
		for _, i := range fields {
			d.Rows = append(d.Rows, []string{columnName(v.Type().Field(i)), cell(v.Field(i))})
		}
		return d, true
	case v.Kind() == reflect.Slice && v.Len() > 0:
		elemType := v.Type().Elem()
		if elemType.Kind() == reflect.Pointer {
			elemType = elemType.Elem()
		}
		if elemType.Kind() != reflect.Struct {
			return Data{}, false
		}
		fields := exportedFields(elemType)
		d := Data{}
		for _, i := range fields {
			d.Headers = append(d.Headers, columnName(elemType.Field(i)))
		}
		for n := 0; n < v.Len(); n++ {
			elem := reflect.Indirect(v.Index(n))
			row := make([]string, 0, len(fields))
			for _, i := range fields {
				if !elem.IsValid() {
					row = append(row, "")
					continue
				}
				row = append(row, cell(elem.Field(i)))
			}
			d.Rows = append(d.Rows, row)
		}
		return d, true
	default:
		return Data{}, false
	}
}

func exportedFields(t reflect.Type) []int {
	var out []int
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && f.Tag.Get("json") != "-" {
			out = append(out, i)
		}
	}
	return out
}

// columnName titles a field's json name: "stat_records" becomes "Stat Records".
func columnName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

func cell(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	return fmt.Sprintf("%v", v.Interface())
}
