// Package output renders analysis records in the formats the CLI exposes:
// json, yaml, and a human-readable table.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Tabular is implemented by values that can render themselves as rows
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}

// Formatter writes a value to w in one concrete format
type Formatter interface {
	Format(w io.Writer, v any) error
}

// NewFormatter returns the formatter for the given format name
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "json":
		return &JSONFormatter{Indent: "  "}, nil
	case "yaml":
		return &YAMLFormatter{}, nil
	case "table":
		return &TableFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}

// JSONFormatter writes indented JSON
type JSONFormatter struct {
	Indent string
}

func (f *JSONFormatter) Format(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	return enc.Encode(v)
}

// YAMLFormatter writes YAML documents
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}

// TableFormatter writes an aligned text table. The value must implement
// Tabular.
type TableFormatter struct{}

func (f *TableFormatter) Format(w io.Writer, v any) error {
	t, ok := v.(Tabular)
	if !ok {
		return fmt.Errorf("value of type %T cannot be rendered as a table", v)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeRow(tw, t.TableHeader())
	for _, row := range t.TableRows() {
		writeRow(tw, row)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprintln(w)
}
