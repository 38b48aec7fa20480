// Package export renders tabular data as CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"strings"
)

// Format is an output format for a table export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts csv or xlsx in any case; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Table is a header plus rows of cell values. Supported cell types are
// strings, integers, floats, bools, time.Time and nil.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Write renders table to w in the given format.
func Write(w io.Writer, format Format, table Table) error {
	switch format {
	case FormatCSV:
		e := NewCSVExporter(w, DefaultCSVOptions())
		if err := e.WriteHeader(table.Columns); err != nil {
			return err
		}
		if err := e.WriteRows(table.Rows); err != nil {
			return err
		}
		return e.Flush()
	case FormatXLSX:
		opts := DefaultExcelOptions()
		if table.Name != "" {
			opts.SheetName = table.Name
		}
		e := NewExcelExporter(opts)
		defer e.Close()
		if err := e.WriteHeader(table.Columns); err != nil {
			return err
		}
		if err := e.WriteRows(table.Rows, len(table.Columns)); err != nil {
			return err
		}
		return e.WriteTo(w)
	}
	return fmt.Errorf("unsupported export format %q", format)
}
