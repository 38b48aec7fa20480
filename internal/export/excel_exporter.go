package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter exports rows to a single-sheet workbook
type ExcelExporter struct {
	file    *excelize.File
	options ExcelOptions
}

// ExcelOptions configures Excel export behavior
type ExcelOptions struct {
	SheetName       string
	FreezeHeader    bool
	AutoFilter      bool
	AutoWidth       bool
	TimestampFormat string
	HeaderFill      string
	HeaderFont      string
}

func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		SheetName:       "Export",
		FreezeHeader:    true,
		AutoFilter:      true,
		AutoWidth:       true,
		TimestampFormat: "yyyy-mm-dd hh:mm:ss",
		HeaderFill:      "4472C4",
		HeaderFont:      "FFFFFF",
	}
}

func NewExcelExporter(options ExcelOptions) *ExcelExporter {
	file := excelize.NewFile()
	file.SetSheetName("Sheet1", options.SheetName)
	return &ExcelExporter{file: file, options: options}
}

// WriteHeader writes the styled header row
func (e *ExcelExporter) WriteHeader(columns []string) error {
	sheet := e.options.SheetName

	styleID, err := e.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: e.options.HeaderFont},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{e.options.HeaderFill}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := e.file.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := e.file.SetCellStyle(sheet, cell, cell, styleID); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	if e.options.FreezeHeader {
		if err := e.file.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("failed to freeze header: %w", err)
		}
	}
	if e.options.AutoFilter && len(columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		if err := e.file.AutoFilter(sheet, "A1:"+last, nil); err != nil {
			return fmt.Errorf("failed to set auto filter: %w", err)
		}
	}
	return nil
}

// WriteRows writes data rows below the header
func (e *ExcelExporter) WriteRows(rows [][]any, columns int) error {
	sheet := e.options.SheetName

	timeStyle, err := e.file.NewStyle(&excelize.Style{CustomNumFmt: &e.options.TimestampFormat})
	if err != nil {
		return fmt.Errorf("failed to create timestamp style: %w", err)
	}

	widths := make([]float64, columns)
	for r, row := range rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := e.setCellValue(sheet, cell, val, timeStyle); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
			if c < columns {
				widths[c] = max(widths[c], estimateWidth(val))
			}
		}
	}

	if e.options.AutoWidth {
		for c, width := range widths {
			col, _ := excelize.ColumnNumberToName(c + 1)
			if err := e.file.SetColWidth(sheet, col, col, min(max(width, 10), 50)); err != nil {
				return fmt.Errorf("failed to set width of column %s: %w", col, err)
			}
		}
	}
	return nil
}

// WriteTo writes the workbook to w
func (e *ExcelExporter) WriteTo(w io.Writer) error {
	return e.file.Write(w)
}

func (e *ExcelExporter) Close() error {
	return e.file.Close()
}

func (e *ExcelExporter) setCellValue(sheet, cell string, val any, timeStyle int) error {
	switch v := val.(type) {
	case nil:
		return e.file.SetCellValue(sheet, cell, "")
	case *int64:
		if v == nil {
			return e.file.SetCellValue(sheet, cell, "")
		}
		return e.file.SetCellValue(sheet, cell, *v)
	case time.Time:
		if v.IsZero() {
			return e.file.SetCellValue(sheet, cell, "")
		}
		if err := e.file.SetCellValue(sheet, cell, v.UTC()); err != nil {
			return err
		}
		return e.file.SetCellStyle(sheet, cell, cell, timeStyle)
	case fmt.Stringer:
		return e.file.SetCellValue(sheet, cell, v.String())
	default:
		return e.file.SetCellValue(sheet, cell, v)
	}
}

func estimateWidth(val any) float64 {
	if val == nil {
		return 0
	}
	return float64(len(fmt.Sprintf("%v", val))) * 1.2
}
