// Package export writes PEAK A-U rows as CSV or XLSX import files.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	SheetName = "PEAK"

	// Excel's built-in "@" text number format.
	textNumFmt = 49
)

// utf8BOM lets Excel recognise the CSV's Thai text as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", dto.ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Filename() string {
	return "peak_import." + string(f)
}

// Write encodes rows in the given format.
func Write(w io.Writer, f Format, rows []dto.PeakRow) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	}
	return fmt.Errorf("%w: %q", dto.ErrUnsupportedFormat, f)
}

// WriteCSV writes a UTF-8 CSV with the Thai PEAK headers.
func WriteCSV(w io.Writer, rows []dto.PeakRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := gocsv.Marshal(escapeRows(rows), w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook. Every cell is stored as text so
// tax IDs and the 00000 branch keep their leading zeros.
func WriteXLSX(w io.Writer, rows []dto.PeakRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	textStyle, err := f.NewStyle(&excelize.Style{NumFmt: textNumFmt})
	if err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		NumFmt: textNumFmt,
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(dto.Columns))
	if err := f.SetColStyle(SheetName, "A:"+lastCol, textStyle); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	for i, col := range dto.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(SheetName, cell, col.Header); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	for r, row := range escapeRows(rows) {
		for c, v := range row.Values() {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellStr(SheetName, cell, v); err != nil {
				return fmt.Errorf("write xlsx: %w", err)
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	if err := f.AutoFilter(SheetName, "A1:"+lastCol+"1", nil); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// EscapeCell stops spreadsheet applications from evaluating a value as a
// formula.
func EscapeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func escapeRows(rows []dto.PeakRow) []dto.PeakRow {
	out := make([]dto.PeakRow, len(rows))
	for i, row := range rows {
		values := row.Values()
		for j, v := range values {
			values[j] = EscapeCell(v)
		}
		out[i] = dto.RowFromValues(values)
	}
	return out
}
