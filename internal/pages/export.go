package pages

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/columns"
	"github.com/ndewijer/Portfolio-Admin-Dashboard/internal/model"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ContentType returns the MIME type of an export format.
func ContentType(format string) (string, error) {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8", nil
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidExportFormat, format)
	}
}

// Export writes the visible columns of a grid in the given format. Numeric
// cells are written as displayed.
func Export(w io.Writer, format string, grid Grid) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, grid)
	case FormatXLSX:
		return writeXLSX(w, grid)
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidExportFormat, format)
	}
}

func exportColumns(grid Grid) []columns.Column {
	out := make([]columns.Column, 0, len(grid.Columns))
	for _, c := range grid.Columns {
		if c.Hide || c.Field == model.FieldActions {
			continue
		}
		out = append(out, c)
	}
	return out
}

func header(c columns.Column) string {
	if c.HeaderName != "" {
		return c.HeaderName
	}
	return c.Field
}

func cellText(row GridRow, c columns.Column) string {
	if text, ok := row.Display[c.Field]; ok {
		return text
	}
	return row.Data.String(c.Field)
}

func writeCSV(w io.Writer, grid Grid) error {
	cols := exportColumns(grid)
	cw := csv.NewWriter(w)

	record := make([]string, len(cols))
	for i, c := range cols {
		record[i] = header(c)
	}
	if err := cw.Write(record); err != nil {
		return err
	}
	for _, row := range grid.Rows {
		for i, c := range cols {
			record[i] = cellText(row, c)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, grid Grid) error {
	cols := exportColumns(grid)
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}

	values := make([]any, len(cols))
	for i, c := range cols {
		values[i] = header(c)
	}
	if err := sw.SetRow("A1", values); err != nil {
		return err
	}

	for n, row := range grid.Rows {
		values := make([]any, len(cols))
		for i, c := range cols {
			values[i] = cellText(row, c)
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
