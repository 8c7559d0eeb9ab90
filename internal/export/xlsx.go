// Package export writes table rows in download formats.
package export

import (
	"fmt"
	"io"

	"energydash/internal/models"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes a single-sheet workbook: a header row of column names,
// then one row per table row. Cells a row lacks are left blank.
func WriteXLSX(w io.Writer, sheet string, columns []models.Column, rows []models.TableRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("xlsx sheet name: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Name); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, 16); err != nil {
			return fmt.Errorf("xlsx column width: %w", err)
		}
	}

	for r, row := range rows {
		for c, col := range columns {
			value, ok := cellValue(row, col.ID)
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("xlsx row %d: %w", r, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// cellValue resolves a column id against a row; "year" is the row's year.
func cellValue(row models.TableRow, id string) (interface{}, bool) {
	if id == YearColumn {
		return row.Year, true
	}
	v, ok := row.Cells[id]
	return v, ok
}

// YearColumn is the id of the leading year column of every table.
const YearColumn = "year"
