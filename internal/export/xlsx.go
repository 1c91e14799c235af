package export

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const defaultSheetName = "Sheet1"

// WriteXLSX 写出单工作表的 XLSX，数值列保持数值类型
func WriteXLSX(w io.Writer, sheet string, table Table) error {
	if table.Empty() {
		return ErrNothingToExport
	}
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		sheet = defaultSheetName
	}
	if sheet != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, sheet); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r := range table.Rows {
		values := make([]interface{}, len(table.Headers))
		for c := range table.Headers {
			cell := table.Value(r, c)
			if cell.IsNumeric() {
				values[c] = cell.number.InexactFloat64()
			} else {
				values[c] = cell.text
			}
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &values); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
