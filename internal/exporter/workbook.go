package exporter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"runcharts/internal/dataset"
	apperrors "runcharts/internal/errors"
)

// defaultSheet is the sheet excelize creates with every new file
const defaultSheet = "Sheet1"

// Sheet is one pivot table written to a named worksheet
type Sheet struct {
	Name  string
	Pivot *dataset.PivotTable
}

// WriteWorkbook writes each pivot table to its own worksheet of a new
// workbook at path, replacing any existing file. The index column name goes
// in A1, column keys across row 1 and row keys down column A. Undefined
// cells are left empty.
func WriteWorkbook(path string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return apperrors.NewStorageError("workbook needs at least one sheet", nil).WithContext("file", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	seen := make(map[string]bool, len(sheets))
	for i, sh := range sheets {
		if seen[sh.Name] {
			return apperrors.NewStorageError(fmt.Sprintf("duplicate sheet %q", sh.Name), nil).WithContext("file", path)
		}
		seen[sh.Name] = true

		idx, err := f.NewSheet(sh.Name)
		if err != nil {
			return apperrors.NewStorageError("create sheet", err).WithContext("sheet", sh.Name)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writePivot(f, sh.Name, sh.Pivot); err != nil {
			return apperrors.NewStorageError("write sheet", err).WithContext("sheet", sh.Name)
		}
	}

	if !seen[defaultSheet] {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return apperrors.NewStorageError("remove default sheet", err).WithContext("file", path)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("save workbook", err).WithContext("file", path)
	}
	return nil
}

func writePivot(f *excelize.File, sheet string, p *dataset.PivotTable) error {
	if err := f.SetCellValue(sheet, "A1", p.Index); err != nil {
		return err
	}

	for c, key := range p.ColKeys {
		cell, err := excelize.CoordinatesToCellName(c+2, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, keyValue(key)); err != nil {
			return err
		}
	}

	for i, key := range p.RowKeys {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, keyValue(key)); err != nil {
			return err
		}

		for c, v := range p.Cells[i] {
			if math.IsNaN(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+2, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// keyValue stores numeric keys as numbers so spreadsheets sort them
// correctly
func keyValue(key string) interface{} {
	if v, err := strconv.ParseFloat(key, 64); err == nil {
		return v
	}
	return key
}
