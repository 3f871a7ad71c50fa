package roster

import (
	"github.com/xuri/excelize/v2"
)

const (
	ExportSheet       = "Positions"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeaders = []interface{}{"Department ID", "Department", "Position ID", "Position", "Headcount"}

// buildWorkbook renders one row per position under a bold header row.
func buildWorkbook(r PositionRoster) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(ExportSheet, "A1", "E1", style); err != nil {
		return nil, err
	}

	for i, p := range r.Positions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{p.DeptID, p.DepartmentName, p.PosID, p.PositionName, p.Headcount}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(ExportSheet, "B", "B", 30)
	_ = f.SetColWidth(ExportSheet, "D", "D", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
