package render

import (
	"io"

	"github.com/xuri/excelize/v2"

	"linkmap/internal/core/aggregate"
)

// SheetName is the worksheet holding the aggregate
const SheetName = "Connections"

// XLSX writes a single sheet workbook with the aggregate table
func XLSX(w io.Writer, counts []aggregate.Count) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}
	header := []any{aggregate.ColCountry, aggregate.ColConnections}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, c := range counts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{c.Country, c.Connections}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 28); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}
