package history

import (
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/njchilds90/integralcalc/internal/calcerr"
)

const xlsxSheet = "Sheet1"

var xlsxHeader = []interface{}{"Function", "Lower", "Upper", "Indefinite", "Definite", "Value"}

// ExportXLSX writes a spreadsheet with a header row and one row per record.
// The Value column is numeric when the definite result parses.
func (s *Store) ExportXLSX(path string) error {
	records := s.Records()
	if len(records) == 0 {
		return ErrEmpty
	}
	f := excelize.NewFile()
	defer f.Close()

	fail := func(err error) error { return calcerr.IOError("history.export_xlsx", path, err) }

	if err := f.SetSheetRow(xlsxSheet, "A1", &xlsxHeader); err != nil {
		return fail(err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fail(err)
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", "F1", bold); err != nil {
		return fail(err)
	}
	for i, r := range records {
		row := []interface{}{r.Function, r.Lower, r.Upper, r.Indefinite, r.Definite, nil}
		if v, ok := r.Number(); ok {
			row[5] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fail(err)
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fail(err)
		}
	}
	if err := f.SetColWidth(xlsxSheet, "A", "E", 24); err != nil {
		return fail(err)
	}
	if err := f.SaveAs(path); err != nil {
		return fail(err)
	}
	s.log.Info("xlsx report exported", zap.String("path", path), zap.Int("records", len(records)))
	return nil
}
