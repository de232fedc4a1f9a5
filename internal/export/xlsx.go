package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
)

const sheetName = "Sessions"

var header = []any{"ID", "Date", "User", "Session", "Start", "End", "Duration", "Description", "Project", "Category", "Status", "Approved State", "Approved By"}

// WriteXLSX writes records as a workbook with a totals row under the data
func WriteXLSX(w io.Writer, records []models.Record) error {
	f, err := build(records)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// ToXLSX writes records to the workbook file at path
func ToXLSX(records []models.Record, path string) error {
	f, err := build(records)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func build(records []models.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	var total int64
	for i, r := range records {
		row := []any{
			r.RecordID, r.Date, r.UserName, r.SessionNo, r.StartTime, r.EndTime, r.Duration,
			r.WorkDescription, r.Project, r.Category, r.Status, r.ApprovedState, r.ApprovedBy,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
		total += parser.ParseDurationToSeconds(r.Duration)
	}

	totalRow := len(records) + 2
	labelCell, _ := excelize.CoordinatesToCellName(6, totalRow)
	valueCell, _ := excelize.CoordinatesToCellName(7, totalRow)
	if err := f.SetCellValue(sheetName, labelCell, "Total"); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellValue(sheetName, valueCell, parser.FormatDurationSeconds(total)); err != nil {
		f.Close()
		return nil, err
	}

	lastCol, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastCol, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, labelCell, valueCell, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "G", "H", 26); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
