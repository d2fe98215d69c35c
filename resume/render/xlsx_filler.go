package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"resume-ocr/resume/model"
)

// ErrSheetNotFound is returned when the template lacks the mapped sheet.
var ErrSheetNotFound = errors.New("template sheet not found")

// XLSXContentType is the MIME type of the produced workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Fill writes data into a copy of the template and returns the workbook bytes.
// Unset fields leave the template cell as is. Lists write one row per entry
// and only stop early when the region sets MaxRows.
func Fill(data model.ExtractedResumeData, template []byte, m Mapping) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(m.Sheet)
	if err != nil {
		return nil, fmt.Errorf("lookup sheet %q: %w", m.Sheet, err)
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, m.Sheet)
	}

	for _, target := range m.Cells {
		value, ok := data.Scalar(target.Field)
		if !ok {
			continue
		}
		if err := f.SetCellValue(m.Sheet, target.Cell, m.cellValue(value)); err != nil {
			return nil, fmt.Errorf("write %s to %s: %w", target.Field, target.Cell, err)
		}
	}

	for _, region := range m.Regions {
		if err := writeRegion(f, m.Sheet, region, data.List(region.Field)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRegion(f *excelize.File, sheet string, region Region, entries []model.Entry) error {
	for i, e := range entries {
		if region.MaxRows > 0 && i >= region.MaxRows {
			break
		}
		row := region.StartRow + i
		values := [][2]string{
			{region.Year, e.Year},
			{region.Month, e.Month},
			{region.Description, e.Description},
		}
		for _, v := range values {
			cell, err := excelize.JoinCellName(v[0], row)
			if err != nil {
				return fmt.Errorf("%s row %d: %w", region.Field, row, err)
			}
			if err := f.SetCellStr(sheet, cell, v[1]); err != nil {
				return fmt.Errorf("write %s to %s: %w", region.Field, cell, err)
			}
		}
	}
	return nil
}

func (m Mapping) cellValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return m.TrueText
		}
		return m.FalseText
	}
	return v
}
