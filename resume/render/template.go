package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DefaultTemplate builds a blank, labelled workbook laid out for m. It is used
// when no template file is configured.
func DefaultTemplate(m Mapping) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), m.Sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	styles, err := registerStyles(f)
	if err != nil {
		return nil, fmt.Errorf("register styles: %w", err)
	}

	set := func(cell, text, style string) error {
		if err := f.SetCellStr(m.Sheet, cell, text); err != nil {
			return err
		}
		return f.SetCellStyle(m.Sheet, cell, cell, styles[style])
	}

	if err := set("A1", "履歴書", "title"); err != nil {
		return nil, err
	}
	for _, target := range m.Cells {
		col, row, err := excelize.CellNameToCoordinates(target.Cell)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(m.Sheet, target.Cell, target.Cell, styles["value"]); err != nil {
			return nil, err
		}
		if col < 2 || target.Label == "" {
			continue
		}
		labelCell, err := excelize.CoordinatesToCellName(col-1, row)
		if err != nil {
			return nil, err
		}
		if err := set(labelCell, target.Label, "label"); err != nil {
			return nil, err
		}
	}
	for _, region := range m.Regions {
		if region.StartRow < 2 {
			continue
		}
		header := region.StartRow - 1
		for _, h := range [][2]string{{region.Year, "年"}, {region.Month, "月"}, {region.Description, region.Title}} {
			cell, err := excelize.JoinCellName(h[0], header)
			if err != nil {
				return nil, err
			}
			if err := set(cell, h[1], "heading"); err != nil {
				return nil, err
			}
		}
		if err := f.SetColWidth(m.Sheet, region.Description, region.Description, 40); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize template: %w", err)
	}
	return buf.Bytes(), nil
}
