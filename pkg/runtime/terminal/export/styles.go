package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	headerColor = "B8CCE4"
	doneColor   = "C6EFCE"
	borderColor = "000000"
)

type dataStyleKey struct {
	indent int
	done   bool
}

// styleSet creates each distinct style once per workbook
type styleSet struct {
	f           *excelize.File
	headerStyle int
	dataStyles  map[dataStyleKey]int
}

func newStyleSet(f *excelize.File) *styleSet {
	return &styleSet{
		f:           f,
		headerStyle: -1,
		dataStyles:  make(map[dataStyleKey]int),
	}
}

func rowRange(excelRow int) (string, string) {
	first, _ := excelize.CoordinatesToCellName(1, excelRow)
	last, _ := excelize.CoordinatesToCellName(lastColumnIndex+1, excelRow)
	return first, last
}

func (s *styleSet) header(excelRow int) error {
	if s.headerStyle < 0 {
		id, err := s.f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
			Font: &excelize.Font{Bold: true, Size: 11, Color: borderColor},
			Border: []excelize.Border{
				{Type: "top", Color: borderColor, Style: 1},
				{Type: "bottom", Color: borderColor, Style: 1},
				{Type: "left", Color: borderColor, Style: 1},
				{Type: "right", Color: borderColor, Style: 1},
			},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		s.headerStyle = id
	}

	first, last := rowRange(excelRow)
	if err := s.f.MergeCell(sheetName, first, last); err != nil {
		return fmt.Errorf("failed to merge header row %d: %w", excelRow, err)
	}
	return s.f.SetCellStyle(sheetName, first, last, s.headerStyle)
}

func (s *styleSet) data(excelRow, indent int, done bool) error {
	key := dataStyleKey{indent: indent, done: done}
	id, ok := s.dataStyles[key]
	if !ok {
		style := &excelize.Style{
			Alignment: &excelize.Alignment{
				Horizontal: "left",
				Vertical:   "top",
				WrapText:   true,
				Indent:     indent,
			},
		}
		if done {
			style.Fill = excelize.Fill{Type: "pattern", Color: []string{doneColor}, Pattern: 1}
		}

		var err error
		id, err = s.f.NewStyle(style)
		if err != nil {
			return fmt.Errorf("failed to create row style: %w", err)
		}
		s.dataStyles[key] = id
	}

	first, last := rowRange(excelRow)
	return s.f.SetCellStyle(sheetName, first, last, id)
}
