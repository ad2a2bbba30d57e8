package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const minImportColumns = 4

// ImportRow is one data row of an account upload. Line is the 1-based sheet
// row number.
type ImportRow struct {
	Line          int
	FirstName     string
	LastName      string
	Email         string
	ContactNumber string
	PressName     string
	Category      string
}

// ParseAccountRows reads the active sheet of an uploaded workbook. The first
// row is a header. Columns are first name, last name, email, contact number,
// then optionally press name and category.
func ParseAccountRows(r io.Reader) ([]ImportRow, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	sheet := file.GetSheetName(file.GetActiveSheetIndex())
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var out []ImportRow
	for i, cells := range rows {
		if i == 0 {
			continue
		}
		// trailing empty cells are trimmed by excelize
		for len(cells) < minImportColumns {
			cells = append(cells, "")
		}
		out = append(out, ImportRow{
			Line:          i + 1,
			FirstName:     cell(cells, 0),
			LastName:      cell(cells, 1),
			Email:         cell(cells, 2),
			ContactNumber: cell(cells, 3),
			PressName:     cell(cells, 4),
			Category:      cell(cells, 5),
		})
	}
	return out, nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// SheetNames lists the sheets of a workbook in order.
func SheetNames(r io.Reader) ([]string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	return file.GetSheetList(), nil
}
