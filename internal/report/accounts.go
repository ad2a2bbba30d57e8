package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

const (
	accountsSheet = "Users"
	emptyCell     = "-"
)

var ErrNoAccounts = errors.New("failed to generate report, 0 accounts were provided")

var accountHeaders = []string{
	"First Name", "Last Name", "Username", "Email", "Password", "Role", "WhatsApp", "Press Name", "Status",
}

var pdfHeaders = []string{"First Name", "Last Name", "Username", "Email", "Password", "Role", "Status"}

// AccountRow is one account as it appears in exports.
type AccountRow struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Role      string
	WhatsApp  string
	PressName string
	Status    string
}

func orDash(s string) string {
	if s == "" {
		return emptyCell
	}
	return s
}

func (r AccountRow) cells() []interface{} {
	return []interface{}{
		r.FirstName,
		r.LastName,
		r.Username,
		r.Email,
		orDash(r.Password),
		r.Role,
		orDash(r.WhatsApp),
		orDash(r.PressName),
		r.Status,
	}
}

func (r AccountRow) pdfCells() []string {
	return []string{r.FirstName, r.LastName, r.Username, r.Email, orDash(r.Password), r.Role, r.Status}
}

// AccountsXLSX renders the account list as a single sheet workbook.
func AccountsXLSX(rows []AccountRow) (*bytes.Buffer, error) {
	if len(rows) == 0 {
		return nil, ErrNoAccounts
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", accountsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := file.SetSheetRow(accountsSheet, "A1", &accountHeaders); err != nil {
		return nil, fmt.Errorf("failed to set header row: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(accountHeaders))
	if err := file.SetCellStyle(accountsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}
	if err := file.SetColWidth(accountsSheet, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := file.SetColWidth(accountsSheet, "D", "D", 32); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		data := row.cells()
		if err := file.SetSheetRow(accountsSheet, cell, &data); err != nil {
			return nil, fmt.Errorf("failed to add row %d: %w", i+2, err)
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer, nil
}

// AccountsPDF renders the account list as a landscape table. Contact and
// press name columns are left out.
func AccountsPDF(rows []AccountRow) (*bytes.Buffer, error) {
	if len(rows) == 0 {
		return nil, ErrNoAccounts
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	widths := []float64{35, 35, 30, 70, 35, 25, 25}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "User List", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(79, 129, 189)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range pdfHeaders {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for i, c := range row.pdfCells() {
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return &buf, nil
}
