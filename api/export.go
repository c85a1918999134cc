package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/marciomartinho/minhas-financas/database"
	"github.com/marciomartinho/minhas-financas/models"

	"github.com/gin-gonic/gin"
)

// ExportHandler exports entries as CSV or Excel
type ExportHandler struct{}

// NewExportHandler creates an export handler
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

func (h *ExportHandler) rangeEntries(c *gin.Context) ([]models.Entry, string, string, bool) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		BadRequest(c, "start_date and end_date are required")
		return nil, "", "", false
	}

	start, err := parseDate(startStr)
	if err != nil {
		BadRequest(c, "start_date must be formatted as 2006-01-02")
		return nil, "", "", false
	}
	end, err := parseDate(endStr)
	if err != nil {
		BadRequest(c, "end_date must be formatted as 2006-01-02")
		return nil, "", "", false
	}

	var entries []models.Entry
	err = database.DB.Preload("Account").Preload("Category").Preload("Card").
		Where("due_date >= ? AND due_date <= ?", start, end).
		Order("due_date, id").
		Find(&entries).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return nil, "", "", false
	}
	return entries, startStr, endStr, true
}

func entryRow(e *models.Entry) []string {
	account := e.Account.Name
	category := ""
	if e.Category != nil {
		category = e.Category.Name
	}
	card := ""
	if e.Card != nil {
		card = e.Card.Name
	}
	payment := ""
	if e.PaymentDate != nil {
		payment = e.PaymentDate.Format("2006-01-02")
	}
	return []string{
		fmt.Sprintf("%d", e.ID),
		e.Description,
		e.Kind,
		e.Status,
		e.Amount.StringFixed(2),
		e.DueDate.Format("2006-01-02"),
		payment,
		account,
		category,
		card,
		e.Tag,
	}
}

var exportHeaders = []string{
	"ID", "Description", "Kind", "Status", "Amount",
	"Due Date", "Payment Date", "Account", "Category", "Card", "Tag",
}

// CSV exports entries in a date range as a CSV file
// @Summary Export entries as CSV
// @Description Exports entries due in the date range as a UTF-8 CSV file with a BOM so spreadsheets detect the encoding.
// @Tags export
// @Produce text/csv
// @Param start_date query string true "start date (2026-01-01)"
// @Param end_date query string true "end date (2026-12-31)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} Response "missing or malformed range"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	entries, startStr, endStr, ok := h.rangeEntries(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM so Excel detects UTF-8
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "failed to generate CSV")
		return
	}
	for i := range entries {
		if err := writer.Write(entryRow(&entries[i])); err != nil {
			InternalError(c, "failed to generate CSV")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("entries_%s_%s.csv", startStr, endStr)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Excel exports entries in a date range as an XLSX workbook
// @Summary Export entries as Excel
// @Description Exports entries due in the date range as a styled XLSX workbook with a totals row.
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string true "start date (2026-01-01)"
// @Param end_date query string true "end date (2026-12-31)"
// @Success 200 {file} file "XLSX file"
// @Failure 400 {object} Response "missing or malformed range"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) Excel(c *gin.Context) {
	entries, startStr, endStr, ok := h.rangeEntries(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Entries"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "F", "G", 14)
	f.SetColWidth(sheetName, "H", "J", 18)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	for i := range entries {
		row := i + 2
		for col, value := range entryRow(&entries[i]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, value)
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), dataStyle)
	}

	summaryRow := len(entries) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Total")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("D%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), sumSigned(entries).StringFixed(2))
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", summaryRow), fmt.Sprintf("%d entries", len(entries)))
	f.MergeCell(sheetName, fmt.Sprintf("F%d", summaryRow), fmt.Sprintf("%s%d", lastCol, summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("%s%d", lastCol, summaryRow), summaryStyle)

	filename := fmt.Sprintf("entries_%s_%s.xlsx", startStr, endStr)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "failed to generate Excel file")
		return
	}
}

// sumSigned nets the range: income adds, expenses and card charges
// subtract, transfers cancel out.
func sumSigned(entries []models.Entry) decimal.Decimal {
	total := decimal.Zero
	for i := range entries {
		e := &entries[i]
		if rule, ok := models.KindRules[e.Kind]; ok && e.Kind != models.KindTransfer {
			total = total.Add(e.Amount.Mul(decimal.NewFromInt(int64(rule.Sign))))
		}
	}
	return total
}
