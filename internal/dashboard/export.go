package dashboard

import (
	"bytes"
	"fmt"
	"strings"

	"costbook-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const salesSheet = "Sales"

var salesHeader = []string{"Sale ID", "Date", "Items", "Total", "Profit", "Payment method"}

// ExportSalesXLSX writes one row per sale under a highlighted header row.
func ExportSalesXLSX(sales []models.Sale) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F97316"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, h := range salesHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(salesSheet, cell, h); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(salesHeader), 1)
	if err := f.SetCellStyle(salesSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for r, s := range sales {
		row := []any{
			s.ID,
			s.Date.Format("2006-01-02 15:04"),
			itemsSummary(s.Items),
			s.Total,
			s.Profit,
			string(s.PaymentMethod),
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(salesSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(salesSheet, "A", "A", 38)
	_ = f.SetColWidth(salesSheet, "B", "B", 18)
	_ = f.SetColWidth(salesSheet, "C", "C", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func itemsSummary(items []models.SaleItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		name := it.RecipeName
		if name == "" {
			name = "Item"
		}
		parts = append(parts, fmt.Sprintf("%gx %s", it.Quantity, name))
	}
	return strings.Join(parts, "; ")
}
