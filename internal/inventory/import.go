package inventory

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"costbook-backend/internal/models"
	"costbook-backend/internal/receipt"

	"github.com/xuri/excelize/v2"
)

// Sheet columns: name | unit | package price | package size | current stock | min stock alert.
// Only name and unit are required.
const (
	colName = iota
	colUnit
	colPackagePrice
	colPackageSize
	colCurrentStock
	colMinStockAlert
)

type ImportRow struct {
	Row           int // 1-based sheet row
	Name          string
	Unit          models.Unit
	PackagePrice  float64
	PackageSize   float64
	CurrentStock  float64
	MinStockAlert float64
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ReadIngredientSheet parses the first sheet of an xlsx workbook.
func ReadIngredientSheet(r io.Reader) ([]ImportRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet: %w", err)
	}

	parsed, rowErrs := ParseIngredientRows(rows)
	return parsed, rowErrs, nil
}

// ParseIngredientRows skips a header row and blank rows. Numbers accept
// both 1234.56 and 1.234,56.
func ParseIngredientRows(rows [][]string) ([]ImportRow, []RowError) {
	var (
		out  []ImportRow
		errs []RowError
	)

	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		name := cell(row, colName)
		if name == "" {
			continue
		}

		r := ImportRow{Row: i + 1, Name: name, Unit: models.Unit(strings.ToLower(cell(row, colUnit)))}
		if !r.Unit.Valid() {
			errs = append(errs, RowError{Row: r.Row, Message: fmt.Sprintf("unknown unit %q", cell(row, colUnit))})
			continue
		}

		var bad string
		for _, f := range []struct {
			col  int
			name string
			dst  *float64
		}{
			{colPackagePrice, "package price", &r.PackagePrice},
			{colPackageSize, "package size", &r.PackageSize},
			{colCurrentStock, "current stock", &r.CurrentStock},
			{colMinStockAlert, "min stock alert", &r.MinStockAlert},
		} {
			v, err := parseNumber(cell(row, f.col))
			if err != nil || v < 0 {
				bad = f.name
				break
			}
			*f.dst = v
		}
		if bad != "" {
			errs = append(errs, RowError{Row: r.Row, Message: "invalid " + bad})
			continue
		}

		out = append(out, r)
	}
	return out, errs
}

func isHeader(row []string) bool {
	first := receipt.Fold(cell(row, colName))
	return strings.Contains(first, "name") || strings.Contains(first, "ingredient") || strings.Contains(first, "nome")
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// parseNumber treats an empty cell as 0.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return 0, nil
	}
	if strings.Contains(s, ",") {
		// 1.234,56 -> 1234.56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}
