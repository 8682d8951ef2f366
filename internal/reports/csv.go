package reports

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/ayush/gastos-api/internal/models"
)

var csvHeader = []string{"date", "description", "category", "status", "value"}

// RenderCSV writes one row per expense followed by a total row. Dates are rendered
// in loc as YYYY-MM-DD.
func RenderCSV(expenses []models.Expense, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}

	var total float64
	for _, e := range expenses {
		total += e.Value
		row := []string{
			e.Date.In(loc).Format(time.DateOnly),
			e.Description,
			e.Category,
			e.Status,
			formatValue(e.Value),
		}
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	if err := cw.Write([]string{"total", "", "", "", formatValue(total)}); err != nil {
		return nil, err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
