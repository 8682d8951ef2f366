package expenses

import (
	"strconv"
	"time"

	"github.com/ayush/gastos-api/internal/models"
)

// ParsePeriod parses the {ano}/{mes} path segments. Month is 1-based.
func ParsePeriod(ano, mes string) (models.Period, map[string]string) {
	fields := map[string]string{}
	year, err := strconv.Atoi(ano)
	if err != nil || year < 1 || year > 9999 {
		fields["ano"] = "must be a year between 1 and 9999"
	}
	month, err := strconv.Atoi(mes)
	if err != nil || month < 1 || month > 12 {
		fields["mes"] = "must be a month between 1 and 12"
	}
	if len(fields) > 0 {
		return models.Period{}, fields
	}
	return models.Period{Year: year, Month: month}, nil
}

// MonthRange returns the half-open interval [start, end) covering p in loc.
func MonthRange(p models.Period, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
