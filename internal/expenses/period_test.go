package expenses

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/gastos-api/internal/models"
)

func TestParsePeriod(t *testing.T) {
	p, fields := ParsePeriod("2024", "3")
	require.Nil(t, fields)
	assert.Equal(t, models.Period{Year: 2024, Month: 3}, p)

	_, fields = ParsePeriod("2024", "13")
	assert.Contains(t, fields, "mes")

	_, fields = ParsePeriod("x", "0")
	assert.Contains(t, fields, "ano")
	assert.Contains(t, fields, "mes")
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(models.Period{Year: 2024, Month: 12}, time.UTC)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)

	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	start, _ = MonthRange(models.Period{Year: 2024, Month: 3}, sp)
	assert.Equal(t, time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC), start.UTC())
}
