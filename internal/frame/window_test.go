package frame

import (
	"errors"
	"testing"

	"energydash/internal/engine"
	"energydash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterChartRows(t *testing.T) {
	rows := []models.ChartRow{
		{Year: 1980, Value: 1.5, SeriesLabel: "A"},
		{Year: 1981, Value: 2.25, SeriesLabel: "A"},
		{Year: 2021, Value: 3, SeriesLabel: "A"},
		{Year: 2022, Value: 4, SeriesLabel: "A"},
		{Year: 1995, Value: 7.125, SeriesLabel: "B"},
	}

	got, err := FilterChartRows(rows, YearRange{From: 1980, To: 2022})
	require.NoError(t, err)

	assert.Equal(t, []models.ChartRow{
		{Year: 1981, Value: 2.25, SeriesLabel: "A"},
		{Year: 2021, Value: 3, SeriesLabel: "A"},
		{Year: 1995, Value: 7.125, SeriesLabel: "B"},
	}, got)
}

func TestFilterChartRows_NothingLeft(t *testing.T) {
	rows := []models.ChartRow{{Year: 1950, Value: 1, SeriesLabel: "A"}}

	got, err := FilterChartRows(rows, YearRange{From: 1980, To: 2022})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = FilterChartRows(nil, YearRange{From: 1980, To: 2022})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFilterChartRows_LabelsKeptVerbatim(t *testing.T) {
	rows := []models.ChartRow{
		{Year: 2000, Value: 1.5, SeriesLabel: "NA"},
		{Year: 2001, Value: 2, SeriesLabel: "NaN"},
		{Year: 2002, Value: 3, SeriesLabel: "Namibia"},
		{Year: 2003, Value: 4, SeriesLabel: ""},
	}

	got, err := FilterChartRows(rows, YearRange{From: 1980, To: 2022})
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestYearRange_Inverted(t *testing.T) {
	err := YearRange{From: 2010, To: 2000}.Validate()
	var inv *engine.InvalidSelectionError
	require.True(t, errors.As(err, &inv))

	_, err = FilterChartRows([]models.ChartRow{{Year: 2005}}, YearRange{From: 2010, To: 2000})
	require.True(t, errors.As(err, &inv))
}
