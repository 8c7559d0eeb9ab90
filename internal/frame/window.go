// Package frame applies the dashboard's year slider to reshaped chart rows.
package frame

import (
	"fmt"

	"energydash/internal/engine"
	"energydash/internal/models"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// YearRange is a slider selection. Both bounds are exclusive: a range of
// 1980..2022 keeps 1981 through 2021.
type YearRange struct {
	From int
	To   int
}

func (yr YearRange) Validate() error {
	if yr.From > yr.To {
		return &engine.InvalidSelectionError{Reason: fmt.Sprintf("year range %d..%d is inverted", yr.From, yr.To)}
	}
	return nil
}

// yearRecord is the dataframe layout used for filtering: the row's year and
// its position in the input. Labels and values stay in the input slice so
// they are never parsed by the dataframe.
type yearRecord struct {
	Year int
	Idx  int
}

// FilterChartRows keeps the chart rows whose year falls inside yr,
// preserving their order.
func FilterChartRows(rows []models.ChartRow, yr YearRange) ([]models.ChartRow, error) {
	if err := yr.Validate(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	records := make([]yearRecord, len(rows))
	for i, r := range rows {
		records[i] = yearRecord{Year: r.Year, Idx: i}
	}

	df := dataframe.LoadStructs(records).
		Filter(dataframe.F{Colname: "Year", Comparator: series.Greater, Comparando: yr.From}).
		Filter(dataframe.F{Colname: "Year", Comparator: series.Less, Comparando: yr.To})
	if df.Err != nil {
		return nil, fmt.Errorf("filter chart rows: %w", df.Err)
	}

	idx, err := df.Col("Idx").Int()
	if err != nil {
		return nil, fmt.Errorf("filter chart rows: %w", err)
	}

	out := make([]models.ChartRow, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out, nil
}
