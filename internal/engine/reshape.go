package engine

import (
	"strconv"

	"energydash/internal/models"
)

// Reshaper turns dataset queries into chart rows and table rows.
type Reshaper struct {
	ds *Dataset
}

func NewReshaper(ds *Dataset) *Reshaper {
	return &Reshaper{ds: ds}
}

// Dataset exposes the index the reshaper reads from.
func (r *Reshaper) Dataset() *Dataset {
	return r.ds
}

// --- BY COUNTRY (one field, many countries) ---

// ByCountryChart emits one row per country-year where field is reported.
// Countries keep input order, years keep stored order.
func (r *Reshaper) ByCountryChart(countries []string, field string) ([]models.ChartRow, error) {
	series, err := r.lookupCountries(countries, field)
	if err != nil {
		return nil, err
	}

	rows := make([]models.ChartRow, 0)
	for i, country := range countries {
		for _, obs := range series[i] {
			if v, ok := obs.Value(field); ok {
				rows = append(rows, models.ChartRow{Year: obs.Year, Value: v, SeriesLabel: country})
			}
		}
	}
	return rows, nil
}

// ByCountryTable pivots the field into one column per country.
//
// With a single country every reported year is a row. With several, the
// first country anchors the rows: only its reported years appear, and each
// other country adds a column for the years it also reports.
func (r *Reshaper) ByCountryTable(countries []string, field string) ([]models.TableRow, error) {
	series, err := r.lookupCountries(countries, field)
	if err != nil {
		return nil, err
	}

	anchor := countries[0]
	rows := make([]models.TableRow, 0, len(series[0]))
	for _, obs := range series[0] {
		if v, ok := obs.Value(field); ok {
			rows = append(rows, models.TableRow{
				Year:  obs.Year,
				Cells: map[string]float64{anchor: RoundTenth(v)},
			})
		}
	}
	if len(countries) == 1 {
		return rows, nil
	}

	for i, country := range countries[1:] {
		byYear := yearIndex(series[i+1], field)
		for _, row := range rows {
			if v, ok := byYear[row.Year]; ok {
				row.Cells[country] = v
			}
		}
	}
	return rows, nil
}

// --- BY FUEL (many fields, one country) ---

// ByFuelChart emits one row per field-year where the country reports the
// field, labelled by field name. Fields keep input order.
func (r *Reshaper) ByFuelChart(country string, fields []string) ([]models.ChartRow, error) {
	obs, err := r.lookupFuels(country, fields)
	if err != nil {
		return nil, err
	}

	rows := make([]models.ChartRow, 0)
	for _, field := range fields {
		for _, o := range obs {
			if v, ok := o.Value(field); ok {
				rows = append(rows, models.ChartRow{Year: o.Year, Value: v, SeriesLabel: field})
			}
		}
	}
	return rows, nil
}

// ByFuelTable emits one row per stored year with a column for each
// requested field present that year. Years with none of the fields are
// skipped rather than emitted as a bare year.
func (r *Reshaper) ByFuelTable(country string, fields []string) ([]models.TableRow, error) {
	obs, err := r.lookupFuels(country, fields)
	if err != nil {
		return nil, err
	}

	rows := make([]models.TableRow, 0, len(obs))
	for _, o := range obs {
		row := models.TableRow{Year: o.Year, Cells: make(map[string]float64, len(fields))}
		for _, field := range fields {
			if v, ok := o.Value(field); ok {
				row.Cells[field] = RoundTenth(v)
			}
		}
		if row.Len() > 1 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// --- HELPERS ---

func (r *Reshaper) lookupCountries(countries []string, field string) ([][]Observation, error) {
	if len(countries) == 0 {
		return nil, invalidSelection("no countries selected")
	}
	if field == "" {
		return nil, invalidSelection("no field selected")
	}
	series := make([][]Observation, len(countries))
	for i, c := range countries {
		obs, err := r.ds.Observations(c)
		if err != nil {
			return nil, err
		}
		series[i] = obs
	}
	return series, nil
}

func (r *Reshaper) lookupFuels(country string, fields []string) ([]Observation, error) {
	if country == "" {
		return nil, invalidSelection("no country selected")
	}
	if len(fields) == 0 {
		return nil, invalidSelection("no fuel types selected")
	}
	for _, f := range fields {
		if f == "" {
			return nil, invalidSelection("empty fuel type")
		}
	}
	return r.ds.Observations(country)
}

// yearIndex maps year to the rounded field value. Later observations for
// the same year overwrite earlier ones.
func yearIndex(obs []Observation, field string) map[int]float64 {
	idx := make(map[int]float64, len(obs))
	for _, o := range obs {
		if v, ok := o.Value(field); ok {
			idx[o.Year] = RoundTenth(v)
		}
	}
	return idx
}

// RoundTenth rounds v to one decimal place. Ties on the exact binary value
// go to the even digit.
func RoundTenth(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return f
}
