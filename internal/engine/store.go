package engine

import "sort"

// Observation is one country-year record. Fields are sparse: a metric the
// source did not report for that year has no entry.
type Observation struct {
	Year   int
	Fields map[string]float64
}

// Value returns the field value and whether the observation reports it.
func (o Observation) Value(field string) (float64, bool) {
	v, ok := o.Fields[field]
	return v, ok
}

func (o Observation) Has(field string) bool {
	_, ok := o.Fields[field]
	return ok
}

// Series is the stored time series for one country, in file order.
type Series struct {
	Observations []Observation
}

// Dataset is the loaded energy dataset keyed by country name.
// It is built once by Load and never mutated afterwards, so it can be
// shared freely between request handlers.
type Dataset struct {
	countries map[string]*Series
	names     []string // sorted keys of countries
	numObs    int
}

// NewDataset builds a Dataset from already decoded series.
func NewDataset(series map[string]*Series) *Dataset {
	ds := &Dataset{
		countries: series,
		names:     make([]string, 0, len(series)),
	}
	for name, s := range series {
		ds.names = append(ds.names, name)
		ds.numObs += len(s.Observations)
	}
	sort.Strings(ds.names)
	return ds
}

// Len is the number of countries.
func (ds *Dataset) Len() int {
	return len(ds.names)
}

func (ds *Dataset) NumObservations() int {
	return ds.numObs
}

// Countries returns every country name in sorted order.
func (ds *Dataset) Countries() []string {
	out := make([]string, len(ds.names))
	copy(out, ds.names)
	return out
}

// CountriesReporting returns the countries that report field in at least
// one year, sorted by name.
func (ds *Dataset) CountriesReporting(field string) ([]string, error) {
	if field == "" {
		return nil, invalidSelection("no field selected")
	}
	out := make([]string, 0, len(ds.names))
	for _, name := range ds.names {
		for _, obs := range ds.countries[name].Observations {
			if obs.Has(field) {
				out = append(out, name)
				break
			}
		}
	}
	return out, nil
}

// Observations returns the stored yearly records for country. The slice is
// shared with the dataset and must not be modified.
func (ds *Dataset) Observations(country string) ([]Observation, error) {
	s, ok := ds.countries[country]
	if !ok {
		return nil, &NotFoundError{Country: country}
	}
	return s.Observations, nil
}
