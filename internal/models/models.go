package models

import "github.com/goccy/go-json"

// ChartRow is one (series, year) point of a line chart.
type ChartRow struct {
	Year        int     `json:"year"`
	Value       float64 `json:"value"`
	SeriesLabel string  `json:"series"`
}

// TableRow is one year of a table. Cells holds one entry per series that
// reported a value for that year; a missing series has no key at all.
type TableRow struct {
	Year  int
	Cells map[string]float64
}

// Len counts the keys the row would serialize, year included.
func (r TableRow) Len() int {
	return 1 + len(r.Cells)
}

// MarshalJSON flattens the row into {"year": Y, "<series>": v, ...}.
func (r TableRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, r.Len())
	for k, v := range r.Cells {
		flat[k] = v
	}
	flat["year"] = r.Year
	return json.Marshal(flat)
}

// Column describes a table column: display name and row key.
type Column struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// FieldOption is a catalog entry for a selectable fuel field.
type FieldOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type YearBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ViewInfo is what the dashboard needs to draw a view's selectors.
type ViewInfo struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Mode             string     `json:"mode"`
	Field            string     `json:"field,omitempty"`
	OptionsField     string     `json:"options_field"`
	Years            YearBounds `json:"years"`
	DefaultCountries []string   `json:"default_countries"`
	DefaultFuels     []string   `json:"default_fuels,omitempty"`
}

type ChartResponse struct {
	View  string     `json:"view"`
	Title string     `json:"title"`
	Rows  []ChartRow `json:"rows"`
}

type TableResponse struct {
	View    string     `json:"view"`
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

type CountriesResponse struct {
	Field     string   `json:"field"`
	Countries []string `json:"countries"`
}
