package api

import (
	"fmt"
	"strconv"

	"energydash/internal/config"
	"energydash/internal/engine"
	"energydash/internal/export"
	"energydash/internal/frame"
	"energydash/internal/models"

	"github.com/labstack/echo/v4"
)

// selection is what the dashboard selectors currently hold for one view.
type selection struct {
	Countries []string // country views; fuel views use Countries[0]
	Fuels     []string
	Years     frame.YearRange
}

// parseSelection reads ?countries= (repeatable), ?country=, ?fuels=
// (repeatable), ?from= and ?to=. An absent parameter falls back to the
// view default; a parameter present with only empty values is an empty
// selection.
func parseSelection(c echo.Context, v config.ViewConfig, years config.YearsConfig) (selection, error) {
	sel := selection{Years: frame.YearRange{From: years.Min, To: years.Max}}

	var err error
	if sel.Years.From, err = intParam(c, "from", years.Min); err != nil {
		return sel, err
	}
	if sel.Years.To, err = intParam(c, "to", years.Max); err != nil {
		return sel, err
	}
	if err := sel.Years.Validate(); err != nil {
		return sel, err
	}

	switch v.Mode {
	case config.ModeCountry:
		sel.Countries = distinct(listParam(c, "countries", v.DefaultCountries))
	case config.ModeFuel:
		country := v.DefaultCountries
		if _, ok := c.QueryParams()["country"]; ok {
			country = nonEmpty([]string{c.QueryParam("country")})
		}
		sel.Countries = country
		sel.Fuels = distinct(listParam(c, "fuels", v.DefaultFuels))
		for _, f := range sel.Fuels {
			if !engine.IsFuelField(f) {
				return sel, &engine.InvalidSelectionError{Reason: fmt.Sprintf("unknown fuel type %q", f)}
			}
		}
	}
	return sel, nil
}

func (s selection) country() string {
	if len(s.Countries) == 0 {
		return ""
	}
	return s.Countries[0]
}

// chartRows runs the view's chart pipeline: reshape, then the year window.
func chartRows(r *engine.Reshaper, v config.ViewConfig, sel selection) ([]models.ChartRow, error) {
	var (
		rows []models.ChartRow
		err  error
	)
	if v.Mode == config.ModeFuel {
		rows, err = r.ByFuelChart(sel.country(), sel.Fuels)
	} else {
		rows, err = r.ByCountryChart(sel.Countries, v.Field)
	}
	if err != nil {
		return nil, err
	}
	return frame.FilterChartRows(rows, sel.Years)
}

// tableRows runs the view's table pipeline and builds its column list:
// Year, then the countries in selection order or the fuels in catalog
// order. The year window does not apply to tables.
func tableRows(r *engine.Reshaper, v config.ViewConfig, sel selection) ([]models.Column, []models.TableRow, error) {
	columns := []models.Column{{Name: "Year", ID: export.YearColumn}}

	var (
		rows []models.TableRow
		err  error
	)
	if v.Mode == config.ModeFuel {
		rows, err = r.ByFuelTable(sel.country(), sel.Fuels)
		if err != nil {
			return nil, nil, err
		}
		opts, err := engine.LookupFields(sel.Fuels)
		if err != nil {
			return nil, nil, err
		}
		for _, o := range opts {
			columns = append(columns, models.Column{Name: o.Label, ID: o.Value})
		}
	} else {
		rows, err = r.ByCountryTable(sel.Countries, v.Field)
		if err != nil {
			return nil, nil, err
		}
		for _, c := range sel.Countries {
			columns = append(columns, models.Column{Name: c, ID: c})
		}
	}
	return columns, rows, nil
}

func intParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &engine.InvalidSelectionError{Reason: fmt.Sprintf("%s: %q is not a year", name, raw)}
	}
	return n, nil
}

func listParam(c echo.Context, name string, def []string) []string {
	vals, ok := c.QueryParams()[name]
	if !ok {
		return def
	}
	return nonEmpty(vals)
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// distinct drops repeated values, keeping the first occurrence.
func distinct(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
