package engine

import "energydash/internal/models"

// fuelCatalog lists the selectable generation fields, total first.
var fuelCatalog = []models.FieldOption{
	{Label: "Total", Value: "electricity_generation"},
	{Label: "Fossil fuel", Value: "fossil_electricity"},
	{Label: "Biofuel", Value: "biofuel_electricity"},
	{Label: "Coal", Value: "coal_electricity"},
	{Label: "Gas", Value: "gas_electricity"},
	{Label: "Hydro", Value: "hydro_electricity"},
	{Label: "Nuclear", Value: "nuclear_electricity"},
	{Label: "Oil", Value: "oil_electricity"},
	{Label: "Renewable sources", Value: "renewables_electricity"},
	{Label: "Solar", Value: "solar_electricity"},
	{Label: "Wind", Value: "wind_electricity"},
}

// FuelCatalog returns a copy of the fuel field catalog.
func FuelCatalog() []models.FieldOption {
	out := make([]models.FieldOption, len(fuelCatalog))
	copy(out, fuelCatalog)
	return out
}

// LookupFields returns the catalog entries for selected, in catalog order.
// Names that are not in the catalog are ignored.
func LookupFields(selected []string) ([]models.FieldOption, error) {
	if len(selected) == 0 {
		return nil, invalidSelection("no fuel types selected")
	}
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}
	out := make([]models.FieldOption, 0, len(selected))
	for _, opt := range fuelCatalog {
		if want[opt.Value] {
			out = append(out, opt)
		}
	}
	return out, nil
}

// IsFuelField reports whether field is in the catalog.
func IsFuelField(field string) bool {
	for _, opt := range fuelCatalog {
		if opt.Value == field {
			return true
		}
	}
	return false
}
