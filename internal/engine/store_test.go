package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountriesReporting(t *testing.T) {
	ds := testDataset()

	got, err := ds.CountriesReporting("x")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, got)

	// C reports y in a single year; that is enough.
	got, err = ds.CountriesReporting("y")
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, got)

	got, err = ds.CountriesReporting("nobody_reports_this")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ds.CountriesReporting("")
	var inv *InvalidSelectionError
	require.True(t, errors.As(err, &inv))
}

func TestObservations(t *testing.T) {
	ds := testDataset()

	got, err := ds.Observations("C")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1999, 2000, 2001}, []int{got[0].Year, got[1].Year, got[2].Year})
	assert.True(t, got[0].Has("x"))
	assert.False(t, got[1].Has("x"))

	_, err = ds.Observations("Nowhere")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Nowhere", nf.Country)
	assert.Contains(t, err.Error(), "Nowhere")
}

func TestDatasetCounts(t *testing.T) {
	ds := testDataset()

	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, 9, ds.NumObservations())
	assert.Equal(t, []string{"A", "B", "C", "F"}, ds.Countries())
}
