package engine

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestLoad(t *testing.T) {
	jsonContent := []byte(`{
  "Germany": {"iso_code": "DEU", "data": [
    {"year": 1999, "population": 82000000},
    {"year": 2000, "electricity_generation": 576.6, "coal_electricity": 291.0},
    {"year": 2001, "electricity_generation": 586.4, "note": "text is dropped", "gas_electricity": null}
  ]},
  "France": {"data": [
    {"year": 2000, "electricity_generation": 540.0}
  ]}
}`)

	// 1. Write the fixture
	path := filepath.Join(t.TempDir(), "energy.json")
	require.NoError(t, os.WriteFile(path, jsonContent, 0o600))

	// 2. Run Loader
	ds, err := Load(path, quietLogger())
	require.NoError(t, err)

	// 3. Assertions
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 4, ds.NumObservations())

	de, err := ds.Observations("Germany")
	require.NoError(t, err)
	require.Len(t, de, 3)
	assert.Equal(t, 1999, de[0].Year)
	assert.False(t, de[0].Has("electricity_generation"))

	v, ok := de[1].Value("coal_electricity")
	require.True(t, ok)
	assert.Equal(t, 291.0, v)

	assert.False(t, de[2].Has("note"))
	assert.False(t, de[2].Has("gas_electricity"))
	assert.False(t, de[2].Has("year"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"not json", `{"Germany": [`, "decode dataset"},
		{"missing data", `{"Germany": {"iso_code": "DEU"}}`, "missing data array"},
		{"missing year", `{"Germany": {"data": [{"coal_electricity": 1}]}}`, "missing year"},
		{"fractional year", `{"Germany": {"data": [{"year": 2000.5}]}}`, "not an integer"},
		{"string year", `{"Germany": {"data": [{"year": "2000"}]}}`, "not an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), quietLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
