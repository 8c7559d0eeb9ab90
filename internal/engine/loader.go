package engine

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// rawCountry mirrors one top-level entry of the OWID energy JSON file.
type rawCountry struct {
	Data []map[string]interface{} `json:"data"`
}

// Load reads the dataset file at path.
func Load(path string, log logrus.FieldLogger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Decode(bufio.NewReader(f), log.WithField("path", path))
}

// Decode parses a dataset from r. Every observation must carry an integral
// year; other numeric fields are kept, anything else is dropped.
func Decode(r io.Reader, log logrus.FieldLogger) (*Dataset, error) {
	start := time.Now()
	log.Info("Loading dataset...")

	var raw map[string]*rawCountry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	series := make(map[string]*Series, len(raw))
	for name, rc := range raw {
		if rc == nil || rc.Data == nil {
			return nil, fmt.Errorf("country %q: missing data array", name)
		}
		s := &Series{Observations: make([]Observation, 0, len(rc.Data))}
		for i, rec := range rc.Data {
			obs, err := toObservation(rec)
			if err != nil {
				return nil, fmt.Errorf("country %q record %d: %w", name, i, err)
			}
			s.Observations = append(s.Observations, obs)
		}
		series[name] = s
	}

	ds := NewDataset(series)
	log.WithFields(logrus.Fields{
		"countries":    ds.Len(),
		"observations": ds.NumObservations(),
		"elapsed":      time.Since(start).String(),
	}).Info("Load Complete")
	return ds, nil
}

func toObservation(rec map[string]interface{}) (Observation, error) {
	rawYear, ok := rec["year"]
	if !ok {
		return Observation{}, fmt.Errorf("missing year")
	}
	y, ok := rawYear.(float64)
	if !ok || y != math.Trunc(y) {
		return Observation{}, fmt.Errorf("year %v is not an integer", rawYear)
	}

	obs := Observation{
		Year:   int(y),
		Fields: make(map[string]float64, len(rec)-1),
	}
	for k, v := range rec {
		if k == "year" {
			continue
		}
		if f, ok := v.(float64); ok {
			obs.Fields[k] = f
		}
	}
	return obs, nil
}
