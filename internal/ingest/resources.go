// Package ingest reads the CSV input tables described in SPEC_FULL.md §6
// (resource catalog, step metrics, step performance metrics, deployment
// metrics) and turns them into the types internal/resources, internal/dryrun,
// and internal/pipeline consume. No library in the retrieved example pack
// does CSV parsing, so this package is built directly on the standard
// library's encoding/csv (see DESIGN.md).
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	"github.com/anonymousuni/cats/internal/resources"
)

var validate = validator.New()

// resourceRow is one row of the resources table, validated before it is
// turned into a resources.Resource.
type resourceRow struct {
	InstanceType   string  `validate:"required"`
	Name           string  `validate:"required"`
	MemoryGiB      float64 `validate:"gt=0"`
	NumCPUs        int     `validate:"gt=0"`
	CPUFrequency   float64 `validate:"gt=0"`
	NumNodes       int     `validate:"gt=0"`
	NodeType       string  `validate:"required"`
	AZ             string
	HourlyRateUSD  float64 `validate:"gte=0"`
}

// ParseResourcesCSV reads the resources table (§6) and returns a populated
// Catalog, a per-resource NodeClass map (for NetworkGraphFromClasses), and
// the NetworkGraph built from it (§12.3's bidirectional 1000/50 Mbps rule).
// A row with `Number of nodes` > 1 is expanded into that many resources;
// since the original Python script keeps them all under one name (a
// collision our Catalog rejects), every instance is suffixed `-1`, `-2`,
// ... to stay unique (see DESIGN.md).
func ParseResourcesCSV(path string) (*resources.Catalog, map[string]resources.NodeClass, *resources.NetworkGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ingest: open resources csv: %w", err)
	}
	defer f.Close()

	rows, err := readDictRows(f)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ingest: read resources csv: %w", err)
	}

	catalog := resources.NewCatalog()
	classes := make(map[string]resources.NodeClass)

	var errs error
	for i, row := range rows {
		rr, err := parseResourceRow(row)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("ingest: resources.csv row %d: %w", i+2, err))
			continue
		}

		class := resources.ClassFog
		if rr.NodeType == "EC2" {
			class = resources.ClassEC2
		}

		for n := 0; n < rr.NumNodes; n++ {
			name := rr.Name
			if rr.NumNodes > 1 {
				name = fmt.Sprintf("%s-%d", rr.Name, n+1)
			}
			r := resources.Resource{
				Name:          name,
				CPUCount:      rr.NumCPUs,
				CPUFrequency:  rr.CPUFrequency,
				RAMGiB:        rr.MemoryGiB,
				Schedulable:   true,
				Zone:          resources.Zone(rr.AZ),
				HourlyRateUSD: rr.HourlyRateUSD,
			}
			if err := catalog.Add(r); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("ingest: resources.csv row %d: %w", i+2, err))
				continue
			}
			classes[name] = class
		}
	}
	if errs != nil {
		return nil, nil, nil, errs
	}

	return catalog, classes, catalog.NetworkGraphFromClasses(classes), nil
}

func parseResourceRow(row map[string]string) (resourceRow, error) {
	rr := resourceRow{
		InstanceType:  row["Instance type"],
		Name:          row["Name"],
		NodeType:      row["Node type"],
		AZ:            row["AZ"],
	}
	var err error
	if rr.MemoryGiB, err = parseFloat(row["Memory capacity (GiB)"]); err != nil {
		return rr, fmt.Errorf("Memory capacity (GiB): %w", err)
	}
	if rr.NumCPUs, err = parseInt(row["Number of CPUs"]); err != nil {
		return rr, fmt.Errorf("Number of CPUs: %w", err)
	}
	if rr.CPUFrequency, err = parseFloat(row["CPU frequency (GHz)"]); err != nil {
		return rr, fmt.Errorf("CPU frequency (GHz): %w", err)
	}
	if rr.NumNodes, err = parseInt(row["Number of nodes"]); err != nil {
		return rr, fmt.Errorf("Number of nodes: %w", err)
	}
	if rr.HourlyRateUSD, err = parseFloat(row["On-demand hourly rate (USD)"]); err != nil {
		return rr, fmt.Errorf("On-demand hourly rate (USD): %w", err)
	}
	if err := validate.Struct(rr); err != nil {
		return rr, err
	}
	return rr, nil
}

// readDictRows reads a CSV file's header row and returns every data row as a
// header-keyed map, mirroring Python's csv.DictReader used throughout the
// original ingestion code.
func readDictRows(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []map[string]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
