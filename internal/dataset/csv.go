package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LoadCSV loads a labelled dataset from CSV.
//
// CSV Format (Kaggle-style):
//
//	label,f0,f1,...,fN
//	5,0,0,12,...,0
//	0,0.5,0,0,...,0
//
// The header row is skipped. Feature values are used as-is; scale them
// before training if needed. maxSamples limits the rows read (0 = all).
func LoadCSV(r io.Reader, classes, maxSamples int) (*Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read CSV")
	}
	if len(records) < 2 {
		return nil, errors.Wrap(ErrEmpty, "CSV file is empty or missing header")
	}

	header := records[0]
	records = records[1:]
	if maxSamples > 0 && len(records) > maxSamples {
		records = records[:maxSamples]
	}

	features := len(header) - 1
	if features < 1 {
		return nil, errors.Errorf("header has %d columns, want label plus at least one feature", len(header))
	}

	data := make([]float64, 0, len(records)*features)
	labels := make([]int, len(records))
	for i, record := range records {
		if len(record) != features+1 {
			return nil, errors.Errorf("invalid record length at row %d: got %d, want %d", i+1, len(record), features+1)
		}

		label, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid label at row %d", i+1)
		}
		labels[i] = label

		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid value at row %d, column %d", i+1, j+1)
			}
			data = append(data, v)
		}
	}

	return New(mat.NewDense(len(records), features, data), labels, classes)
}
