package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	ColumnEpoch    = "epoch"
	ColumnAccuracy = "accuracy"
	ColumnLoss     = "loss"
)

// Record is a single row of training statistics.
type Record struct {
	Epoch    int
	Accuracy float64
	Loss     float64
}

// Table holds every record from a metrics file, in file order.
type Table struct {
	Records []Record
}

func (t *Table) Len() int {
	return len(t.Records)
}

func (t *Table) best(value func(Record) float64, better func(a, b float64) bool) (Record, bool) {
	found := false
	var best Record
	for _, r := range t.Records {
		v := value(r)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !found || better(v, value(best)) {
			best = r
			found = true
		}
	}
	return best, found
}

// BestAccuracy returns the first record with the highest accuracy.
func (t *Table) BestAccuracy() (Record, bool) {
	return t.best(func(r Record) float64 {
		return r.Accuracy
	}, func(a, b float64) bool {
		return a > b
	})
}

// LowestLoss returns the first record with the lowest loss. Like
// BestAccuracy, it ignores values that are not finite.
func (t *Table) LowestLoss() (Record, bool) {
	return t.best(func(r Record) float64 {
		return r.Loss
	}, func(a, b float64) bool {
		return a < b
	})
}

type columns struct {
	epoch, accuracy, loss int
}

func locateColumns(header []string) (columns, error) {
	index := map[string]int{}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var cols columns
	for _, c := range []struct {
		name string
		out  *int
	}{
		{ColumnEpoch, &cols.epoch},
		{ColumnAccuracy, &cols.accuracy},
		{ColumnLoss, &cols.loss},
	} {
		i, ok := index[c.name]
		if !ok {
			return columns{}, fmt.Errorf("missing column %q in header %q", c.name, header)
		}
		*c.out = i
	}
	return cols, nil
}

// Read parses a metrics CSV stream. The first row must be a header naming
// the epoch, accuracy and loss columns; other columns are ignored. Missing
// or empty accuracy and loss cells read as NaN.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	table := &Table{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return table, nil
		} else if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		if cols.epoch >= len(row) {
			return nil, fmt.Errorf("line %d: missing %s", line, ColumnEpoch)
		}
		epoch, err := strconv.Atoi(strings.TrimSpace(row[cols.epoch]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", line, ColumnEpoch, err)
		}
		accuracy, err := parseMetric(row, cols.accuracy)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", line, ColumnAccuracy, err)
		}
		loss, err := parseMetric(row, cols.loss)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", line, ColumnLoss, err)
		}
		table.Records = append(table.Records, Record{
			Epoch:    epoch,
			Accuracy: accuracy,
			Loss:     loss,
		})
	}
}

// parseMetric reads a metric cell. A cell that is empty or past the end of a
// short row (one the trainer is still writing) is NaN.
func parseMetric(row []string, index int) (float64, error) {
	if index >= len(row) {
		return math.NaN(), nil
	}
	cell := strings.TrimSpace(row[index])
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return Read(f)
}
