package metrics

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadSimple(t *testing.T) {
	table, err := Read(strings.NewReader("epoch,accuracy,loss\n1,0.1,0.9\n2,0.5,0.5\n3,0.9,0.1\n"))
	if err != nil {
		t.Fatal(err)
	}
	expected := []Record{
		{Epoch: 1, Accuracy: 0.1, Loss: 0.9},
		{Epoch: 2, Accuracy: 0.5, Loss: 0.5},
		{Epoch: 3, Accuracy: 0.9, Loss: 0.1},
	}
	if table.Len() != len(expected) {
		t.Fatalf("expected %d records, got %d", len(expected), table.Len())
	}
	for i, r := range expected {
		if table.Records[i] != r {
			t.Errorf("record %d: expected %+v, got %+v", i, r, table.Records[i])
		}
	}
}

func TestReadColumnLayout(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"reordered", "loss,epoch,accuracy\n0.25,7,0.75\n"},
		{"extra columns", "step,epoch,lr,accuracy,loss\n100,7,0.01,0.75,0.25\n"},
		{"byte order mark", "\ufeffepoch,accuracy,loss\n7,0.75,0.25\n"},
		{"padded cells", "epoch, accuracy, loss\n7, 0.75 , 0.25\n"},
		{"pandas index", ",epoch,accuracy,loss\n0,7,0.75,0.25\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			table, err := Read(strings.NewReader(c.input))
			if err != nil {
				t.Fatal(err)
			}
			if table.Len() != 1 {
				t.Fatalf("expected one record, got %d", table.Len())
			}
			if r := table.Records[0]; r != (Record{Epoch: 7, Accuracy: 0.75, Loss: 0.25}) {
				t.Errorf("unexpected record: %+v", r)
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		message string
	}{
		{"missing loss", "epoch,accuracy\n1,0.5\n", `missing column "loss"`},
		{"missing epoch", "accuracy,loss\n0.5,0.5\n", `missing column "epoch"`},
		{"bad epoch", "epoch,accuracy,loss\n1,0.5,0.5\nx,0.5,0.5\n", "line 3: invalid epoch"},
		{"bad accuracy", "epoch,accuracy,loss\n1,high,0.5\n", "line 2: invalid accuracy"},
		{"bad loss", "epoch,accuracy,loss\n1,0.5,low\n", "line 2: invalid loss"},
		{"empty epoch", "epoch,accuracy,loss\n,0.5,0.5\n", "line 2: invalid epoch"},
		{"short row without epoch", "accuracy,loss,epoch\n0.5,0.5\n", "line 2: missing epoch"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(c.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), c.message) {
				t.Errorf("expected error containing %q, got %q", c.message, err)
			}
		})
	}
}

func TestReadPartialRows(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		accuracy float64
		lossNaN  bool
		accNaN   bool
	}{
		{"short last row", "epoch,accuracy,loss\n1,0.1,0.9\n2,0.5", 0.5, true, false},
		{"epoch only", "epoch,accuracy,loss\n1,0.1,0.9\n2\n", 0, true, true},
		{"empty cell", "epoch,accuracy,loss\n1,0.1,0.9\n2,0.5,\n", 0.5, true, false},
		{"nan cell", "epoch,accuracy,loss\n1,0.1,0.9\n2,0.5,nan\n", 0.5, true, false},
		{"empty accuracy", "epoch,accuracy,loss\n1,0.1,0.9\n2,,0.4\n", 0, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			table, err := Read(strings.NewReader(c.input))
			if err != nil {
				t.Fatal(err)
			}
			if table.Len() != 2 {
				t.Fatalf("expected two records, got %d", table.Len())
			}
			if r := table.Records[0]; r != (Record{Epoch: 1, Accuracy: 0.1, Loss: 0.9}) {
				t.Errorf("unexpected first record: %+v", r)
			}
			last := table.Records[1]
			if last.Epoch != 2 {
				t.Errorf("expected epoch 2, got %d", last.Epoch)
			}
			if math.IsNaN(last.Accuracy) != c.accNaN || (!c.accNaN && last.Accuracy != c.accuracy) {
				t.Errorf("unexpected accuracy %v", last.Accuracy)
			}
			if math.IsNaN(last.Loss) != c.lossNaN {
				t.Errorf("unexpected loss %v", last.Loss)
			}
		})
	}
}

func TestReadEmpty(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err != io.ErrUnexpectedEOF {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
	table, err := Read(strings.NewReader("epoch,accuracy,loss\n"))
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 0 {
		t.Errorf("expected no records, got %d", table.Len())
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	if err := os.WriteFile(path, []byte("epoch,accuracy,loss\n1,0.5,1.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	table, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 1 || table.Records[0].Loss != 1.5 {
		t.Errorf("unexpected table: %+v", table.Records)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestBest(t *testing.T) {
	table := &Table{Records: []Record{
		{Epoch: 1, Accuracy: 0.2, Loss: math.NaN()},
		{Epoch: 2, Accuracy: 0.8, Loss: 0.4},
		{Epoch: 3, Accuracy: math.NaN(), Loss: 0.3},
		{Epoch: 4, Accuracy: 0.8, Loss: 0.3},
		{Epoch: 5, Accuracy: math.Inf(1), Loss: math.Inf(-1)},
	}}

	acc, ok := table.BestAccuracy()
	if !ok || acc.Epoch != 2 {
		t.Errorf("expected best accuracy at epoch 2, got %+v (%v)", acc, ok)
	}
	loss, ok := table.LowestLoss()
	if !ok || loss.Epoch != 3 {
		t.Errorf("expected lowest loss at epoch 3, got %+v (%v)", loss, ok)
	}

	empty := &Table{}
	if _, ok := empty.BestAccuracy(); ok {
		t.Error("expected no best accuracy in an empty table")
	}
	if _, ok := empty.LowestLoss(); ok {
		t.Error("expected no lowest loss in an empty table")
	}
}
