package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// table is a set of equally long named columns.
type table struct {
	Header  []string
	Columns [][]float64
}

func (t *table) add(name string, values []float64) {
	t.Header = append(t.Header, name)
	t.Columns = append(t.Columns, values)
}

// column returns the column called name. An empty name selects the first
// column.
func (t *table) column(name string) ([]float64, error) {
	if len(t.Columns) == 0 {
		return nil, errors.New("table has no columns")
	}
	if name == "" {
		return t.Columns[0], nil
	}
	for i, h := range t.Header {
		if h == name {
			return t.Columns[i], nil
		}
	}
	return nil, errors.Errorf("no column %q (have %s)", name, strings.Join(t.Header, ", "))
}

// numeric drops columns that describe the time axis.
func (t *table) numeric() *table {
	out := &table{}
	for i, h := range t.Header {
		if h == "time" || h == "t" {
			continue
		}
		out.add(h, t.Columns[i])
	}
	return out
}

// readTable parses a CSV file ("-" reads stdin). A first row that does not
// parse as numbers is taken as the header; otherwise columns are named
// c0, c1, ...
func readTable(path string, stdin io.Reader) (*table, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	cr := csv.NewReader(r)
	cr.Comma = detectDelimiter(path)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	if len(records) == 0 {
		return nil, errors.Errorf("%s is empty", path)
	}

	width := len(records[0])
	t := &table{Header: make([]string, width), Columns: make([][]float64, width)}
	if _, err := parseRow(records[0]); err != nil {
		copy(t.Header, records[0])
		records = records[1:]
	} else {
		for i := range t.Header {
			t.Header[i] = "c" + strconv.Itoa(i)
		}
	}
	for i := range t.Columns {
		t.Columns[i] = make([]float64, 0, len(records))
	}
	for n, rec := range records {
		row, err := parseRow(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d", path, n+1)
		}
		for i, v := range row {
			t.Columns[i] = append(t.Columns[i], v)
		}
	}
	return t, nil
}

func parseRow(rec []string) ([]float64, error) {
	row := make([]float64, len(rec))
	for i, s := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// detectDelimiter picks tab for .tsv files and comma otherwise.
func detectDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// writeTable writes t as CSV to path, or to stdout for "-". Shorter
// columns are padded with empty cells.
func writeTable(path string, stdout io.Writer, t *table) error {
	var w io.Writer = stdout
	if path != "-" && path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	cw := csv.NewWriter(w)
	cw.Comma = detectDelimiter(path)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	rows := 0
	for _, c := range t.Columns {
		if len(c) > rows {
			rows = len(c)
		}
	}
	rec := make([]string, len(t.Columns))
	for r := 0; r < rows; r++ {
		for i, c := range t.Columns {
			rec[i] = ""
			if r < len(c) {
				rec[i] = strconv.FormatFloat(c[r], 'g', -1, 64)
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
