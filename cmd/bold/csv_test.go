package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadTableHeaderless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "y.csv")
	if err := os.WriteFile(path, []byte("1,2\n3, 4\n# trailing comment\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	tab, err := readTable(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(tab.Header, ",") != "c0,c1" {
		t.Fatalf("header = %v", tab.Header)
	}
	if tab.Columns[1][1] != 4 {
		t.Fatalf("c1[1] = %v, want 4", tab.Columns[1][1])
	}
}

func TestReadTableStdin(t *testing.T) {
	tab, err := readTable("-", strings.NewReader("time,y\n0,0.5\n1,1.5\n"))
	if err != nil {
		t.Fatal(err)
	}
	y, err := tab.column("y")
	if err != nil {
		t.Fatal(err)
	}
	if len(y) != 2 || y[1] != 1.5 {
		t.Fatalf("y = %v", y)
	}
	if got := tab.numeric().Header; len(got) != 1 || got[0] != "y" {
		t.Fatalf("numeric header = %v", got)
	}
	if _, err := tab.column("z"); err == nil {
		t.Fatal("expected an error for a missing column")
	}
}

func TestReadTableBadRow(t *testing.T) {
	if _, err := readTable("-", strings.NewReader("a,b\n1,x\n")); err == nil {
		t.Fatal("expected a parse error")
	}
	if _, err := readTable("-", strings.NewReader("")); err == nil {
		t.Fatal("expected an error for empty input")
	}
}

func TestWriteTableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	in := &table{}
	in.add("time", []float64{0, 1})
	in.add("x", []float64{0.25, -3})
	if err := writeTable(path, nil, in); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "time\tx\n0\t0.25\n1\t-3\n" {
		t.Fatalf("file = %q", data)
	}

	var buf bytes.Buffer
	if err := writeTable("-", &buf, in); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "time,x\n0,0.25\n1,-3\n" {
		t.Fatalf("stdout = %q", buf.String())
	}
}
