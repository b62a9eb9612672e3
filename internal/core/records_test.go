package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func readAll(t *testing.T, src recordSource) ([][]string, []int) {
	t.Helper()
	var (
		recs  [][]string
		lines []int
	)
	for {
		rec, line, err := src.Read()
		if errors.Is(err, io.EOF) {
			return recs, lines
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		recs = append(recs, rec)
		lines = append(lines, line)
	}
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name string
		head string
		want rune
	}{
		{"comma", "a,b,c\n1,2,3", ','},
		{"semicolon", "ID do Pedido;Receita Total;Produto\n1;2,50;x", ';'},
		{"tab", "a\tb\tc\n", '\t'},
		{"commas inside quotes ignored", "\"a,b,c\";d;e\n", ';'},
		{"leading blank line skipped", "\n\n  \na;b\n", ';'},
		{"single column defaults to comma", "header\nvalue", ','},
		{"tie prefers comma", "a,b;c\n", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffDelimiter([]byte(tt.head)); got != tt.want {
				t.Errorf("sniffDelimiter = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCSVSource(t *testing.T) {
	input := "ID do Pedido;Receita Total\n\nA1;\"1.234,56\"\nA2;10,00\n"
	src, err := newCSVSource(strings.NewReader(input))
	if err != nil {
		t.Fatalf("newCSVSource: %v", err)
	}

	recs, lines := readAll(t, src)
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3: %v", len(recs), recs)
	}
	if recs[1][0] != "A1" || recs[1][1] != "1.234,56" {
		t.Errorf("record 1 = %v", recs[1])
	}
	if lines[0] != 1 || lines[1] != 3 || lines[2] != 4 {
		t.Errorf("line numbers = %v, want [1 3 4]", lines)
	}
}

func TestCSVSource_RaggedRows(t *testing.T) {
	src, err := newCSVSource(strings.NewReader("a,b,c\n1,2\n1,2,3,4\n"))
	if err != nil {
		t.Fatal(err)
	}
	recs, _ := readAll(t, src)
	if len(recs) != 3 || len(recs[1]) != 2 || len(recs[2]) != 4 {
		t.Errorf("ragged rows not preserved: %v", recs)
	}
}

func TestXLSXSource(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]string{
		"A1": "Order ID", "B1": "Total Revenue", "C1": "Product Name",
		"A2": "X1", "B2": "19,90", "C2": "Caneca",
		"A3": "X2", "B3": "5,00", "C3": "Fone",
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("SetCellValue: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	src, err := newXLSXSource(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("newXLSXSource: %v", err)
	}
	recs, lines := readAll(t, src)
	if len(recs) != 3 {
		t.Fatalf("got %d rows, want 3", len(recs))
	}
	if recs[0][0] != "Order ID" || recs[2][2] != "Fone" {
		t.Errorf("rows = %v", recs)
	}
	if lines[2] != 3 {
		t.Errorf("last line = %d, want 3", lines[2])
	}
}

func TestXLSXSource_Invalid(t *testing.T) {
	_, err := newXLSXSource(strings.NewReader("not a workbook"))
	if err == nil || !strings.Contains(err.Error(), "invalid xlsx") {
		t.Errorf("err = %v, want invalid xlsx", err)
	}
}

func TestDetectFileKind(t *testing.T) {
	tests := map[string]FileKind{
		"vendas.csv":  FileKindCSV,
		"VENDAS.XLSX": FileKindXLSX,
		"report.xlsm": FileKindXLSX,
		"export.txt":  FileKindCSV,
		"noext":       FileKindCSV,
	}
	for name, want := range tests {
		if got := DetectFileKind(name); got != want {
			t.Errorf("DetectFileKind(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestIsBlankRecord(t *testing.T) {
	if !isBlankRecord([]string{"", "  ", "\t"}) {
		t.Error("whitespace record should be blank")
	}
	if isBlankRecord([]string{"", "x"}) {
		t.Error("record with a value is not blank")
	}
}
