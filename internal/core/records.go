package core

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// sniffWindow bounds how much of a CSV is inspected to pick the delimiter.
const sniffWindow = 64 * 1024

var candidateDelimiters = []rune{',', ';', '\t'}

// recordSource yields the rows of an uploaded sheet, header included.
type recordSource interface {
	// Read returns the next record and its 1-based line number, or io.EOF.
	Read() (record []string, line int, err error)
}

// FileKind distinguishes the supported upload containers.
type FileKind string

const (
	FileKindCSV  FileKind = "csv"
	FileKindXLSX FileKind = "xlsx"
)

// DetectFileKind picks the container from the file name. Anything that is
// not an Excel workbook is read as delimited text.
func DetectFileKind(fileName string) FileKind {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return FileKindXLSX
	default:
		return FileKindCSV
	}
}

type csvSource struct {
	r *csv.Reader
}

// newCSVSource reads decoded UTF-8 text. The delimiter is chosen from the
// first non-blank line.
func newCSVSource(text io.Reader) (*csvSource, error) {
	br := bufio.NewReaderSize(text, sniffWindow)
	head, err := br.Peek(sniffWindow)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	r := csv.NewReader(br)
	r.Comma = sniffDelimiter(head)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.ReuseRecord = false
	return &csvSource{r: r}, nil
}

func (s *csvSource) Read() ([]string, int, error) {
	rec, err := s.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		return nil, 0, fmt.Errorf("invalid csv: %w", err)
	}
	line, _ := s.r.FieldPos(0)
	return rec, line, nil
}

// sniffDelimiter counts candidate delimiters outside quotes on the first
// non-blank line and returns the most frequent, preferring ',' on ties.
func sniffDelimiter(head []byte) rune {
	var line []byte
	for _, l := range bytes.Split(head, []byte("\n")) {
		if len(bytes.TrimSpace(l)) > 0 {
			line = l
			break
		}
	}

	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		n := countOutsideQuotes(line, d)
		if n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func countOutsideQuotes(line []byte, d rune) int {
	n := 0
	inQuotes := false
	for _, r := range string(line) {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == d && !inQuotes:
			n++
		}
	}
	return n
}

type xlsxSource struct {
	rows [][]string
	next int
}

// newXLSXSource loads the first worksheet of a workbook.
func newXLSXSource(r io.Reader) (*xlsxSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("invalid xlsx: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: read sheet %q: %w", sheets[0], err)
	}
	return &xlsxSource{rows: rows}, nil
}

func (s *xlsxSource) Read() ([]string, int, error) {
	if s.next >= len(s.rows) {
		return nil, 0, io.EOF
	}
	rec := s.rows[s.next]
	s.next++
	return rec, s.next, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
