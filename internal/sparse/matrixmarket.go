package sparse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MatrixMarket coordinate files start with a banner such as
//
//	%%MatrixMarket matrix coordinate real general
//
// followed by % comment lines, a "rows cols nnz" size line, and one
// "row col [value]" line per stored entry with 1-based indices.
// Supported value fields are real, integer, and pattern (value 1.0);
// supported symmetries are general and symmetric (off-diagonal entries
// mirrored).

// ReadMatrixMarket parses a MatrixMarket coordinate stream into CSR form.
func ReadMatrixMarket(r io.Reader) (*CSR, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("sparse: read banner: %w", err)
		}
		return nil, fmt.Errorf("sparse: empty matrix file")
	}
	banner := strings.Fields(strings.ToLower(sc.Text()))
	if len(banner) != 5 || banner[0] != "%%matrixmarket" {
		return nil, fmt.Errorf("sparse: not a MatrixMarket file")
	}
	if banner[1] != "matrix" || banner[2] != "coordinate" {
		return nil, fmt.Errorf("sparse: unsupported MatrixMarket object %q %q (want matrix coordinate)", banner[1], banner[2])
	}
	field := banner[3]
	switch field {
	case "real", "integer", "pattern":
	default:
		return nil, fmt.Errorf("sparse: unsupported value field %q", field)
	}
	symmetry := banner[4]
	switch symmetry {
	case "general", "symmetric":
	default:
		return nil, fmt.Errorf("sparse: unsupported symmetry %q", symmetry)
	}

	rows, cols, nnz, err := readSizeLine(sc)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, nnz)
	for i := 0; i < nnz; i++ {
		line, err := nextDataLine(sc)
		if err != nil {
			return nil, fmt.Errorf("sparse: entry %d of %d: %w", i+1, nnz, err)
		}
		e, err := parseEntry(line, field)
		if err != nil {
			return nil, fmt.Errorf("sparse: entry %d: %w", i+1, err)
		}
		entries = append(entries, e)
		if symmetry == "symmetric" && e.Row != e.Col {
			entries = append(entries, Entry{Row: e.Col, Col: e.Row, Val: e.Val})
		}
	}

	return FromCOO(rows, cols, entries)
}

// OpenMatrixMarket reads the MatrixMarket file at path.
func OpenMatrixMarket(path string) (*CSR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sparse: open matrix: %w", err)
	}
	defer f.Close()

	m, err := ReadMatrixMarket(f)
	if err != nil {
		return nil, fmt.Errorf("sparse: %s: %w", path, err)
	}
	return m, nil
}

func readSizeLine(sc *bufio.Scanner) (rows, cols, nnz int, err error) {
	line, err := nextDataLine(sc)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("sparse: size line: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("sparse: malformed size line %q", line)
	}
	rows, err = strconv.Atoi(fields[0])
	if err == nil {
		cols, err = strconv.Atoi(fields[1])
	}
	if err == nil {
		nnz, err = strconv.Atoi(fields[2])
	}
	if err != nil {
		return 0, 0, 0, fmt.Errorf("sparse: malformed size line %q: %w", line, err)
	}
	if rows < 0 || cols < 0 || nnz < 0 {
		return 0, 0, 0, fmt.Errorf("sparse: negative size in %q", line)
	}
	return rows, cols, nnz, nil
}

// nextDataLine returns the next non-comment, non-blank line.
func nextDataLine(sc *bufio.Scanner) (string, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		return line, nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}

func parseEntry(line, field string) (Entry, error) {
	fields := strings.Fields(line)
	wantFields := 3
	if field == "pattern" {
		wantFields = 2
	}
	if len(fields) < wantFields {
		return Entry{}, fmt.Errorf("malformed entry %q", line)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return Entry{}, fmt.Errorf("row index %q: %w", fields[0], err)
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return Entry{}, fmt.Errorf("column index %q: %w", fields[1], err)
	}
	if row < 1 || col < 1 {
		return Entry{}, fmt.Errorf("indices in %q must be 1-based", line)
	}

	val := 1.0
	if field != "pattern" {
		val, err = strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Entry{}, fmt.Errorf("value %q: %w", fields[2], err)
		}
	}

	return Entry{Row: int32(row - 1), Col: int32(col - 1), Val: val}, nil
}
