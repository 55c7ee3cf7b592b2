package grid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ParseArcInfoGrid parses a complete ArcInfo Grid ASCII file: the header
// followed by exactly nrows*ncols values.
func ParseArcInfoGrid(reader io.Reader) (ArcInfoGrid, error) {
	var g ArcInfoGrid

	br := bufio.NewReader(reader)

	header, err := ParseHeader(br)
	if err != nil {
		return g, err
	}
	g.Header = header

	data, err := parseData(br, header.Nrows, header.Ncols)
	if err != nil {
		return g, err
	}
	g.Data = data

	return g, nil
}

// ParseHeader reads the six header lines from reader. The fields have to
// appear in the order ncols, nrows, xllcorner, yllcorner, cellsize, NODATA_value.
func ParseHeader(reader *bufio.Reader) (Header, error) {
	var h Header
	var err error

	if h.Ncols, err = parseCount(reader, "ncols"); err != nil {
		return h, err
	}
	if h.Nrows, err = parseCount(reader, "nrows"); err != nil {
		return h, err
	}
	if h.XllCorner, err = parseReal(reader, "xllcorner"); err != nil {
		return h, err
	}
	if h.YllCorner, err = parseReal(reader, "yllcorner"); err != nil {
		return h, err
	}
	if h.CellSize, err = parseReal(reader, "cellsize"); err != nil {
		return h, err
	}
	if !(h.CellSize > 0) || math.IsInf(h.CellSize, 0) {
		return h, fmt.Errorf("%w: cellsize must be greater than 0, got %g", ErrFormat, h.CellSize)
	}
	if h.NoDataValue, err = parseReal(reader, "NODATA_value"); err != nil {
		return h, err
	}

	return h, nil
}

// readField reads the next header line and returns its value token after
// checking that the line is a "name value" pair for the expected name.
func readField(reader *bufio.Reader, name string) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: reading %s: %v", ErrIO, name, err)
	}
	if err != nil && line == "" {
		return "", fmt.Errorf("%w: header field %s missing", ErrFormat, name)
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", fmt.Errorf("%w: expected %s/value pair, got %d fields", ErrFormat, name, len(fields))
	}

	// NCOLS, NROWS ... is as common as the lower case spelling
	if !strings.EqualFold(fields[0], name) {
		return "", fmt.Errorf("%w: field name %s missing, found %s", ErrFormat, name, fields[0])
	}

	return fields[1], nil
}

func parseCount(reader *bufio.Reader, name string) (int, error) {
	value, err := readField(reader, name)
	if err != nil {
		return 0, err
	}

	i, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: integer conversion of %s %s failed", ErrFormat, name, value)
	}
	if i <= 0 {
		return 0, fmt.Errorf("%w: %s must be greater than 0, got %s", ErrFormat, name, value)
	}
	return int(i), nil
}

func parseReal(reader *bufio.Reader, name string) (float64, error) {
	value, err := readField(reader, name)
	if err != nil {
		return 0, err
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: real conversion of %s %s failed", ErrFormat, name, value)
	}
	return f, nil
}

// maxPrealloc caps the capacity reserved up front, the header alone is no
// proof that the body holds that many values.
const maxPrealloc = 1 << 20

// parseData reads exactly rows*cols whitespace separated values.
func parseData(reader io.Reader, rows, cols int) ([][]float64, error) {
	if rows > math.MaxInt/cols {
		return nil, fmt.Errorf("%w: %d*%d values exceed the addressable size", ErrFormat, rows, cols)
	}
	expected := rows * cols
	values := make([]float64, 0, min(expected, maxPrealloc))

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	items := 0
	for scanner.Scan() {
		items++
		if items > expected {
			continue
		}

		f, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d (%q) is not a number", ErrFormat, items, scanner.Text())
		}
		values = append(values, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading values: %v", ErrIO, err)
	}

	if items != expected {
		return nil, fmt.Errorf("%w: number of values read is %d instead of %d=%d*%d", ErrFormat, items, expected, rows, cols)
	}

	// reshape
	data := make([][]float64, rows)
	for row := 0; row < rows; row++ {
		data[row] = values[row*cols : (row+1)*cols]
	}

	return data, nil
}
