package ephemeris

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	HoursPerYear = 8760
	HoursPerDay  = 24

	// DefaultStartYear is used when the first row carries no usable year.
	DefaultStartYear = 2023
)

// ReadCSV decodes `year,day,hour,x,y,z` rows following a header line. Times
// are hours since the start of the first row's year:
// (year-start)*8760 + (day-1)*24 + hour.
func ReadCSV(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv ephemeris: %w", err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	// the first row is always the header
	return decodeRows(rows[1:], 2)
}

// ReadText decodes the whitespace separated form of the same columns. Lines
// that do not start with a number (headers, banners) are skipped.
func ReadText(r io.Reader) ([]Sample, error) {
	scanner := bufio.NewScanner(r)
	var rows [][]string
	first := 0
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
			continue
		}
		if first == 0 {
			first = line
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading text ephemeris: %w", err)
	}
	return decodeRows(rows, first)
}

func decodeRows(rows [][]string, firstLine int) ([]Sample, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	startYear := DefaultStartYear
	if y, err := strconv.Atoi(strings.TrimSpace(rows[0][0])); err == nil && y != 0 {
		startYear = y
	}

	samples := make([]Sample, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("row %d: expected 6 columns, got %d", firstLine+i, len(row))
		}
		var v [6]float64
		for c := 0; c < 6; c++ {
			f, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", firstLine+i, c+1, err)
			}
			v[c] = f
		}
		samples = append(samples, Sample{
			Time: (v[0]-float64(startYear))*HoursPerYear + (v[1]-1)*HoursPerDay + v[2],
			X:    v[3],
			Y:    v[4],
			Z:    v[5],
		})
	}
	return samples, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
