package personnel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads people from a CSV file with a header row. Recognized
// columns (case-insensitive) are name, email and status; name is required,
// unknown columns are ignored and blank lines are skipped.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, &ParseError{Line: 1, Err: err}
	}

	cols := map[string]int{"name": -1, "email": -1, "status": -1}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := cols[key]; ok {
			cols[key] = i
		}
	}
	if cols["name"] < 0 {
		return nil, &ParseError{Line: 1, Err: errors.New(`missing "name" column`)}
	}

	field := func(rec []string, col string) string {
		i := cols[col]
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &ParseError{Line: pe.Line, Err: pe.Err}
			}
			return nil, &ParseError{Err: fmt.Errorf("read record: %w", err)}
		}
		line, _ := cr.FieldPos(0)
		if isBlank(rec) {
			continue
		}
		rows = append(rows, Row{
			Line:   line,
			Name:   field(rec, "name"),
			Email:  field(rec, "email"),
			Status: field(rec, "status"),
		})
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
