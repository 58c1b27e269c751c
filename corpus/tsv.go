package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column headers of the training export.
const (
	DialectColumn  = "sentorig"
	StandardColumn = "sentorth"
)

// ErrNoColumns is returned when the input lacks the dialect or standard
// column header.
var ErrNoColumns = errors.New("corpus: missing sentorig/sentorth columns")

// LoadTSV reads tab-separated training rows. The first line is a header that
// must name the sentorig and sentorth columns; other columns are ignored.
func LoadTSV(r io.Reader) ([]Pair, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dialectCol, standardCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case DialectColumn:
			dialectCol = i
		case StandardColumn:
			standardCol = i
		}
	}
	if dialectCol < 0 || standardCol < 0 {
		return nil, ErrNoColumns
	}

	var pairs []Pair
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		p := Pair{Dialect: field(rec, dialectCol), Standard: field(rec, standardCol)}
		if p.Dialect == "" && p.Standard == "" {
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// LoadTSVFile reads training rows from a TSV file.
func LoadTSVFile(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pairs, err := LoadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pairs, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
