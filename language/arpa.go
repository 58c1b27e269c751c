package language

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrNoData is returned when an ARPA stream has no \data\ header.
var ErrNoData = errors.New("arpa: missing \\data\\ section")

type arpaSection int

const (
	sectionPreamble arpaSection = iota
	sectionCounts
	sectionNGrams
	sectionDone
)

// LoadARPA reads a backoff model in ARPA format. ARPA stores base-10 logs;
// they are converted to natural logs. Sections above order 3 are skipped.
func LoadARPA(r io.Reader) (*NGramModel, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	model := NewNGramModel(0)
	state := sectionPreamble
	order := 0

	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		switch {
		case line == `\data\`:
			state = sectionCounts
			continue
		case line == `\end\`:
			state = sectionDone
		case strings.HasPrefix(line, `\`) && strings.HasSuffix(line, "-grams:"):
			if state == sectionPreamble {
				return nil, ErrNoData
			}
			n, err := strconv.Atoi(strings.TrimSuffix(line[1:], "-grams:"))
			if err != nil {
				return nil, fmt.Errorf("arpa line %d: bad section header %q", lineNo, line)
			}
			state, order = sectionNGrams, n
			continue
		}

		switch state {
		case sectionCounts:
			n, ok := parseCount(line)
			if ok && n > model.Order && n <= 3 {
				model.Order = n
			}
		case sectionNGrams:
			if order > 3 {
				continue
			}
			if err := model.addARPALine(order, line); err != nil {
				return nil, fmt.Errorf("arpa line %d: %w", lineNo, err)
			}
		}
		if state == sectionDone {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if state == sectionPreamble {
		return nil, ErrNoData
	}
	return model, nil
}

// LoadARPAFile opens path and reads it with LoadARPA.
func LoadARPAFile(path string) (*NGramModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := LoadARPA(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// parseCount parses "ngram N=COUNT" and returns N.
func parseCount(line string) (int, bool) {
	rest, ok := strings.CutPrefix(line, "ngram ")
	if !ok {
		return 0, false
	}
	n, _, ok := strings.Cut(rest, "=")
	if !ok {
		return 0, false
	}
	order, err := strconv.Atoi(strings.TrimSpace(n))
	return order, err == nil
}

func (m *NGramModel) addARPALine(order int, line string) error {
	fields := strings.Fields(line)
	if len(fields) < order+1 {
		return fmt.Errorf("%d-gram needs %d fields: %q", order, order+1, line)
	}

	lp, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("log prob: %w", err)
	}
	e := ngramEntry{LogProb: lp * math.Ln10}
	if len(fields) > order+1 {
		bo, err := strconv.ParseFloat(fields[order+1], 64)
		if err != nil {
			return fmt.Errorf("backoff: %w", err)
		}
		e.LogBackoff = bo * math.Ln10
	}

	w := fields[1 : order+1]
	switch order {
	case 1:
		m.Unigrams[w[0]] = e
	case 2:
		m.Bigrams[[2]string{w[0], w[1]}] = e
	case 3:
		m.Trigrams[[3]string{w[0], w[1], w[2]}] = e
	}
	return nil
}
