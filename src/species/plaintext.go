package species

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"entropylife/src/universe"
)

const (
	plaintextComment = '!'
	plaintextDead    = '.'
	maxLineLength    = 1 << 20
)

// ParsePlaintext decodes the cell grid format.
//
// Lines starting with '!' are comments. Every other line is one row after trimming
// surrounding whitespace: '.' is a dead cell, any other character a live one. Rows
// may differ in length; the pattern is as wide as the longest. Blank lines at the
// end of the input are not rows. The grid is bounded by universe.MaxPatternCells.
func ParsePlaintext(name string, r io.Reader) (*universe.Pattern, error) {
	var rows [][]universe.Cell
	width := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineLength)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, string(plaintextComment)) {
			continue
		}
		row := make([]universe.Cell, 0, len(line))
		for _, c := range line {
			if c == plaintextDead {
				row = append(row, universe.Dead)
			} else {
				row = append(row, universe.Alive)
			}
		}
		rows = append(rows, row)
		width = max(width, len(row))
		if err := checkBudget(name, width, len(rows)); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return universe.PatternFromRows(name, rows)
}
