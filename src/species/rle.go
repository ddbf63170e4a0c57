package species

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"entropylife/src/universe"
)

var (
	rleComment = regexp.MustCompile(`^#.*$`)
	rleSize    = regexp.MustCompile(`^\s*x\s*=\s*(\d*)\s*,\s*y\s*=\s*(\d*).*$`)
	rleContent = regexp.MustCompile(`^(\d*[bo$!])*$`)
	rleToken   = regexp.MustCompile(`(\d*)([bo$!])`)
)

// maxRunLength bounds the count of a single token. The decoded pattern as a whole is
// bounded by universe.MaxPatternCells.
const maxRunLength = 1 << 16

// ParseRLE decodes the run length encoded format.
//
// Comment lines start with '#'. The "x = N, y = M" line is informational. Content
// lines are sequences of <count><tag> tokens: 'b' dead cells, 'o' live cells, '$'
// row ends, '!' ends the pattern. A missing count is 1. Lines matching none of these
// are ignored. Decoding stops at the first '!'. Input that would decode to more than
// universe.MaxPatternCells cells fails with universe.ErrPatternTooLarge.
func ParseRLE(name string, r io.Reader) (*universe.Pattern, error) {
	var (
		rows  [][]universe.Cell
		cur   []universe.Cell
		width int
		done  bool
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineLength)
	for !done && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "", rleComment.MatchString(line):
			continue
		case rleSize.MatchString(line):
			if m := rleSize.FindStringSubmatch(line); m[1] == "" || m[2] == "" {
				return nil, fmt.Errorf("%s: malformed size line %q", name, line)
			}
			continue
		case !rleContent.MatchString(line):
			continue
		}

		for _, tok := range rleToken.FindAllStringSubmatch(line, -1) {
			n := 1
			if tok[1] != "" {
				v, err := strconv.Atoi(tok[1])
				if err != nil || v > maxRunLength {
					return nil, fmt.Errorf("%s: bad run length %q", name, tok[1])
				}
				n = v
			}
			switch tok[2] {
			case "b":
				cur = appendRun(cur, universe.Dead, n)
			case "o":
				cur = appendRun(cur, universe.Alive, n)
			case "$":
				width = max(width, len(cur))
				rows = append(rows, cur)
				for i := 1; i < n; i++ {
					rows = append(rows, nil)
				}
				cur = nil
			case "!":
				done = true
			}
			if err := checkBudget(name, max(width, len(cur)), len(rows)+1); err != nil {
				return nil, err
			}
			if done {
				break
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(cur) > 0 {
		rows = append(rows, cur)
	}
	return universe.PatternFromRows(name, rows)
}

// checkBudget fails once the bounding box decoded so far exceeds the pattern budget
// rows without cells still count as one cell wide
func checkBudget(name string, width int, height int) error {
	if width > universe.MaxPatternCells/height || height > universe.MaxPatternCells {
		return fmt.Errorf("%w: %s grows past %dx%d", universe.ErrPatternTooLarge, name, width, height)
	}
	return nil
}

func appendRun(row []universe.Cell, c universe.Cell, n int) []universe.Cell {
	for i := 0; i < n; i++ {
		row = append(row, c)
	}
	return row
}
