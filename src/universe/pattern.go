package universe

import (
	"fmt"

	"github.com/google/uuid"
)

// Pattern is an immutable rectangular matrix of cells (a species)
// it is created once at load time and then only read, so it can be shared between goroutines freely
type Pattern struct {
	id     uuid.UUID
	name   string
	width  int
	height int
	live   int
	cells  []Cell
}

// NewPattern creates the pattern from the row-major cells, the slice is copied
func NewPattern(name string, width int, height int, cells []Cell) (*Pattern, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %q is %dx%d", ErrEmptyPattern, name, width, height)
	}
	if width > MaxPatternCells/height {
		return nil, fmt.Errorf("%w: %q is %dx%d", ErrPatternTooLarge, name, width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("pattern %q: got %d cells for %dx%d", name, len(cells), width, height)
	}
	p := &Pattern{
		id:     uuid.New(),
		name:   name,
		width:  width,
		height: height,
		cells:  make([]Cell, len(cells)),
	}
	for i, c := range cells {
		if c != Dead {
			c = Alive
			p.live++
		}
		p.cells[i] = c
	}
	return p, nil
}

// PatternFromRows creates the pattern from rows of different length
// width is the longest row, the missing trailing cells of shorter rows stay Dead
func PatternFromRows(name string, rows [][]Cell) (*Pattern, error) {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	height := len(rows)
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyPattern, name)
	}
	if width > MaxPatternCells/height {
		return nil, fmt.Errorf("%w: %q is %dx%d", ErrPatternTooLarge, name, width, height)
	}
	cells := make([]Cell, width*height)
	for y, r := range rows {
		copy(cells[y*width:], r)
	}
	return NewPattern(name, width, height, cells)
}

func (p *Pattern) ID() uuid.UUID { return p.id }

func (p *Pattern) Name() string { return p.name }

func (p *Pattern) Width() int { return p.width }

func (p *Pattern) Height() int { return p.height }

// LiveCells returns the count of Alive cells
func (p *Pattern) LiveCells() int { return p.live }

// At returns the cell at x, y; coordinates outside the pattern are Dead
func (p *Pattern) At(x int, y int) Cell {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return Dead
	}
	return p.cells[y*p.width+x]
}

// Equal reports whether both patterns have the same shape and cells, names and ids are ignored
func (p *Pattern) Equal(o *Pattern) bool {
	if p.width != o.width || p.height != o.height {
		return false
	}
	for i := range p.cells {
		if p.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

func (p *Pattern) String() string {
	return fmt.Sprintf("%s (%dx%d, %d live)", p.name, p.width, p.height, p.live)
}
