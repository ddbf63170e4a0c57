package universe

import (
	"fmt"
	"sync"
)

// Universe is the shared aggregate: the spacetime buffer, the current time pointer and the species patterns
// one RWMutex guards all of it: the engine is the only writer, the entropy source and snapshot readers share it
type Universe struct {
	options Options

	mu          sync.RWMutex
	poisoned    bool
	spacetime   *Spacetime
	currentTime int
	patterns    []*Pattern
}

// New creates the Universe instance, every cell of every slot is Dead and the current time is 0
func New(o *Options) *Universe {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	s := NewSpacetime(o.History, o.Width, o.Height)
	u := Universe{spacetime: s}
	u.options.History, u.options.Width, u.options.Height = s.Dimensions()
	return &u
}

// Options returns the universe configuration (after clamping)
func (u *Universe) Options() Options {
	return u.options
}

// Snapshot returns the cells of the current generation inside bounds
// the result always has bounds.W x bounds.H cells, coordinates outside the world wrap around
func (u *Universe) Snapshot(b WorldBounds) (Area, error) {
	if b.W <= 0 || b.H <= 0 {
		return Area{}, fmt.Errorf("%w: %dx%d", ErrInvalidBounds, b.W, b.H)
	}
	a := createArea(b.W, b.H)
	err := u.read(func() {
		plane := u.spacetime.Plane(u.currentTime)
		for j := 0; j < b.H; j++ {
			_, y := u.spacetime.Normalize(0, b.Y+j)
			row := plane[y*u.options.Width : (y+1)*u.options.Width]
			for i := 0; i < b.W; i++ {
				x, _ := u.spacetime.Normalize(b.X+i, 0)
				a.Entities[j][i] = row[x]
			}
		}
	})
	if err != nil {
		return Area{}, err
	}
	return a, nil
}

// CurrentTime returns the slot holding the current generation
func (u *Universe) CurrentTime() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.currentTime
}

// AddPatterns appends species to the collection, it is called by the loader before the loops start
func (u *Universe) AddPatterns(p ...*Pattern) {
	u.mu.Lock()
	u.patterns = append(u.patterns, p...)
	u.mu.Unlock()
}

// Patterns returns a copy of the species collection in insertion order
func (u *Universe) Patterns() []*Pattern {
	u.mu.RLock()
	defer u.mu.RUnlock()
	res := make([]*Pattern, len(u.patterns))
	copy(res, u.patterns)
	return res
}

// Settle makes the cells alive in the current generation
// vc - array of x,y coordinates, wrapped around the world
func (u *Universe) Settle(vc [][]int) error {
	return u.write(func() {
		for _, v := range vc {
			if len(v) < 2 {
				continue
			}
			u.spacetime.Write(u.currentTime, v[0], v[1], Alive)
		}
	})
}

// SettleWithRandomData populates the current generation with random data, density is the share of live cells
func (u *Universe) SettleWithRandomData(seed int64, density float64) error {
	rng := newRNG(seed)
	return u.write(func() {
		plane := u.spacetime.Plane(u.currentTime)
		for i := range plane {
			if rng.Float64() < density {
				plane[i] = Alive
			} else {
				plane[i] = Dead
			}
		}
	})
}

// LiveCells calculates the count of live cells of the current generation
func (u *Universe) LiveCells() (int, error) {
	liveCells := 0
	err := u.read(func() {
		for _, c := range u.spacetime.Plane(u.currentTime) {
			liveCells += int(c)
		}
	})
	return liveCells, err
}

// Recover clears the poisoned mark
// an interrupted tick only ever wrote the next slot, the current generation is still complete
func (u *Universe) Recover() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	was := u.poisoned
	u.poisoned = false
	return was
}

// read runs fn holding the shared lock
func (u *Universe) read(fn func()) error {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.poisoned {
		return ErrPoisoned
	}
	fn()
	return nil
}

// write runs fn holding the exclusive lock
// a panic inside fn poisons the universe and is returned as an error
func (u *Universe) write(fn func()) (err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.poisoned {
		return ErrPoisoned
	}
	defer func() {
		if r := recover(); r != nil {
			u.poisoned = true
			err = fmt.Errorf("%w: %v", ErrPoisoned, r)
		}
	}()
	fn()
	return nil
}

// createArea allocates the new area with a single backing buffer
func createArea(width int, height int) Area {
	area := Area{Width: width, Height: height, Entities: make([][]Cell, height)}
	b := make([]Cell, width*height)
	for i := range area.Entities {
		start := width * i
		area.Entities[i] = b[start : start+width : start+width]
	}
	return area
}
