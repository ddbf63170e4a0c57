package universe

/*
Spacetime is the flat time-indexed toroidal store
one contiguous buffer of history*width*height cells, slot t occupies [t*w*h, (t+1)*w*h) in row-major order
every axis wraps: time modulo history, x modulo width, y modulo height
no locking here, the Universe guards it
*/
type Spacetime struct {
	history int
	width   int
	height  int
	cells   []Cell
}

// NewSpacetime allocates the store, all cells of all slots are Dead
func NewSpacetime(history int, width int, height int) *Spacetime {
	//slot t+1 must differ from slot t
	if history < 2 {
		history = 2
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Spacetime{
		history: history,
		width:   width,
		height:  height,
		cells:   make([]Cell, history*width*height),
	}
}

// Dimensions returns history depth, width and height
func (s *Spacetime) Dimensions() (history int, width int, height int) {
	return s.history, s.width, s.height
}

// Index maps (t, x, y) to the linear offset, after wrapping all three axes
func (s *Spacetime) Index(t int, x int, y int) int {
	t = wrap(t, s.history)
	x, y = s.Normalize(x, y)
	return (t*s.height+y)*s.width + x
}

// Normalize wraps x and y into [0, width) and [0, height), for any distance outside the range
func (s *Spacetime) Normalize(x int, y int) (int, int) {
	return wrap(x, s.width), wrap(y, s.height)
}

// Read returns the cell of slot t at x, y
func (s *Spacetime) Read(t int, x int, y int) Cell {
	return s.cells[s.Index(t, x, y)]
}

// Write stores the cell of slot t at x, y
func (s *Spacetime) Write(t int, x int, y int, c Cell) {
	s.cells[s.Index(t, x, y)] = c
}

// Plane exposes the backing row-major slice of one time slot
// Plane(t)[y*width+x] is the cell at x, y; the caller must keep x and y in range
func (s *Spacetime) Plane(t int) []Cell {
	size := s.width * s.height
	start := wrap(t, s.history) * size
	return s.cells[start : start+size : start+size]
}

// wrap reduces v into [0, size)
func wrap(v int, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}
