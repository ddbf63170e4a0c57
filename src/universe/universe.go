package universe

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Cell is the state of one position of the world
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

// Area is a dense rectangular piece of one generation, Entities[y][x]
type Area struct {
	Width    int
	Height   int
	Entities [][]Cell
}

// WorldBounds describes a snapshot request, may exceed the world size (wraps around)
type WorldBounds struct {
	X int
	Y int
	W int
	H int
}

// Point is an absolute world coordinate
type Point struct {
	X int
	Y int
}

// Options represents the Universe's configurable options
type Options struct {
	Width   int
	Height  int
	History int
}

// Status represents the status of the Universe right after a published tick
type Status struct {
	IterationNum    int
	CurrentTime     int
	LiveCells       int
	IterationTime   time.Duration
	Injected        bool
	InjectedPattern string
	InjectedID      uuid.UUID //names repeat across species directories, ids do not
	InjectedAt      Point
}

// LogValue implements slog.LogValuer
func (s Status) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("iteration", s.IterationNum),
		slog.Int("slot", s.CurrentTime),
		slog.Int("live", s.LiveCells),
		slog.Duration("elapsed", s.IterationTime),
	}
	if s.Injected {
		attrs = append(attrs,
			slog.String("pattern", s.InjectedPattern),
			slog.String("pattern_id", s.InjectedID.String()),
			slog.Int("x", s.InjectedAt.X),
			slog.Int("y", s.InjectedAt.Y))
	}
	return slog.GroupValue(attrs...)
}

// Viewer is the interface to any Viewer - the object which is notified after every published tick
type Viewer interface {
	Refresh(st Status)
}

// default options
const (
	DefWidth           = 1024
	DefHeight          = 1024
	DefHistory         = 100
	DefEngineInterval  = time.Millisecond * 100
	DefEntropyInterval = time.Second * 10
	DefFillDensity     = 0.25
)

// MaxPatternCells is the largest width*height a species pattern may have
const MaxPatternCells = 1 << 20

var DefaultUniverseOptions = Options{
	Width:   DefWidth,
	Height:  DefHeight,
	History: DefHistory,
}

var (
	//ErrPoisoned is returned when a previous writer terminated in the middle of an update
	ErrPoisoned = errors.New("universe: lock poisoned by an interrupted update")
	//ErrInvalidBounds is returned for a snapshot request with non-positive size
	ErrInvalidBounds = errors.New("universe: snapshot bounds must have positive width and height")
	//ErrEmptyPattern is returned when a pattern would have no width or no height
	ErrEmptyPattern = errors.New("universe: pattern has no cells")
	//ErrPatternTooLarge is returned when a pattern would exceed MaxPatternCells
	ErrPatternTooLarge = errors.New("universe: pattern exceeds the cell budget")
	//ErrNoPatterns is returned by the entropy source when nothing was loaded
	ErrNoPatterns = errors.New("universe: no species patterns loaded")
	//ErrReceiverGone is returned when sending to a queue whose consumer stopped
	ErrReceiverGone = errors.New("universe: entropy receiver is gone")
)
