package universe

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"
)

/*
	Evolution engine, the only writer of the universe
	each tick computes generation t+1 from generation t into the next time slot,
	merges at most one pending entropy event and only then moves the current time pointer
	the grid is split into row bands each of which is computed by individual goroutine
*/

const (
	DefMinRowsPerWorker = 3 //minimum rows for one worker
)

// EngineOptions represents the Engine's configurable options
type EngineOptions struct {
	Interval time.Duration //delay between the end of one tick and the start of the next
	Workers  int           //0 means GOMAXPROCS
	MaxSteps int           //0 means unlimited
	Seed     int64         //seed for origin selection, 0 means time based
	Logger   *slog.Logger
}

type Engine struct {
	u         *Universe
	queue     *EventQueue
	options   EngineOptions
	logger    *slog.Logger
	rng       *rand.Rand
	views     []Viewer
	workAreas []workArea
	iteration int
}

// workArea describes the band of rows for the worker
type workArea struct {
	y1        int
	y2        int
	liveCells int
}

// NewEngine creates the engine, it does not start until Run or Step is called
func NewEngine(u *Universe, q *EventQueue, o EngineOptions) *Engine {
	if o.Interval < 0 {
		o.Interval = 0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	e := Engine{
		u:       u,
		queue:   q,
		options: o,
		logger:  o.Logger.With("component", "engine"),
		rng:     newRNG(o.Seed),
	}

	height := u.options.Height
	linesPerWorker := height / workers
	if linesPerWorker < DefMinRowsPerWorker {
		linesPerWorker = DefMinRowsPerWorker
	} else if linesPerWorker*workers < height {
		linesPerWorker++
	}
	e.workAreas = make([]workArea, 0, workers)
	for y1 := 0; y1 < height; y1 += linesPerWorker {
		y2 := y1 + linesPerWorker - 1
		if y2 > height-1 {
			y2 = height - 1
		}
		e.workAreas = append(e.workAreas, workArea{y1: y1, y2: y2})
	}
	e.options.Workers = len(e.workAreas)
	return &e
}

// Options returns the engine configuration, Workers is the actual count of row bands
func (e *Engine) Options() EngineOptions {
	return e.options
}

// RegisterViewer registers the viewer - the engine calls it after every published tick
// must be called before Run
func (e *Engine) RegisterViewer(v Viewer) {
	e.views = append(e.views, v)
}

// Run is the fixed-delay loop, it returns when ctx is done or MaxSteps ticks were published
// on return the entropy queue is closed, so the sender sees the receiver is gone
func (e *Engine) Run(ctx context.Context) {
	defer e.queue.Close()
	h, w, y := e.u.spacetime.Dimensions()
	e.logger.Info("engine started",
		"history", h, "width", w, "height", y,
		"interval", e.options.Interval, "workers", e.options.Workers)

	for {
		st, err := e.Step()
		if err != nil {
			e.logger.Warn("tick skipped", "error", err)
			if errors.Is(err, ErrPoisoned) && e.u.Recover() {
				e.logger.Info("universe lock recovered")
			}
		} else {
			e.logger.Debug("tick", "status", st)
			if e.options.MaxSteps > 0 && st.IterationNum >= e.options.MaxSteps {
				e.logger.Info("max steps reached", "iteration", st.IterationNum)
				return
			}
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped", "iteration", e.iteration)
			return
		case <-time.After(e.options.Interval):
		}
	}
}

// Step does one tick under the exclusive lock and notifies the viewers
func (e *Engine) Step() (Status, error) {
	var st Status
	start := time.Now()
	err := e.u.write(func() {
		st = e.nextGeneration()
	})
	if err != nil {
		return Status{}, err
	}
	e.iteration++
	st.IterationNum = e.iteration
	st.IterationTime = time.Since(start)
	e.refreshView(st)
	return st, nil
}

// nextGeneration calculates slot t+1, merges one entropy event and publishes t+1
// caller holds the exclusive lock
func (e *Engine) nextGeneration() Status {
	u := e.u
	next := wrap(u.currentTime+1, u.options.History)
	src := u.spacetime.Plane(u.currentTime)
	dst := u.spacetime.Plane(next)

	var waitGroup sync.WaitGroup
	for i := range e.workAreas {
		wa := &e.workAreas[i]
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			e.calcArea(src, dst, wa)
		}()
	}
	waitGroup.Wait()

	st := Status{}
	for _, wa := range e.workAreas {
		st.LiveCells += wa.liveCells
	}

	if ev, ok := e.queue.TryRecv(); ok && ev.Pattern != nil {
		var origin Point
		if ev.Origin != nil {
			origin = *ev.Origin
		} else {
			origin = Point{X: e.rng.IntN(u.options.Width), Y: e.rng.IntN(u.options.Height)}
		}
		st.LiveCells += e.inject(next, ev.Pattern, origin)
		st.Injected = true
		st.InjectedPattern = ev.Pattern.Name()
		st.InjectedID = ev.Pattern.ID()
		st.InjectedAt = origin
	}

	//publish: every write of slot next is done
	u.currentTime = next
	st.CurrentTime = next
	return st
}

// calcArea calculates new states for the rows of the work area
// neighbours are read from src only, dst rows of different work areas never overlap
func (e *Engine) calcArea(src []Cell, dst []Cell, wa *workArea) {
	w, h := e.u.options.Width, e.u.options.Height
	wa.liveCells = 0
	for y := wa.y1; y <= wa.y2; y++ {
		up := src[wrap(y-1, h)*w : wrap(y-1, h)*w+w]
		row := src[y*w : y*w+w]
		down := src[wrap(y+1, h)*w : wrap(y+1, h)*w+w]
		out := dst[y*w : y*w+w]
		for x := 0; x < w; x++ {
			l := wrap(x-1, w)
			r := wrap(x+1, w)
			neighbours := up[l] + up[x] + up[r] +
				row[l] + row[r] +
				down[l] + down[x] + down[r]
			next := cellNextState(row[x], neighbours)
			out[x] = next
			wa.liveCells += int(next)
		}
	}
}

// cellNextState applies the B3/S23 rule
func cellNextState(c Cell, liveNeighbours Cell) Cell {
	if liveNeighbours == 3 || (liveNeighbours == 2 && c == Alive) {
		return Alive
	}
	return Dead
}

// inject overwrites the pattern footprint at origin in slot t, surrounded by a one cell wide dead border
// returns the change of the live cells count
func (e *Engine) inject(t int, p *Pattern, origin Point) (delta int) {
	s := e.u.spacetime
	set := func(x int, y int, c Cell) {
		i := s.Index(t, origin.X+x, origin.Y+y)
		delta += int(c) - int(s.cells[i])
		s.cells[i] = c
	}
	pw, ph := p.Width(), p.Height()
	for x := -1; x <= pw; x++ {
		set(x, -1, Dead)
		set(x, ph, Dead)
	}
	for y := 0; y < ph; y++ {
		set(-1, y, Dead)
		set(pw, y, Dead)
	}
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			set(x, y, p.At(x, y))
		}
	}
	return delta
}

// refreshView calls Refresh for all registered views
func (e *Engine) refreshView(st Status) {
	for _, v := range e.views {
		v.Refresh(st)
	}
}
