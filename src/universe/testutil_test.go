package universe

import (
	"hash/fnv"
	"io"
	"log/slog"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestUniverse(w, h, history int) *Universe {
	return New(&Options{Width: w, Height: h, History: history})
}

func newTestEngine(u *Universe, q *EventQueue, workers int) *Engine {
	return NewEngine(u, q, EngineOptions{Workers: workers, Seed: 7, Logger: quietLogger()})
}

func mustSnapshot(t testing.TB, u *Universe) Area {
	t.Helper()
	o := u.Options()
	a, err := u.Snapshot(WorldBounds{W: o.Width, H: o.Height})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func liveSet(a Area) map[Point]bool {
	res := map[Point]bool{}
	for y, row := range a.Entities {
		for x, c := range row {
			if c == Alive {
				res[Point{x, y}] = true
			}
		}
	}
	return res
}

func checksum(a Area) uint64 {
	h := fnv.New64a()
	for _, row := range a.Entities {
		b := make([]byte, len(row))
		for i, c := range row {
			b[i] = byte(c)
		}
		_, _ = h.Write(b)
	}
	return h.Sum64()
}

func mustPattern(t testing.TB, name string, rows ...string) *Pattern {
	t.Helper()
	cells := make([][]Cell, len(rows))
	for y, r := range rows {
		for _, ch := range r {
			if ch == 'o' {
				cells[y] = append(cells[y], Alive)
			} else {
				cells[y] = append(cells[y], Dead)
			}
		}
	}
	p, err := PatternFromRows(name, cells)
	if err != nil {
		t.Fatal(err)
	}
	return p
}
