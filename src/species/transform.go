package species

import "entropylife/src/universe"

// Orientation names one of the six derived variants of a base pattern.
type Orientation string

const (
	Identity  Orientation = "identity"
	Rotate90  Orientation = "rot90"
	Rotate180 Orientation = "rot180"
	Rotate270 Orientation = "rot270"
	FlipH     Orientation = "fliph"
	FlipV     Orientation = "flipv"
)

// Orientations lists the variants in the order Variants produces them.
var Orientations = []Orientation{Identity, Rotate90, Rotate180, Rotate270, FlipH, FlipV}

// Variants expands a base pattern into its six orientations. Each variant is a new
// immutable pattern named "<base>/<orientation>".
func Variants(p *universe.Pattern) ([]*universe.Pattern, error) {
	res := make([]*universe.Pattern, 0, len(Orientations))
	for _, o := range Orientations {
		v, err := Orient(p, o)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

// Orient returns a copy of p in the given orientation.
func Orient(p *universe.Pattern, o Orientation) (*universe.Pattern, error) {
	w, h := p.Width(), p.Height()
	name := p.Name() + "/" + string(o)
	switch o {
	case Rotate90:
		// quarter turn counterclockwise, width and height swap
		return transform(name, h, w, func(x, y int) universe.Cell { return p.At(w-1-y, x) })
	case Rotate180:
		return transform(name, w, h, func(x, y int) universe.Cell { return p.At(w-1-x, h-1-y) })
	case Rotate270:
		return transform(name, h, w, func(x, y int) universe.Cell { return p.At(y, h-1-x) })
	case FlipH:
		return transform(name, w, h, func(x, y int) universe.Cell { return p.At(w-1-x, y) })
	case FlipV:
		return transform(name, w, h, func(x, y int) universe.Cell { return p.At(x, h-1-y) })
	}
	return transform(name, w, h, p.At)
}

func transform(name string, w, h int, at func(x, y int) universe.Cell) (*universe.Pattern, error) {
	cells := make([]universe.Cell, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cells[y*w+x] = at(x, y)
		}
	}
	return universe.NewPattern(name, w, h, cells)
}
