package view

import (
	"strings"

	"entropylife/src/universe"
)

// RenderText renders the area one line per row, live and dead are the fillers of the cells
func RenderText(a universe.Area, live string, dead string) string {
	var b strings.Builder
	b.Grow(a.Height * (a.Width*len(live) + 1))
	for i, l := range a.Entities {
		//line feed char
		if i != 0 {
			b.WriteByte('\n')
		}
		for _, e := range l {
			if e == universe.Alive {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
	}
	return b.String()
}
