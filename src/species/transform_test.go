package species

import (
	"io/fs"
	"strings"
	"testing"

	"entropylife/src/universe"
)

func builtinBases(t *testing.T) []*universe.Pattern {
	t.Helper()
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		t.Fatal(err)
	}
	var res []*universe.Pattern
	for _, f := range Formats {
		paths, err := Discover(sub, f)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range paths {
			file, err := sub.Open(p)
			if err != nil {
				t.Fatal(err)
			}
			base, err := Parse(f, p, file)
			file.Close()
			if err != nil {
				t.Fatalf("%s: %v", p, err)
			}
			res = append(res, base)
		}
	}
	return res
}

func TestVariantsKeepLiveCells(t *testing.T) {
	for _, base := range builtinBases(t) {
		variants, err := Variants(base)
		if err != nil {
			t.Fatal(err)
		}
		if len(variants) != 6 {
			t.Fatalf("%s: %d variants", base.Name(), len(variants))
		}
		for i, v := range variants {
			if v.LiveCells() != base.LiveCells() {
				t.Fatalf("%s: %s has %d live cells, base %d", base.Name(), Orientations[i], v.LiveCells(), base.LiveCells())
			}
		}
	}
}

func TestFourQuarterTurnsAreIdentity(t *testing.T) {
	for _, base := range builtinBases(t) {
		p := base
		for i := 0; i < 4; i++ {
			var err error
			if p, err = Orient(p, Rotate90); err != nil {
				t.Fatal(err)
			}
		}
		if !p.Equal(base) {
			t.Fatalf("%s: four rotations changed the pattern", base.Name())
		}
	}
}

func TestOrientations(t *testing.T) {
	// o o .
	// . . o
	base := mustParse(t, "oo.\n..o")
	cases := []struct {
		o    Orientation
		want []string
	}{
		{Identity, []string{"oo.", "..o"}},
		{Rotate90, []string{".o", "o.", "o."}},
		{Rotate180, []string{"o..", ".oo"}},
		{Rotate270, []string{".o", ".o", "o."}},
		{FlipH, []string{".oo", "o.."}},
		{FlipV, []string{"..o", "oo."}},
	}
	for _, c := range cases {
		t.Run(string(c.o), func(t *testing.T) {
			v, err := Orient(base, c.o)
			if err != nil {
				t.Fatal(err)
			}
			assertRows(t, v, c.want...)
			if v.Name() != "shape/"+string(c.o) {
				t.Fatalf("name = %s", v.Name())
			}
		})
	}
}

func TestRotationsCompose(t *testing.T) {
	base := mustParse(t, "ooo\no..")
	r90, _ := Orient(base, Rotate90)
	r180, _ := Orient(base, Rotate180)
	r270, _ := Orient(base, Rotate270)
	twice, _ := Orient(r90, Rotate90)
	thrice, _ := Orient(twice, Rotate90)
	if !twice.Equal(r180) || !thrice.Equal(r270) {
		t.Fatal("rot180 and rot270 must be repeated quarter turns")
	}
}

func mustParse(t *testing.T, s string) *universe.Pattern {
	t.Helper()
	p, err := ParsePlaintext("shape", strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	return p
}
