package species

import (
	"errors"
	"strings"
	"testing"

	"entropylife/src/universe"
)

func cellsOf(p *universe.Pattern) []string {
	rows := make([]string, p.Height())
	for y := range rows {
		var b strings.Builder
		for x := 0; x < p.Width(); x++ {
			if p.At(x, y) == universe.Alive {
				b.WriteByte('o')
			} else {
				b.WriteByte('.')
			}
		}
		rows[y] = b.String()
	}
	return rows
}

func assertRows(t *testing.T, p *universe.Pattern, want ...string) {
	t.Helper()
	got := cellsOf(p)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("pattern %s:\n%s\nwant:\n%s", p.Name(), strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestParsePlaintextPlus(t *testing.T) {
	p, err := ParsePlaintext("plus", strings.NewReader(".X.\nXXX\n.X."))
	if err != nil {
		t.Fatal(err)
	}
	if p.Width() != 3 || p.Height() != 3 {
		t.Fatalf("size %dx%d", p.Width(), p.Height())
	}
	want := map[[2]int]bool{{1, 0}: true, {0, 1}: true, {1, 1}: true, {2, 1}: true, {1, 2}: true}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if alive := p.At(x, y) == universe.Alive; alive != want[[2]int{x, y}] {
				t.Fatalf("cell (%d,%d) alive=%v", x, y, alive)
			}
		}
	}
}

func TestParsePlaintext(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"comments skipped", "!Name: Glider\n!\n.O.\n..O\nOOO\n", []string{".o.", "..o", "ooo"}},
		{"jagged rows", "O\n..O\nOO", []string{"o..", "..o", "oo."}},
		{"inner blank row", "O\n\nO\n", []string{"o", ".", "o"}},
		{"crlf and spaces", "  .O \r\nO.\r\n\r\n", []string{".o", "o."}},
		{"any live char", "*#.", []string{"oo."}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := ParsePlaintext(c.name, strings.NewReader(c.input))
			if err != nil {
				t.Fatal(err)
			}
			assertRows(t, p, c.want...)
		})
	}
}

func TestParsePlaintextEmpty(t *testing.T) {
	for _, in := range []string{"", "!only comments\n", "\n\n"} {
		if _, err := ParsePlaintext("empty", strings.NewReader(in)); !errors.Is(err, universe.ErrEmptyPattern) {
			t.Fatalf("%q: err = %v, want ErrEmptyPattern", in, err)
		}
	}
}

func TestParseTooLarge(t *testing.T) {
	grid := strings.Repeat(strings.Repeat("o", 1024)+"\n", 1025)
	if _, err := ParsePlaintext("grid", strings.NewReader(grid)); !errors.Is(err, universe.ErrPatternTooLarge) {
		t.Fatalf("plaintext: err = %v, want ErrPatternTooLarge", err)
	}
	if _, err := ParseRLE("cross", strings.NewReader("4096o$4096$!")); !errors.Is(err, universe.ErrPatternTooLarge) {
		t.Fatalf("rle: err = %v, want ErrPatternTooLarge", err)
	}
	if _, err := ParseRLE("fits", strings.NewReader("1024o$1023$1024o!")); err != nil {
		t.Fatalf("a pattern inside the budget must load: %v", err)
	}
}

func TestParseRLEScenario(t *testing.T) {
	p, err := ParseRLE("scenario", strings.NewReader("3o$2bo!"))
	if err != nil {
		t.Fatal(err)
	}
	assertRows(t, p, "ooo", "..o")
}

func TestParseRLE(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"glider with header", "#N Glider\n#C comment\nx = 3, y = 3, rule = B3/S23\nbo$2bo$3o!\n", []string{".o.", "..o", "ooo"}},
		{"default count", "obo$bob!", []string{"o.o", ".o."}},
		{"multi row terminator", "o$2$o!", []string{"o", ".", ".", "o"}},
		{"stops at bang", "2o$2o!3o$3o!", []string{"oo", "oo"}},
		{"split content lines", "x = 4, y = 2\n2o\n2o$\n4o!\n", []string{"oooo", "oooo"}},
		{"trailing terminator", "o$!", []string{"o"}},
		{"other lines ignored", "garbage line here\no2bo!\n", []string{"o..o"}},
		{"text after bang", "bo!\nthis is a comment section\n3o$3o", []string{".o"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := ParseRLE(c.name, strings.NewReader(c.input))
			if err != nil {
				t.Fatal(err)
			}
			assertRows(t, p, c.want...)
		})
	}
}

func TestParseRLEMalformed(t *testing.T) {
	cases := map[string]string{
		"no content":    "#N nothing\nx = 0, y = 0\n",
		"bad size line": "x = , y = 3\nooo!",
		"huge run":      "99999999o!",
		"wide and tall": "65536o$65536$!",
		"only newlines": strings.Repeat("65536$", 20) + "o!",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseRLE(name, strings.NewReader(in)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"cells": Plaintext, ".CELLS": Plaintext, "plaintext": Plaintext, "rle": RLE, ".lif": RLE} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("png"); err == nil {
		t.Fatal("unknown format must fail")
	}
	if !RLE.Matches("dir/Gun.LIF") || Plaintext.Matches("gun.rle") {
		t.Fatal("extension matching")
	}
}
