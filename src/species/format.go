// Package species loads pattern source files into the universe's species collection.
//
// Two formats are understood: the plaintext cell grid (.cells) and the run length
// encoded format (.rle, .lif). Every parsed pattern is expanded into six orientations
// before it is added, and a file is either added completely or not at all.
package species

import (
	"fmt"
	"path"
	"strings"
)

// Format identifies a pattern source format.
type Format int

const (
	Plaintext Format = iota
	RLE
)

// Formats lists every supported format.
var Formats = []Format{Plaintext, RLE}

var extensions = map[Format][]string{
	Plaintext: {".cells"},
	RLE:       {".rle", ".lif"},
}

func (f Format) String() string {
	switch f {
	case Plaintext:
		return "plaintext"
	case RLE:
		return "rle"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extensions returns the file extensions of the format, lower case with the dot.
func (f Format) Extensions() []string {
	return extensions[f]
}

// Matches reports whether the file name carries one of the format's extensions.
func (f Format) Matches(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range f.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// ParseFormat resolves a format name or extension ("plaintext", "cells", "rle", ".lif", ...).
func ParseFormat(s string) (Format, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	switch s {
	case "plaintext", "cells":
		return Plaintext, nil
	case "rle", "lif":
		return RLE, nil
	}
	return 0, fmt.Errorf("unknown species format %q", s)
}

// ParseFormats resolves a list of format names, an empty list means every format.
// Duplicates are dropped so a file is never loaded twice.
func ParseFormats(names []string) ([]Format, error) {
	if len(names) == 0 {
		return Formats, nil
	}
	var res []Format
	seen := map[Format]bool{}
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			res = append(res, f)
		}
	}
	return res, nil
}
