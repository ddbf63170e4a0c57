package species

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"entropylife/src/universe"
)

//go:embed builtin
var builtinFS embed.FS

// Parse decodes one pattern in the given format.
func Parse(f Format, name string, r io.Reader) (*universe.Pattern, error) {
	switch f {
	case Plaintext:
		return ParsePlaintext(name, r)
	case RLE:
		return ParseRLE(name, r)
	}
	return nil, fmt.Errorf("%s: unsupported format %v", name, f)
}

// Discover walks fsys and returns the paths of all files of the format, sorted so
// the load order, and with it seeded entropy sampling, is reproducible.
func Discover(fsys fs.FS, f Format) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && f.Matches(p) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering %v species: %w", f, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Load parses every file, expands it into its six orientations and appends them to
// the universe. A file that cannot be read or parsed is logged and skipped. It must
// run before the engine and the entropy source start. Returns the count of files
// loaded.
func Load(u *universe.Universe, fsys fs.FS, f Format, paths []string, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}
	loaded := 0
	for _, p := range paths {
		variants, err := loadFile(fsys, f, p)
		if err != nil {
			logger.Warn("species skipped", "path", p, "format", f, "error", err)
			continue
		}
		u.AddPatterns(variants...)
		loaded++
		for _, v := range variants {
			logger.Debug("species loaded", "path", p, "pattern", v, "id", v.ID())
		}
	}
	return loaded
}

func loadFile(fsys fs.FS, f Format, p string) ([]*universe.Pattern, error) {
	file, err := fsys.Open(p)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	base, err := Parse(f, name, file)
	if err != nil {
		return nil, err
	}
	return Variants(base)
}

// LoadFS discovers and loads the files of the given formats found in fsys, every
// supported format when none is given.
func LoadFS(u *universe.Universe, fsys fs.FS, logger *slog.Logger, formats ...Format) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(formats) == 0 {
		formats = Formats
	}
	total := 0
	for _, f := range formats {
		paths, err := Discover(fsys, f)
		if err != nil {
			return total, err
		}
		total += Load(u, fsys, f, paths, logger)
	}
	return total, nil
}

// LoadDir loads the pattern files of the given formats below dir.
func LoadDir(u *universe.Universe, dir string, logger *slog.Logger, formats ...Format) (int, error) {
	if _, err := os.Stat(dir); err != nil {
		return 0, fmt.Errorf("species directory: %w", err)
	}
	return LoadFS(u, os.DirFS(dir), logger, formats...)
}

// LoadBuiltin loads the species compiled into the binary.
func LoadBuiltin(u *universe.Universe, logger *slog.Logger, formats ...Format) (int, error) {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		return 0, err
	}
	return LoadFS(u, sub, logger, formats...)
}
