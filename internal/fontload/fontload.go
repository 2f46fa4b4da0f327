// Package fontload locates font files and reads them into memory.
package fontload

import (
	"errors"
	"fmt"
	"os"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'fontmesh'
func tracer() tracing.Trace {
	return tracing.Select("fontmesh")
}

// ErrFontNotFound is returned if a font can neither be found as a file nor as
// an installed system font.
var ErrFontNotFound = errors.New("font not found")

// ScalableFont is a font file read into memory.
type ScalableFont struct {
	Fontname string // full font name from the font's name table, if present
	Filepath string
	Binary   []byte
}

// Load loads a font from a file. If nameOrPath is not an existing file, it is
// looked up as a system font.
func Load(nameOrPath string) (*ScalableFont, error) {
	path := nameOrPath
	if _, err := os.Stat(path); err != nil {
		if path, err = findfont.Find(nameOrPath); err != nil || path == "" {
			return nil, fmt.Errorf("%w: %s", ErrFontNotFound, nameOrPath)
		}
		tracer().Debugf("%s is a system font at %s", nameOrPath, path)
	}
	return LoadFontFile(path)
}

// LoadFontFile loads a font from a file.
func LoadFontFile(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f := ParseFont(bytez)
	f.Filepath = fontfile
	return f, nil
}

// ParseFont wraps font data. The font name is read from the name table as far as
// package sfnt can decode it. ParseFont does not validate the font, which is
// left to the mesh compiler.
func ParseFont(fbytes []byte) *ScalableFont {
	f := &ScalableFont{Binary: fbytes}
	if s, err := sfnt.Parse(fbytes); err == nil {
		if f.Fontname, err = s.Name(nil, sfnt.NameIDFull); err != nil {
			tracer().Debugf("font has no full name: %v", err)
		}
	}
	return f
}
