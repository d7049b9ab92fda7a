// Package codec defines the interface shared by the font container formats
// and a registry for selecting one by command name or file extension.
package codec

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/consoleet/consoleet-utils/internal/vfont"
)

// ErrUnsupported is returned by codecs that only implement one direction.
var ErrUnsupported = errors.New("codec: operation not supported by this format")

// Codec loads a font container into a Font and saves one back out. Loading
// appends to the existing glyph sequence, matching the command-list model
// where several loads accumulate into one font.
type Codec interface {
	Load(path string, fnt *vfont.Font) error
	Save(path string, fnt *vfont.Font) error
}

var (
	byName = make(map[string]Codec)
	byExt  = make(map[string]Codec)
)

// Register makes a codec available under a format name and optional file
// extensions (leading dot included). Format packages call this from init.
func Register(name string, c Codec, exts ...string) {
	byName[name] = c
	for _, e := range exts {
		byExt[e] = c
	}
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, bool) {
	c, ok := byName[name]
	return c, ok
}

// ByExtension selects a codec from the extension of path.
func ByExtension(path string) (Codec, bool) {
	c, ok := byExt[strings.ToLower(filepath.Ext(path))]
	return c, ok
}
