package vfont

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// UnicodeMap associates glyph indexes with Unicode code points. One index may
// carry several code points (canonical aliases); the reverse direction is
// one-to-one with last-write-wins. A Font without a map treats the glyph
// index itself as the code point.
type UnicodeMap struct {
	i2u map[int]map[rune]struct{}
	u2i map[rune]int

	// Diag receives warnings about unparsable map lines. Defaults to
	// os.Stderr.
	Diag io.Writer
}

func NewUnicodeMap() *UnicodeMap {
	return &UnicodeMap{
		i2u: make(map[int]map[rune]struct{}),
		u2i: make(map[rune]int),
	}
}

func (m *UnicodeMap) diag() io.Writer {
	if m.Diag != nil {
		return m.Diag
	}
	return os.Stderr
}

// Add associates cp with idx and makes idx the authoritative reverse mapping
// for cp, displacing any earlier owner.
func (m *UnicodeMap) Add(idx int, cp rune) {
	set, ok := m.i2u[idx]
	if !ok {
		set = make(map[rune]struct{})
		m.i2u[idx] = set
	}
	set[cp] = struct{}{}
	m.u2i[cp] = idx
}

// Codepoints returns the sorted code points of idx, or {idx} if the index has
// no entry. The identity fallback lets unmapped fonts iterate by index.
func (m *UnicodeMap) Codepoints(idx int) []rune {
	set, ok := m.i2u[idx]
	if !ok {
		return []rune{rune(idx)}
	}
	cps := maps.Keys(set)
	slices.Sort(cps)
	return cps
}

// Mapped returns the sorted code points explicitly recorded for idx, without
// the identity fallback of Codepoints.
func (m *UnicodeMap) Mapped(idx int) ([]rune, bool) {
	set, ok := m.i2u[idx]
	if !ok {
		return nil, false
	}
	cps := maps.Keys(set)
	slices.Sort(cps)
	return cps, true
}

// Index returns the glyph index owning cp.
func (m *UnicodeMap) Index(cp rune) (int, bool) {
	idx, ok := m.u2i[cp]
	return idx, ok
}

// Indexes returns all mapped glyph indexes in ascending order.
func (m *UnicodeMap) Indexes() []int {
	idx := maps.Keys(m.i2u)
	slices.Sort(idx)
	return idx
}

// Mapping is one (codepoint, index) pair of the reverse table.
type Mapping struct {
	Codepoint rune
	Index     int
}

// ByCodepoint returns the reverse table sorted by code point. Writers that
// must emit glyphs in codepoint order (BDF CHARS, SFD) iterate this.
func (m *UnicodeMap) ByCodepoint() []Mapping {
	cps := maps.Keys(m.u2i)
	slices.Sort(cps)
	out := make([]Mapping, 0, len(cps))
	for _, cp := range cps {
		out = append(out, Mapping{cp, m.u2i[cp]})
	}
	return out
}

// Len returns the number of reverse-table entries.
func (m *UnicodeMap) Len() int {
	return len(m.u2i)
}

// Load reads a map table from path. See Read for the accepted syntax.
func (m *UnicodeMap) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.Read(f)
}

// Read parses a human-editable map table, one entry per line:
//
//	<index> (U+<hex>)*
//
// '#' starts a comment, blank lines are skipped, and an index without code
// points is legal. A malformed token abandons the rest of its line with a
// warning, never the whole file.
func (m *UnicodeMap) Read(r io.Reader) error {
	sc := bufio.NewScanner(r)
	lnum := 0
	for sc.Scan() {
		lnum++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		idx, err := strconv.ParseUint(fields[0], 0, 31)
		if err != nil {
			fmt.Fprintf(m.diag(), "unicode map line %d: bad index %q\n", lnum, fields[0])
			continue
		}
		for _, tok := range fields[1:] {
			if !strings.HasPrefix(tok, "U+") {
				fmt.Fprintf(m.diag(), "unicode map line %d: unexpected token %q\n", lnum, tok)
				break
			}
			cp, err := strconv.ParseUint(tok[2:], 16, 21)
			if err != nil {
				fmt.Fprintf(m.diag(), "unicode map line %d: bad codepoint %q\n", lnum, tok)
				break
			}
			m.Add(int(idx), rune(cp))
		}
	}
	return sc.Err()
}

// Write emits the table in the syntax accepted by Read, indexes ascending.
func (m *UnicodeMap) Write(w io.Writer) error {
	for _, idx := range m.Indexes() {
		if _, err := fmt.Fprintf(w, "0x%02x\t", idx); err != nil {
			return err
		}
		for _, cp := range m.Codepoints(idx) {
			if _, err := fmt.Fprintf(w, "U+%04x ", cp); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
