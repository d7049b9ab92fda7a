// Package cpi extracts the screen-font payloads of DOS codepage information
// (.CPI) files into headerless .fnt dumps, one output directory per device
// and codepage. Structure reference: http://www.seasip.info/DOS/CPI/cpi.html
package cpi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotCPI = errors.New("cpi: not a FONT codepage file")

type fontFileHeader struct {
	ID0       uint8
	ID        [7]byte
	Reserved  [8]byte
	PNum      uint16
	PTyp      uint8
	FIHOffset uint32
}

type fontInfoHeader struct {
	NumCodepages uint16
}

type cpEntryHeader struct {
	Size           uint16
	NextCPEHOffset uint32
	DeviceType     uint16
	DeviceName     [8]byte
	Codepage       uint16
	Reserved       [6]byte
	CPIHOffset     uint32
}

type cpInfoHeader struct {
	Version  uint16
	NumFonts uint16
	Size     uint16
}

type screenFontHeader struct {
	Height   uint8
	Width    uint8
	YAspect  uint8
	XAspect  uint8
	NumChars uint16
}

// Options configures extraction output paths. Sep joins the directory,
// device and codepage components; when empty the platform separator is used.
// It is an explicit value rather than package state so concurrent extractions
// cannot interfere.
type Options struct {
	Sep string
}

func (o Options) join(parts ...string) string {
	if o.Sep == "" {
		return filepath.Join(parts...)
	}
	return strings.Join(parts, o.Sep)
}

// Extract reads a CPI file and writes its screen fonts below directory as
// <device>/<codepage>/<W>x<H>.fnt. Progress and skipped entries go to diag.
func Extract(path, directory string, opt Options, diag io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := extract(data, directory, opt, diag); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func extract(data []byte, directory string, opt Options, diag io.Writer) error {
	var ffh fontFileHeader
	if err := readAt(data, 0, &ffh); err != nil {
		return ErrNotCPI
	}
	if ffh.ID0 != 0xFF || string(ffh.ID[:]) != "FONT   " ||
		ffh.PNum != 1 || ffh.PTyp != 1 {
		return ErrNotCPI
	}

	var fih fontInfoHeader
	if err := readAt(data, int64(ffh.FIHOffset), &fih); err != nil {
		return err
	}
	off := int64(ffh.FIHOffset) + int64(binary.Size(fih))
	for i := 0; i < int(fih.NumCodepages); i++ {
		var cpeh cpEntryHeader
		if err := readAt(data, off, &cpeh); err != nil {
			return err
		}
		off = int64(cpeh.NextCPEHOffset)
		name := string(bytes.TrimRight(cpeh.DeviceName[:], " \x00"))
		fmt.Fprintf(diag, "CPEH #%d: Name: %s, Codepage: %d\n",
			i, name, cpeh.Codepage)
		if cpeh.DeviceType != 1 {
			// non-screen device (printer)
			continue
		}
		var cpih cpInfoHeader
		if err := readAt(data, int64(cpeh.CPIHOffset), &cpih); err != nil {
			return err
		}
		if cpih.Version != 1 {
			continue
		}
		outDir := opt.join(directory, name,
			fmt.Sprintf("%d", cpeh.Codepage))
		sfOff := int64(cpeh.CPIHOffset) + int64(binary.Size(cpih))
		if err := extractFonts(data, sfOff, int(cpih.NumFonts),
			outDir, opt, diag); err != nil {
			return err
		}
	}
	return nil
}

func extractFonts(data []byte, off int64, numFonts int, outDir string,
	opt Options, diag io.Writer) error {
	if err := os.MkdirAll(outDir, 0o777); err != nil {
		return err
	}
	for i := 0; i < numFonts; i++ {
		var sfh screenFontHeader
		if err := readAt(data, off, &sfh); err != nil {
			return err
		}
		off += int64(binary.Size(sfh))
		length := int64(sfh.Width) * int64(sfh.Height) / 8 *
			int64(sfh.NumChars)
		if off+length > int64(len(data)) {
			return fmt.Errorf("cpi: font %d truncated", i)
		}
		outFile := opt.join(outDir,
			fmt.Sprintf("%dx%d.fnt", sfh.Width, sfh.Height))
		fmt.Fprintf(diag, "Writing to %s\n", outFile)
		if err := os.WriteFile(outFile, data[off:off+length], 0o666); err != nil {
			return err
		}
		off += length
	}
	return nil
}

func readAt(data []byte, off int64, v any) error {
	if off < 0 || off > int64(len(data)) {
		return io.ErrUnexpectedEOF
	}
	return binary.Read(bytes.NewReader(data[off:]), binary.LittleEndian, v)
}
