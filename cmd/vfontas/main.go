// vfontas manipulates legacy console bitmap fonts. Its arguments form a
// command list that is executed left to right against one font in memory:
//
//	vfontas -loadpsf default8x16.psfu -upscale 2 2 -savebdf out.bdf
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/consoleet/consoleet-utils/internal/codec"
	"github.com/consoleet/consoleet-utils/internal/codec/bdf"
	"github.com/consoleet/consoleet-utils/internal/codec/clt"
	"github.com/consoleet/consoleet-utils/internal/codec/cpi"
	"github.com/consoleet/consoleet-utils/internal/codec/psf"
	"github.com/consoleet/consoleet-utils/internal/codec/raw"
	"github.com/consoleet/consoleet-utils/internal/codec/sfd"
	"github.com/consoleet/consoleet-utils/internal/codec/unihex"
	"github.com/consoleet/consoleet-utils/internal/vfont"
)

type command struct {
	nargs int
	run   func(f *vfont.Font, args []string) error
}

func atoi(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	return int(v), err
}

func positive(name, s string) (int, error) {
	v, err := atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive non-zero number, got %q", name, s)
	}
	return v, nil
}

func saveVector(alg vfont.Algorithm) func(*vfont.Font, []string) error {
	return func(f *vfont.Font, args []string) error {
		return sfd.Save(args[0], f, alg)
	}
}

var commands = map[string]command{
	"blankfnt": {0, func(f *vfont.Font, _ []string) error {
		f.Init256Blanks()
		return nil
	}},
	"canvas": {2, func(f *vfont.Font, args []string) error {
		w, err := positive("canvas width", args[0])
		if err != nil {
			return err
		}
		h, err := positive("canvas height", args[1])
		if err != nil {
			return err
		}
		f.Canvas(w, h)
		return nil
	}},
	"clearmap": {0, func(f *vfont.Font, _ []string) error {
		f.Map = nil
		return nil
	}},
	"crop": {4, func(f *vfont.Font, args []string) error {
		x, err := atoi(args[0])
		if err != nil || x < 0 {
			return fmt.Errorf("crop xpos must not be negative, got %q", args[0])
		}
		y, err := atoi(args[1])
		if err != nil || y < 0 {
			return fmt.Errorf("crop ypos must not be negative, got %q", args[1])
		}
		w, err := positive("crop width", args[2])
		if err != nil {
			return err
		}
		h, err := positive("crop height", args[3])
		if err != nil {
			return err
		}
		f.Crop(x, y, w, h)
		return nil
	}},
	"fliph": {0, func(f *vfont.Font, _ []string) error {
		f.Flip(true, false)
		return nil
	}},
	"flipv": {0, func(f *vfont.Font, _ []string) error {
		f.Flip(false, true)
		return nil
	}},
	"invert": {0, func(f *vfont.Font, _ []string) error {
		f.Invert()
		return nil
	}},
	"lge": {0, func(f *vfont.Font, _ []string) error {
		f.LGE()
		return nil
	}},
	"lgeall": {0, func(f *vfont.Font, _ []string) error {
		f.LGEAll()
		return nil
	}},
	"load": {1, func(f *vfont.Font, args []string) error {
		c, ok := codec.ByExtension(args[0])
		if !ok {
			return fmt.Errorf("no format known for %q", args[0])
		}
		return c.Load(args[0], f)
	}},
	"loadbdf": {1, func(f *vfont.Font, args []string) error {
		return bdf.Load(args[0], f)
	}},
	"loadclt": {1, func(f *vfont.Font, args []string) error {
		return clt.LoadDir(args[0], f)
	}},
	"loadfnt": {1, func(f *vfont.Font, args []string) error {
		return raw.Load(args[0], f, raw.Options{})
	}},
	"loadfnth": {2, func(f *vfont.Font, args []string) error {
		h, err := positive("height", args[1])
		if err != nil {
			return err
		}
		return raw.Load(args[0], f, raw.Options{Height: h})
	}},
	"loadhex": {1, func(f *vfont.Font, args []string) error {
		return unihex.Load(args[0], f)
	}},
	"loadmap": {1, func(f *vfont.Font, args []string) error {
		return f.EnsureMap().Load(args[0])
	}},
	"loadpng": {3, func(f *vfont.Font, args []string) error {
		w, err := positive("cell width", args[1])
		if err != nil {
			return err
		}
		h, err := positive("cell height", args[2])
		if err != nil {
			return err
		}
		return f.LoadSheet(args[0], vfont.Size{W: w, H: h})
	}},
	"loadpsf": {1, func(f *vfont.Font, args []string) error {
		return psf.Load(args[0], f)
	}},
	"overstrike": {1, func(f *vfont.Font, args []string) error {
		px, err := atoi(args[0])
		if err != nil || px < 0 {
			return fmt.Errorf("overstrike amount must not be negative, got %q", args[0])
		}
		f.Overstrike(px)
		return nil
	}},
	"save": {1, func(f *vfont.Font, args []string) error {
		c, ok := codec.ByExtension(args[0])
		if !ok {
			return fmt.Errorf("no format known for %q", args[0])
		}
		return c.Save(args[0], f)
	}},
	"savebdf": {1, func(f *vfont.Font, args []string) error {
		return bdf.Save(args[0], f)
	}},
	"saveclt": {1, func(f *vfont.Font, args []string) error {
		return clt.SaveDir(args[0], f)
	}},
	"savefnt": {1, func(f *vfont.Font, args []string) error {
		return raw.Save(args[0], f)
	}},
	"savehex": {1, func(f *vfont.Font, args []string) error {
		return unihex.Save(args[0], f)
	}},
	"savemap": {1, func(f *vfont.Font, args []string) error {
		out, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if f.Map != nil {
			if err := f.Map.Write(out); err != nil {
				out.Close()
				return err
			}
		}
		return out.Close()
	}},
	"saven1":   {1, saveVector(vfont.N1)},
	"saven2":   {1, saveVector(vfont.N2)},
	"saven2ev": {1, saveVector(vfont.N2EV)},
	"savepbm": {1, func(f *vfont.Font, args []string) error {
		return clt.SavePBMDir(args[0], f)
	}},
	"savepng": {1, func(f *vfont.Font, args []string) error {
		return f.SavePNG(args[0])
	}},
	"savepsf": {1, func(f *vfont.Font, args []string) error {
		return psf.Save(args[0], f)
	}},
	"savesfd": {1, saveVector(vfont.Simple)},
	"setbold": {0, func(f *vfont.Font, _ []string) error {
		f.Props["TTFWeight"] = "700"
		f.Props["StyleMap"] = "0x0020"
		f.Props["Weight"] = "bold"
		return nil
	}},
	"setname": {1, func(f *vfont.Font, args []string) error {
		// the PostScript name may not contain spaces
		f.Props["FontName"] = strings.ReplaceAll(args[0], " ", "-")
		f.Props["FullName"] = args[0]
		f.Props["FamilyName"] = args[0]
		if _, ok := f.Props["Weight"]; !ok {
			f.Props["Weight"] = "medium"
		}
		return nil
	}},
	"setprop": {2, func(f *vfont.Font, args []string) error {
		f.Props[args[0]] = args[1]
		return nil
	}},
	"smoothscale": {1, func(f *vfont.Font, args []string) error {
		n, err := positive("scaling factor", args[0])
		if err != nil {
			return err
		}
		f.Smoothscale(n, nil)
		return nil
	}},
	"upscale": {2, func(f *vfont.Font, args []string) error {
		xf, err := positive("scaling factor", args[0])
		if err != nil {
			return err
		}
		yf, err := positive("scaling factor", args[1])
		if err != nil {
			return err
		}
		f.Upscale(vfont.Size{W: xf, H: yf})
		return nil
	}},
	"xcpi": {2, func(_ *vfont.Font, args []string) error {
		return cpi.Extract(args[0], args[1], cpi.Options{}, os.Stdout)
	}},
	"xlat": {2, func(f *vfont.Font, args []string) error {
		x, err := atoi(args[0])
		if err != nil {
			return err
		}
		y, err := atoi(args[1])
		if err != nil {
			return err
		}
		f.Translate(x, y)
		return nil
	}},
}

func usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(os.Stderr, "Usage: vfontas [-command args...]...")
	fmt.Fprintln(os.Stderr, "Commands:", strings.Join(names, " "))
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("no commands given")
	}
	f := vfont.NewFont()
	for len(args) > 0 {
		name := strings.TrimPrefix(args[0], "-")
		cmd, ok := commands[name]
		if !ok {
			return fmt.Errorf("unknown command %q", args[0])
		}
		args = args[1:]
		if len(args) < cmd.nargs {
			return fmt.Errorf("command %q requires %d arguments", name, cmd.nargs)
		}
		if err := cmd.run(f, args[:cmd.nargs]); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		args = args[cmd.nargs:]
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
