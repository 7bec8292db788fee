package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/chzchzchz/waterfall/spectrogram"
)

type Scale string

const (
	// Linear maps magnitude/max straight onto the colour scale.
	Linear Scale = "linear"
	// Power squares the normalized magnitude, darkening the noise floor.
	Power Scale = "power"
	// Decibel maps the top DynamicRange dB below the maximum.
	Decibel Scale = "db"
)

var ErrImageFormat = errors.New("unsupported image format")

type Options struct {
	Scale Scale
	// DynamicRange in dB for Decibel; defaults to 60.
	DynamicRange float64
	// Width and Height resample the output image; zero keeps the grid size
	// (one column per row of the grid, one pixel row per bin).
	Width  int
	Height int
}

// black, green, yellow, white
var colorScale = []color.NRGBA{
	{0, 0, 0, 255},
	{0, 255, 0, 255},
	{255, 255, 0, 255},
	{255, 255, 255, 255},
}

func interpolate(t float64, a, b uint8) uint8 { return uint8(float64(a)*(1-t) + float64(b)*t) }

// BinColor maps v in [0, 1] onto the colour scale. Values outside are clamped.
func BinColor(v float64) color.NRGBA {
	if !(v > 0) {
		return colorScale[0]
	} else if v >= 1 {
		return colorScale[len(colorScale)-1]
	}
	idx := float64(len(colorScale)-1) * v
	t := idx - float64(int(idx))
	prev, next := colorScale[int(idx)], colorScale[int(idx)+1]
	return color.NRGBA{
		interpolate(t, prev.R, next.R),
		interpolate(t, prev.G, next.G),
		interpolate(t, prev.B, next.B),
		255,
	}
}

// normalizer returns a function mapping a magnitude to [0, 1] given the
// run's global maximum.
func (o Options) normalizer(globalMax float64) func(float64) float64 {
	if globalMax <= 0 {
		return func(float64) float64 { return 0 }
	}
	switch o.Scale {
	case Power:
		return func(v float64) float64 {
			v /= globalMax
			return v * v
		}
	case Decibel:
		dr := o.DynamicRange
		if dr <= 0 {
			dr = 60
		}
		return func(v float64) float64 {
			if v <= 0 {
				return 0
			}
			db := 20 * math.Log10(v/globalMax)
			return (db + dr) / dr
		}
	}
	return func(v float64) float64 { return v / globalMax }
}

// Image draws time along x and frequency along y, highest frequency on top.
func Image(g *spectrogram.Grid, globalMax float64, o Options) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, g.Rows, g.Bins))
	norm := o.normalizer(globalMax)
	for x := 0; x < g.Rows; x++ {
		for bin, v := range g.Row(x) {
			img.SetNRGBA(x, g.Bins-1-bin, BinColor(norm(v)))
		}
	}
	if (o.Width == 0 || o.Width == g.Rows) && (o.Height == 0 || o.Height == g.Bins) {
		return img
	}
	w, h := o.Width, o.Height
	if w == 0 {
		w = g.Rows
	}
	if h == 0 {
		h = g.Bins
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// WriteFile encodes img as jpeg or png depending on the extension of path.
func WriteFile(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return fmt.Errorf("%w: %q", ErrImageFormat, ext)
	}
	outf, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer outf.Close()
	if ext == ".png" {
		err = png.Encode(outf, img)
	} else {
		err = jpeg.Encode(outf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return err
	}
	return outf.Close()
}
