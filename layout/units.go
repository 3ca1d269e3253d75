package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// This file defines unit-safe lengths and the paper model that derives canvas height from text length.

// Unit represents the original unit of a length value as written in config files.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitPX               // CSS pixels (1/96 in)
)

// Conversion constants between pt, px and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToMm = 25.4 / 96.0
	MmToPx = 1.0 / PxToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPX:
		return "px"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToMM converts the length to millimeters. Unit-less values are taken as millimeters.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	case UnitPX:
		return l.Value * PxToMm
	default:
		return l.Value
	}
}

func (l Length) ToPT() float64 { return l.ToMM() * MmToPt }

// ParseLength parses a length string such as "80mm" or "12pt", preserving its unit.
// Invalid input yields a zero Length.
func ParseLength(value string) Length {
	l, _ := parseLength(value)
	return l
}

func parseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// String formats the length with its unit, e.g. "80mm".
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + UnitToString(l.Unit)
}

// Set implements pflag.Value so lengths can be given as command-line flags.
func (l *Length) Set(value string) error {
	v, err := parseLength(value)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Type implements pflag.Value.
func (l *Length) Type() string { return "length" }

// Paper describes the fixed-width, variable-height print medium.
type Paper struct {
	WidthMM     float64 `toml:"width_mm" json:"widthMM"`
	MinHeightMM float64 `toml:"min_height_mm" json:"minHeightMM"`
	MMPerChar   float64 `toml:"mm_per_char" json:"mmPerChar"` // height growth per character
	DPI         float64 `toml:"dpi" json:"dpi"`
}

// DefaultPaper returns the 80mm receipt-style medium.
func DefaultPaper() Paper {
	return Paper{WidthMM: 80, MinHeightMM: 150, MMPerChar: 1.45, DPI: 96}
}

// HeightMM computes the paper height for text: max(min, min + round(len × growth)).
// Length is counted in runes.
func (p Paper) HeightMM(text string) float64 {
	n := utf8.RuneCountInString(text)
	desired := p.MinHeightMM + math.Round(float64(n)*p.MMPerChar)
	return math.Max(p.MinHeightMM, desired)
}

// ToPX converts millimeters to device pixels at the paper's DPI (96 when unset).
func (p Paper) ToPX(mm float64) float64 {
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 96
	}
	return mm / 25.4 * dpi
}
