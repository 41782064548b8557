package canvas

import (
	"math"
	"strconv"
	"strings"
)

// Unit is the unit tag of a style dimension.
type Unit int

const (
	UnitPx Unit = iota
	UnitPercent
	UnitEm
	UnitRem
	UnitVw
	UnitVh
)

// Value is a style dimension with an explicit unit, replacing ad hoc
// string parsing at call sites. Style bags carry values like "120px",
// "50%" or bare numbers; everything funnels through ParseValue so a
// malformed string coerces to zero instead of leaking NaN into geometry.
type Value struct {
	Magnitude float64
	Unit      Unit
}

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{
	{"px", UnitPx},
	{"%", UnitPercent},
	{"rem", UnitRem},
	{"em", UnitEm},
	{"vw", UnitVw},
	{"vh", UnitVh},
}

// ParseValue parses a CSS-like dimension string. Unknown or malformed
// input yields {0, UnitPx}.
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	for _, u := range unitSuffixes {
		if strings.HasSuffix(s, u.suffix) {
			return Value{Magnitude: safeFloat(strings.TrimSuffix(s, u.suffix)), Unit: u.unit}
		}
	}
	return Value{Magnitude: safeFloat(s), Unit: UnitPx}
}

// Px resolves the value to pixels. Percent resolves against reference
// (the relevant parent content-box dimension); em/rem use the 16px root
// font size; vw/vh resolve against reference as the viewport dimension.
func (v Value) Px(reference float64) float64 {
	switch v.Unit {
	case UnitPercent:
		return reference * v.Magnitude / 100
	case UnitEm, UnitRem:
		return v.Magnitude * 16
	case UnitVw, UnitVh:
		return reference * v.Magnitude / 100
	default:
		return v.Magnitude
	}
}

// IsPercent reports whether the value carries a percent unit.
func (v Value) IsPercent() bool { return v.Unit == UnitPercent }

// String formats the value back into its style-bag representation.
func (v Value) String() string {
	switch v.Unit {
	case UnitPercent:
		return formatFloat(v.Magnitude) + "%"
	case UnitEm:
		return formatFloat(v.Magnitude) + "em"
	case UnitRem:
		return formatFloat(v.Magnitude) + "rem"
	case UnitVw:
		return formatFloat(v.Magnitude) + "vw"
	case UnitVh:
		return formatFloat(v.Magnitude) + "vh"
	default:
		return formatFloat(v.Magnitude) + "px"
	}
}

// ParseAngle parses a rotation like "45deg". Bare numbers are accepted;
// anything else coerces to zero.
func ParseAngle(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "deg")
	return safeFloat(s)
}

// FormatAngle renders a rotation for a style bag.
func FormatAngle(deg float64) string {
	return formatFloat(deg) + "deg"
}

// FormatPx renders a pixel dimension for a style bag.
func FormatPx(px float64) string {
	return formatFloat(px) + "px"
}

// FormatPercent renders a percent dimension for a style bag.
func FormatPercent(pct float64) string {
	return formatFloat(pct) + "%"
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// safeFloat parses a float and maps failures, NaN and infinities to zero
// so degenerate style strings never corrupt a geometry computation.
func safeFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// clampFinite maps NaN and infinities to zero before a style write.
func clampFinite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
