package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit helpers for page sizes and margins. Layout works in
// PDF points throughout; other units are converted at the configuration edge.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // bare numbers, read as points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
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
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToPT converts the length to points.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

// ToMM converts the length to millimeters.
func (l Length) ToMM() float64 { return l.ToPT() * PtToMm }

// ParseLength parses values such as "50", "50pt", "18mm", "2.5cm" or "1in".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度不能为负数：%q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// PageSize 以 pt 为单位。
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// A4 是默认纸张尺寸（与常见 PDF 库的默认页面一致）。
var A4 = PageSize{Width: 595.28, Height: 841.89}

var pagePresets = map[string]PageSize{
	"A4":     A4,
	"A5":     {Width: 419.53, Height: 595.28},
	"LETTER": {Width: 612, Height: 792},
	"LEGAL":  {Width: 612, Height: 1008},
}

// ResolvePageSize looks up a named paper size; "landscape" after the name
// swaps the sides, e.g. "A4 landscape".
func ResolvePageSize(spec string) (PageSize, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return A4, nil
	}
	size, ok := pagePresets[strings.ToUpper(fields[0])]
	if !ok {
		return PageSize{}, fmt.Errorf("暂不支持的纸张尺寸：%s", fields[0])
	}
	for _, token := range fields[1:] {
		if strings.EqualFold(token, "landscape") {
			size.Width, size.Height = size.Height, size.Width
		}
	}
	return size, nil
}
