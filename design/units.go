package design

import (
	"strconv"
	"strings"
)

// Unit 表示长度值的原始单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位，由调用方决定默认单位
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// pt 与 mm 的换算常量。
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

func (l Length) IsZero() bool { return l.Value == 0 }

// Or 在无单位时采用 fallback 单位。
func (l Length) Or(fallback Unit) Length {
	if l.Unit == UnitNone {
		l.Unit = fallback
	}
	return l
}

// ToMM converts the length to millimeters. Unit-less values are returned as-is.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToCM converts the length to centimeters.
func (l Length) ToCM() float64 {
	if l.Unit == UnitCM || l.Unit == UnitNone {
		return l.Value
	}
	return l.ToMM() / 10
}

// ParseUnit 将单位后缀映射为 Unit，未知后缀返回 UnitNone 与 false。
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mm":
		return UnitMM, true
	case "cm":
		return UnitCM, true
	case "in":
		return UnitIN, true
	case "pt":
		return UnitPT, true
	case "":
		return UnitNone, true
	default:
		return UnitNone, false
	}
}

// ParseLength 解析 "20cm"、"5 mm"、"12" 这类长度字符串，保留原始单位。
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
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
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}
