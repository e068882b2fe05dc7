package intent

import (
	"regexp"
	"strconv"
	"strings"
)

type Unit string

const (
	UnitNone     Unit = ""
	UnitThousand Unit = "mil"
	UnitMillion  Unit = "m"
)

func (u Unit) Multiplier() float64 {
	switch u {
	case UnitThousand:
		return 1_000
	case UnitMillion:
		return 1_000_000
	default:
		return 1
	}
}

var groupedThousands = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// ParseNumber reads a pt-BR numeral. With a comma present, dots are thousands
// separators and the first comma is the decimal mark ("1.200,50"). Without a
// comma, dots followed by three-digit groups are thousands separators
// ("1.500.000") and a single other dot is a decimal point ("1.5").
func ParseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, ".,")
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return 0, false
		}
	}

	var cleaned string
	switch {
	case strings.Contains(raw, ","):
		cleaned = strings.Replace(strings.ReplaceAll(raw, ".", ""), ",", ".", 1)
	case groupedThousands.MatchString(raw):
		cleaned = strings.ReplaceAll(raw, ".", "")
	default:
		cleaned = raw
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParseUnit maps a magnitude token to its unit. Unknown or empty tokens scale
// by one.
func ParseUnit(raw string) Unit {
	switch Normalize(strings.TrimSpace(raw)) {
	case "mil":
		return UnitThousand
	case "m", "mi", "milhao", "milhoes":
		return UnitMillion
	default:
		return UnitNone
	}
}

// ParsePriceValue composes ParseNumber and ParseUnit.
func ParsePriceValue(number, unit string) (float64, bool) {
	value, ok := ParseNumber(number)
	if !ok {
		return 0, false
	}
	return value * ParseUnit(unit).Multiplier(), true
}
