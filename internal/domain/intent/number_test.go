package intent

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "Locação", want: "locacao"},
		{in: "ATÉ 1,5 MILHÕES", want: "ate 1,5 milhoes"},
		{in: "Estúdio no Itaim", want: "estudio no itaim"},
		{in: "suíte", want: "suite"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{raw: "1.200,50", want: 1200.50, wantOK: true},
		{raw: "500", want: 500, wantOK: true},
		{raw: "1.500.000", want: 1500000, wantOK: true},
		{raw: "1.200", want: 1200, wantOK: true},
		{raw: "1.5", want: 1.5, wantOK: true},
		{raw: "2,5", want: 2.5, wantOK: true},
		{raw: "800.", want: 800, wantOK: true},
		{raw: "abc", wantOK: false},
		{raw: "", wantOK: false},
		{raw: ".", wantOK: false},
		{raw: "inf", wantOK: false},
		{raw: "1,2,3", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseNumber(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && !approxEqual(got, tt.want) {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseUnit(t *testing.T) {
	tests := map[string]Unit{
		"mil":     UnitThousand,
		"m":       UnitMillion,
		"mi":      UnitMillion,
		"milhao":  UnitMillion,
		"milhão":  UnitMillion,
		"milhoes": UnitMillion,
		"MILHÕES": UnitMillion,
		"":        UnitNone,
		"k":       UnitNone,
	}
	for raw, want := range tests {
		if got := ParseUnit(raw); got != want {
			t.Errorf("ParseUnit(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParsePriceValue(t *testing.T) {
	tests := []struct {
		number string
		unit   string
		want   float64
		wantOK bool
	}{
		{number: "2", unit: "mi", want: 2_000_000, wantOK: true},
		{number: "800", unit: "mil", want: 800_000, wantOK: true},
		{number: "500", unit: "", want: 500, wantOK: true},
		{number: "1,5", unit: "milhoes", want: 1_500_000, wantOK: true},
		{number: "x", unit: "mil", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.number+" "+tt.unit, func(t *testing.T) {
			got, ok := ParsePriceValue(tt.number, tt.unit)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !approxEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b))
}
