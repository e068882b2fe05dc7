package intent

import (
	"math"
	"regexp"
	"strconv"
)

const (
	// ShorthandTolerance is the half-width of the band produced by a bare
	// "de <valor>" mention.
	ShorthandTolerance = 0.15

	shorthandMillionsMin = 1
	shorthandMillionsMax = 20
)

// PriceFilter bounds the active price of a listing. A nil bound is open.
type PriceFilter struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Contains reports whether price lies inside the inclusive bounds.
func (f *PriceFilter) Contains(price float64) bool {
	if f == nil {
		return true
	}
	if f.Min != nil && price < *f.Min {
		return false
	}
	if f.Max != nil && price > *f.Max {
		return false
	}
	return true
}

func (f *PriceFilter) String() string {
	if f == nil {
		return "none"
	}
	bound := func(v *float64) string {
		if v == nil {
			return "*"
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return "[" + bound(f.Min) + ", " + bound(f.Max) + "]"
}

const (
	pricePrefix = `\s*r?\$?\s*`
	priceNumber = `([\d.,]+)`
	priceUnit   = `\s*(milhoes?|milhao|mi|mil|m)?`
)

var (
	rangePattern = regexp.MustCompile(`\b(?:de|entre)` + pricePrefix + priceNumber + priceUnit +
		`\s*(?:a|ate|e)` + pricePrefix + priceNumber + priceUnit + `\b`)
	maxPattern       = regexp.MustCompile(`\b(?:ate|abaixo de|menos de|no maximo|maximo)` + pricePrefix + priceNumber + priceUnit + `\b`)
	minPattern       = regexp.MustCompile(`\b(?:a partir de|acima de|mais de)` + pricePrefix + priceNumber + priceUnit + `\b`)
	shorthandPattern = regexp.MustCompile(`\bde` + pricePrefix + priceNumber + priceUnit + `\b`)
	roomHintPattern  = regexp.MustCompile(`\bquartos?\b|\bsuites?\b|\bvagas?\b|\bm2\b|\bm²`)
)

// ruleOutcome tells the extractor what to do after a rule ran.
type ruleOutcome int

const (
	// outcomeSkip means the rule did not apply; try the next one.
	outcomeSkip ruleOutcome = iota
	// outcomeMatch means the rule produced a filter.
	outcomeMatch
	// outcomeStop means the rule applied but yields no constraint.
	outcomeStop
)

type priceRule struct {
	name    string
	pattern *regexp.Regexp
	extract func(text string, groups []string) (*PriceFilter, ruleOutcome)
}

// priceRules are evaluated in precedence order; the first rule that produces
// an outcome other than outcomeSkip decides.
var priceRules = []priceRule{
	{name: "range", pattern: rangePattern, extract: extractRange},
	{name: "max", pattern: maxPattern, extract: extractMax},
	{name: "min", pattern: minPattern, extract: extractMin},
	{name: "shorthand", pattern: shorthandPattern, extract: extractShorthand},
}

// ExtractPriceFilter returns the price constraint carried by message, or nil
// when the message has none.
func ExtractPriceFilter(message string) *PriceFilter {
	filter, _ := extractPrice(Normalize(message))
	return filter
}

// extractPrice also returns the name of the rule that decided, for tests and
// debug logging.
func extractPrice(text string) (*PriceFilter, string) {
	if text == "" {
		return nil, ""
	}
	for _, rule := range priceRules {
		groups := rule.pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		filter, outcome := rule.extract(text, groups)
		switch outcome {
		case outcomeMatch:
			return filter, rule.name
		case outcomeStop:
			return nil, rule.name
		}
	}
	return nil, ""
}

func extractRange(_ string, groups []string) (*PriceFilter, ruleOutcome) {
	first, ok := ParsePriceValue(groups[1], groups[2])
	if !ok {
		return nil, outcomeSkip
	}
	second, ok := ParsePriceValue(groups[3], groups[4])
	if !ok {
		return nil, outcomeSkip
	}
	low, high := math.Min(first, second), math.Max(first, second)
	return &PriceFilter{Min: &low, Max: &high}, outcomeMatch
}

func extractMax(_ string, groups []string) (*PriceFilter, ruleOutcome) {
	value, ok := ParsePriceValue(groups[1], groups[2])
	if !ok {
		return nil, outcomeSkip
	}
	return &PriceFilter{Max: &value}, outcomeMatch
}

func extractMin(_ string, groups []string) (*PriceFilter, ruleOutcome) {
	value, ok := ParsePriceValue(groups[1], groups[2])
	if !ok {
		return nil, outcomeSkip
	}
	return &PriceFilter{Min: &value}, outcomeMatch
}

func extractShorthand(text string, groups []string) (*PriceFilter, ruleOutcome) {
	if roomHintPattern.MatchString(text) {
		return nil, outcomeSkip
	}
	value, ok := ParsePriceValue(groups[1], groups[2])
	if !ok {
		return nil, outcomeStop
	}
	value = ShorthandMagnitude(value, groups[2] != "")
	if value <= 0 {
		return nil, outcomeStop
	}
	low, high := value*(1-ShorthandTolerance), value*(1+ShorthandTolerance)
	return &PriceFilter{Min: &low, Max: &high}, outcomeMatch
}

// ShorthandMagnitude reads a bare value between 1 and 20 as millions, the way
// people write "casa de 2" meaning two million reais. Values with an explicit
// unit are returned unchanged.
func ShorthandMagnitude(value float64, hasUnit bool) float64 {
	if hasUnit {
		return value
	}
	if value >= shorthandMillionsMin && value <= shorthandMillionsMax {
		return value * 1_000_000
	}
	return value
}
