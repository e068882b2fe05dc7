package intent

import (
	"sort"
	"strings"
	"unicode"

	"imoveis/internal/domain/listings"
)

// LocationMatch holds the first known neighborhood and city mentioned in a
// message. Empty fields did not match.
type LocationMatch struct {
	City         string `json:"city,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
}

func (m LocationMatch) IsZero() bool {
	return m.City == "" && m.Neighborhood == ""
}

// MatchLocation scans message for the neighborhood and city names present in
// items. Candidates are tried longest normalized name first, ties broken by
// name, and the first substring hit wins per field.
func MatchLocation(message string, items []*listings.Listing) LocationMatch {
	return matchLocation(Normalize(message), items)
}

func matchLocation(text string, items []*listings.Listing) LocationMatch {
	var match LocationMatch
	if text == "" || len(items) == 0 {
		return match
	}
	neighborhoods, cities := candidateNames(items)
	match.Neighborhood = firstMentioned(text, neighborhoods)
	match.City = firstMentioned(text, cities)
	return match
}

func candidateNames(items []*listings.Listing) (neighborhoods, cities []string) {
	seenNeighborhood := make(map[string]struct{}, len(items))
	seenCity := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if name := item.Location.Neighborhood; name != "" {
			if _, ok := seenNeighborhood[name]; !ok {
				seenNeighborhood[name] = struct{}{}
				neighborhoods = append(neighborhoods, name)
			}
		}
		if name := item.Location.City; name != "" {
			if _, ok := seenCity[name]; !ok {
				seenCity[name] = struct{}{}
				cities = append(cities, name)
			}
		}
	}
	byLengthThenName(neighborhoods)
	byLengthThenName(cities)
	return neighborhoods, cities
}

// byLengthThenName puts longer names first so "Vila Nova Conceicao" is tried
// before "Vila Nova"; equal lengths fall back to name order.
func byLengthThenName(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, b := Normalize(names[i]), Normalize(names[j])
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
}

// genericNameWords are too common in place names to identify one alone.
var genericNameWords = map[string]struct{}{
	"alto": {}, "bela": {}, "jardim": {}, "nova": {}, "novo": {},
	"parque": {}, "santa": {}, "santo": {}, "vila": {},
}

// queryWords read as a category, property type or price term and never stand
// in for a place name.
var queryWords = func() map[string]struct{} {
	set := map[string]struct{}{
		"abaixo": {}, "acima": {}, "ate": {}, "entre": {}, "mais": {}, "menos": {},
		"maximo": {}, "milhao": {}, "milhoes": {}, "partir": {}, "reais": {},
		"quarto": {}, "quartos": {}, "suite": {}, "suites": {}, "vaga": {}, "vagas": {},
	}
	for _, words := range [][]string{rentKeywords, saleKeywords} {
		for _, w := range words {
			set[w] = struct{}{}
		}
	}
	for _, kw := range propertyTypes {
		for _, w := range kw.spellings {
			set[w] = struct{}{}
		}
	}
	return set
}()

// firstMentioned returns the first name, in candidate order, whose full
// normalized form occurs in text. Failing that, a multi-word name matches when
// its leading word is mentioned on its own, so "itaim" finds "Itaim Bibi".
// Short, generic and query words never count as a leading word.
func firstMentioned(text string, names []string) string {
	for _, name := range names {
		normalized := strings.TrimSpace(Normalize(name))
		if normalized != "" && strings.Contains(text, normalized) {
			return name
		}
	}
	words := wordSet(text)
	for _, name := range names {
		lead, ok := leadingWord(name)
		if !ok {
			continue
		}
		if _, mentioned := words[lead]; mentioned {
			return name
		}
	}
	return ""
}

func leadingWord(name string) (string, bool) {
	parts := strings.Fields(Normalize(name))
	if len(parts) < 2 || len(parts[0]) < 4 {
		return "", false
	}
	lead := parts[0]
	if _, generic := genericNameWords[lead]; generic {
		return "", false
	}
	if _, reserved := queryWords[lead]; reserved {
		return "", false
	}
	return lead, true
}

func wordSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		set[field] = struct{}{}
	}
	return set
}
