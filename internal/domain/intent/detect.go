package intent

import (
	"strings"

	"imoveis/internal/domain/listings"
)

var (
	rentKeywords = []string{"aluguel", "alugar", "locacao"}
	saleKeywords = []string{"venda", "comprar", "compra"}
)

// DetectCategory returns the category implied by message, or an empty
// category when the message is neutral. Rent keywords win over sale keywords.
func DetectCategory(message string) listings.Category {
	return detectCategory(Normalize(message))
}

func detectCategory(text string) listings.Category {
	if containsAny(text, rentKeywords) {
		return listings.CategoryRent
	}
	if containsAny(text, saleKeywords) {
		return listings.CategorySale
	}
	return ""
}

type typeKeyword struct {
	propertyType string
	spellings    []string
}

// propertyTypes is checked in order; the first hit wins.
var propertyTypes = []typeKeyword{
	{propertyType: "casa", spellings: []string{"casa"}},
	{propertyType: "apartamento", spellings: []string{"apartamento", "apto"}},
	{propertyType: "cobertura", spellings: []string{"cobertura"}},
	{propertyType: "studio", spellings: []string{"studio", "estudio"}},
}

// DetectPropertyType returns the canonical property type keyword mentioned in
// message, or "" when none is.
func DetectPropertyType(message string) string {
	return detectPropertyType(Normalize(message))
}

func detectPropertyType(text string) string {
	for _, kw := range propertyTypes {
		if containsAny(text, kw.spellings) {
			return kw.propertyType
		}
	}
	return ""
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
