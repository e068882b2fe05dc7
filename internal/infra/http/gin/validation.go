package ginserver

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainlistings "imoveis/internal/domain/listings"
)

const (
	msgInvalidData    = "Encontramos alguns dados invalidos. Revise os campos destacados."
	msgRequiredFields = "Revise os campos obrigatorios."
	msgBadRequest     = "Erro na requisicao."
)

var fieldLabels = map[string]string{
	"titulo":       "Titulo",
	"descricao":    "Descricao",
	"preco":        "Preco de venda",
	"valorAluguel": "Valor do aluguel",
	"condominio":   "Condominio",
	"iptu":         "IPTU",
	"cidade":       "Cidade",
	"bairro":       "Bairro",
	"areaM2":       "Area (m2)",
	"quartos":      "Quartos",
	"suites":       "Suites",
	"vagas":        "Vagas",
	"categoria":    "Categoria",
	"mobilado":     "Mobilado",
	"aceitaPet":    "Aceita pet",
	"fotos":        "Fotos",
	"fotosFiles":   "Fotos",
	"message":      "Mensagem",
}

// FieldErrors is a 400 response body keyed by form field.
type FieldErrors struct {
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func (e *FieldErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

func newFieldErrors(message string) *FieldErrors {
	return &FieldErrors{Message: message, Fields: map[string]string{}}
}

// add keeps the first message reported for a field.
func (e *FieldErrors) add(field, message string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
}

// RequestValidator runs struct tags on bus messages. Field names come from the
// field tag so error keys match the form and JSON names clients send.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("field"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return &RequestValidator{validate: v}
}

func (v *RequestValidator) Validate(ctx context.Context, message any) error {
	err := v.validate.StructCtx(ctx, message)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := newFieldErrors(msgInvalidData)
	for _, fe := range fieldErrs {
		field := fieldKey(fe.Field())
		out.add(field, friendlyMessage(fe, labelFor(field)))
	}
	return out
}

func fieldKey(name string) string {
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		return name[:idx]
	}
	return name
}

func labelFor(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	if field == "" {
		return "Campo"
	}
	return field
}

func friendlyMessage(fe validator.FieldError, label string) string {
	kind := fe.Kind()
	isString := kind == reflect.String
	isList := kind == reflect.Slice || kind == reflect.Array
	switch fe.Tag() {
	case "required":
		if isString {
			return fmt.Sprintf("%s deve ter pelo menos 1 caracteres.", label)
		}
		return fmt.Sprintf("%s e obrigatorio.", label)
	case "min":
		switch {
		case isString:
			return fmt.Sprintf("%s deve ter pelo menos %s caracteres.", label, fe.Param())
		case isList:
			return fmt.Sprintf("%s deve ter pelo menos %s itens.", label, fe.Param())
		}
		return fmt.Sprintf("%s deve ser maior ou igual a %s.", label, fe.Param())
	case "max":
		switch {
		case isString:
			return fmt.Sprintf("%s deve ter no maximo %s caracteres.", label, fe.Param())
		case isList:
			return fmt.Sprintf("%s deve ter no maximo %s itens.", label, fe.Param())
		}
		return fmt.Sprintf("%s deve ser menor ou igual a %s.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s deve ser maior ou igual a %s.", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s possui um valor invalido.", label)
	}
	return fmt.Sprintf("%s invalido.", label)
}

// domainFieldErrors maps listing invariants that the struct tags cannot see
// onto the form field that caused them.
func domainFieldErrors(err error) (*FieldErrors, bool) {
	switch {
	case errors.Is(err, domainlistings.ErrSalePriceRequired):
		out := newFieldErrors(msgRequiredFields)
		out.add("preco", "Informe um preco de venda maior que zero.")
		return out, true
	case errors.Is(err, domainlistings.ErrRentPriceRequired):
		out := newFieldErrors(msgRequiredFields)
		out.add("valorAluguel", "Informe um valor de aluguel maior que zero.")
		return out, true
	}
	if !domainlistings.IsValidationError(err) {
		return nil, false
	}
	out := newFieldErrors(msgInvalidData)
	switch {
	case errors.Is(err, domainlistings.ErrTitleRequired):
		out.add("titulo", "Titulo invalido.")
	case errors.Is(err, domainlistings.ErrDescriptionRequired):
		out.add("descricao", "Descricao invalido.")
	case errors.Is(err, domainlistings.ErrLocationRequired):
		out.add("bairro", "Bairro invalido.")
	case errors.Is(err, domainlistings.ErrInvalidCategory):
		out.add("categoria", "Categoria possui um valor invalido.")
	case errors.Is(err, domainlistings.ErrArea):
		out.add("areaM2", "Area (m2) deve ser maior que 0.")
	case errors.Is(err, domainlistings.ErrPhotoURL):
		out.add("fotos", "Fotos invalido.")
	default:
		out.Message = err.Error()
	}
	return out, true
}
