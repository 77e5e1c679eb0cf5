package handlers

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/carelink/internal/httperr"
)

// bindingFields turns gin's `binding` tag failures into a ValidationError
// keyed by snake_case field names.
func bindingFields(err error) (httperr.ValidationError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return httperr.ValidationError{}, false
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, snake(fe.Field()))
	}
	return httperr.ValidationError{Fields: fields}, true
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func blankFields(values map[string]string) []string {
	var fields []string
	for name, v := range values {
		if strings.TrimSpace(v) == "" {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}
