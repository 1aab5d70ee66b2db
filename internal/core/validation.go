package core

// validation.go checks candidate user records before they reach the store.
//
// Rules are declared as validator struct tags on UserInput and translated to
// the client-facing messages below. Only the first failing rule is reported,
// in field order (name, then email). Validation never touches the store.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// ruleMessages maps struct field and failed tag to the message returned to clients.
var ruleMessages = map[string]map[string]string{
	"Name": {
		"required": "Name is required",
		"min":      "Name must be at least 3 characters",
	},
	"Email": {
		"required": "Email is required",
		"email":    "Invalid email format",
	},
}

// ValidateUser returns nil for a valid record, or a *ValidationError
// describing the first rule it breaks.
func ValidateUser(in UserInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate user: %w", err)
	}

	fe := fieldErrs[0]
	msg, ok := ruleMessages[fe.StructField()][fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", fe.StructField())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

// DecodeUserInput parses one JSON record. Records that are not objects, or
// whose fields have the wrong JSON type, come back as *ValidationError so a
// bulk request can report them by index like any other invalid record.
// Unknown fields are dropped, and a null field counts as absent.
func DecodeUserInput(raw []byte) (UserInput, error) {
	var in UserInput

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return in, &ValidationError{Message: "User must be an object"}
	}

	if err := json.Unmarshal(trimmed, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			switch typeErr.Field {
			case "name":
				return in, &ValidationError{Field: "name", Message: "Name must be a string"}
			case "email":
				return in, &ValidationError{Field: "email", Message: "Email must be a string"}
			}
		}
		return in, &ValidationError{Message: "User must be a valid JSON object"}
	}

	return in, nil
}
