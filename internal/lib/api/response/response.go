package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Err is the boundary's failure envelope. Every non-2xx response carries
// a human-readable message the client surfaces as-is.
type Err struct {
	Message string `json:"message"`
}

func Error(msg string) Err {
	return Err{Message: msg}
}

func ValidationError(errs validator.ValidationErrors) Err {
	var msgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid email", err.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return Error(strings.Join(msgs, ", "))
}
