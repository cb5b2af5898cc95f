package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ParseError turns a gin binding error into a field -> message map suitable
// for response payloads.
func ParseError(err error) map[string]string {
	fields := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fields[fe.Field()] = fmt.Sprintf("field '%s' failed on the '%s' rule", fe.Field(), fe.Tag())
		}
	} else if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}
