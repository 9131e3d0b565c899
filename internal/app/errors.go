/**
 * @description
 * Application-level error types shared by the service layer and the HTTP
 * handlers. Validation failures carry field-level detail; everything else is
 * mapped by the handlers from the store's sentinel errors.
 */
package app

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports one or more invalid request fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return "validation error: " + strings.Join(parts, "; ")
}
