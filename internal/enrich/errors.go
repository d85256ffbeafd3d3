package enrich

import (
	"fmt"
)

// DecodeError reports that document content is not valid JSON.
// It is fatal for the enclosing document.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON format: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ShapeError reports that document content is valid JSON but its
// top-level value is not an array. It is fatal for the enclosing
// document.
type ShapeError struct {
	Got string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("JSON content must be an array of records, got %s", e.Got)
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case float64:
		return "a number"
	case string:
		return "a string"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
