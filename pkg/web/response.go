// Package web defines common components for a web application.
package web

import "github.com/go-playground/validator/v10"

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into json frinedly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// GetErrorMsg renders a binding validation error in a human readable form.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "uuid":
		return " field must be a valid UUID"
	case "amount":
		return " field must be a positive decimal with at most 2 decimal places"
	case "min":
		return " field value must be greater or equal to " + fe.Param()
	case "max":
		return " field value must be less or equal to " + fe.Param()
	default:
		return " field is invalid"
	}
}
