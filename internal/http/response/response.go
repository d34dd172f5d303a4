// Package response builds the JSON envelope every handler answers with.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response is the envelope: status is "OK" or "Error".
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse documents the failure shape for swagger.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// OK returns an empty success envelope.
func OK() Response {
	return Response{Status: StatusOK}
}

// OKWithData returns a success envelope carrying data.
func OKWithData(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// Error returns a failure envelope with msg.
func Error(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

// ValidationError joins validator failures into one readable message.
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		case "gt", "gte", "lt", "lte", "min", "max":
			msgs = append(msgs, fmt.Sprintf("field %s is out of range (%s %s)", err.Field(), err.ActualTag(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Response{Status: StatusError, Error: strings.Join(msgs, ", ")}
}
