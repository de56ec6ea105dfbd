// Package jsonutil provides helper functions for JSON API responses.
//
// Every endpoint answers with the same envelope:
//
//	{"status": "success"|"error", "code": <http status>, "message": <string>, "data": <object|null>}
package jsonutil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape.
type Envelope struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// JSON writes an envelope with the given status code. The status field is
// derived from the code: 2xx is success, everything else error.
func JSON(w http.ResponseWriter, code int, message string, data any) {
	status := "success"
	if code < 200 || code > 299 {
		status = "error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Envelope{
		Status:  status,
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, message, data)
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, message, data)
}

// BadRequest writes a 400 error envelope.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, message, nil)
}

// Forbidden writes a 403 error envelope.
func Forbidden(w http.ResponseWriter, message string) {
	JSON(w, http.StatusForbidden, message, nil)
}

// NotFound writes a 404 error envelope.
func NotFound(w http.ResponseWriter, message string) {
	JSON(w, http.StatusNotFound, message, nil)
}

// Conflict writes a 409 error envelope.
func Conflict(w http.ResponseWriter, message string) {
	JSON(w, http.StatusConflict, message, nil)
}

// InternalError writes a 500 error envelope. Do not expose internal details
// to clients - log the actual error separately.
func InternalError(w http.ResponseWriter, message string) {
	JSON(w, http.StatusInternalServerError, message, nil)
}

// Decode reads and decodes JSON from the request body into v.
// Returns an error that can be passed to BadRequest if decoding fails.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
