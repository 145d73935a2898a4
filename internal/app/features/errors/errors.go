// internal/app/features/errors/errors.go
//
// Package errors renders JSON error responses and logs them consistently.
// Every feature handler holds an *ErrorLogger; the surface is JSON-only,
// so there are no error pages or redirects.
package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs server-side failures with request context and writes
// the client-facing JSON body.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// WriteJSON writes v with the given status. Encoding failures are ignored;
// the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a bare {"error": msg} body.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// LogBadRequest logs a malformed request and replies 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, op string, err error, msg string) {
	e.Log.Warn(op,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	WriteError(w, http.StatusBadRequest, msg)
}

// LogServerError logs an internal failure and replies 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, op string, err error, msg string) {
	e.Log.Error(op,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	WriteError(w, http.StatusInternalServerError, msg)
}

// LogRemoteError logs a store-of-record failure and replies 502. The local
// view was left untouched by the failed mutation, so the client can retry.
func (e *ErrorLogger) LogRemoteError(w http.ResponseWriter, r *http.Request, op string, err error) {
	e.Log.Error(op,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	WriteError(w, http.StatusBadGateway, "storage unavailable, please try again")
}
