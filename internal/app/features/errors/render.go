// internal/app/features/errors/render.go
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// internalError is the only body an unclassified failure ever produces.
var internalError = &Error{
	Status:  http.StatusInternalServerError,
	Code:    CodeUnexpected,
	Message: "internal server error",
}

// ErrorLogger logs the details behind opaque 500 responses.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write renders err. An *Error is sent as-is; a cancelled request gets no
// body worth logging; anything else is logged and becomes a generic 500.
func (el *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	if e, ok := As(err); ok {
		JSON(w, e.Status, e)
		return
	}
	if stderrors.Is(err, context.Canceled) {
		el.Log.Debug("request cancelled",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())))
		JSON(w, internalError.Status, internalError)
		return
	}
	el.Log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))
	JSON(w, internalError.Status, internalError)
}

// Recoverer turns a panic in a handler into a logged 500.
func (el *ErrorLogger) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				el.Write(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// NotFoundHandler answers unknown routes with a JSON 404.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusNotFound, NotFound(CodeNotFound, "route not found"))
}

// MethodNotAllowedHandler answers known routes hit with the wrong verb.
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusMethodNotAllowed, &Error{
		Status:  http.StatusMethodNotAllowed,
		Code:    CodeMethodNotAllowed,
		Message: "method not allowed",
	})
}
