package handlers

import (
	"net/http"
	"time"

	"github.com/9ssi7/nanoid"
)

type (
	responseData struct {
		status int
		size   int
	}

	loggingResponseWriter struct {
		http.ResponseWriter
		responseData *responseData
	}
)

// Write overrides the Write method of the http.ResponseWriter interface.
// The function writes the data to the HTTP response and records the written
// size in the responseData structure for later logging.
func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

// WriteHeader overrides the WriteHeader method of the http.ResponseWriter
// interface and records the status code for later logging.
func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// LoggingMiddleware logs method, path, status, response size and duration of
// every request.
func (con *Controller) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		start := time.Now()

		responseData := &responseData{status: http.StatusOK}
		lw := loggingResponseWriter{
			ResponseWriter: res,
			responseData:   responseData,
		}

		next.ServeHTTP(&lw, req)

		con.sugar.Infoln(
			"uri", req.RequestURI,
			"method", req.Method,
			"status", responseData.status,
			"size", responseData.size,
			"duration", time.Since(start),
		)
	})
}

// PanicRecoveryMiddleware converts a handler panic into a 500 response so a
// single bad request cannot take the server down.
func (con *Controller) PanicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				con.sugar.Errorf("panic serving %s: %v", req.RequestURI, rec)
				http.Error(res, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(res, req)
	})
}

// RequestIDMiddleware tags every response with a generated request id.
func (con *Controller) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		id, err := nanoid.New()
		if err == nil {
			res.Header().Set("X-Request-Id", id)
		}

		next.ServeHTTP(res, req)
	})
}
