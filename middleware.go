package guestbook

import (
	"log"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		startTime := time.Now()
		next.ServeHTTP(rec, r)
		logger.Printf(
			`Request: "%s %s" | Response: "%d %s" | Duration: %s`,
			r.Method, r.URL.Path, rec.status, http.StatusText(rec.status), time.Since(startTime),
		)
	})
}
