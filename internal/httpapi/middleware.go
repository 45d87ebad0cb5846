package httpapi

import (
	"log"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs one [HTTP] line per request. Successful
// /v1/status polls are skipped.
func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if r.URL.Path == "/v1/status" && rec.status == http.StatusOK {
			return
		}
		logger.Printf("[HTTP] %s %s status=%d from=%s dur=%s",
			r.Method, r.URL.Path, rec.status, r.RemoteAddr, time.Since(start))
	})
}
