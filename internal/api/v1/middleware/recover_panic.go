package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
	"leadtracker/pkg/response"
)

// RecoverPanic turns a handler panic into a JSON 500 and closes the
// connection. http.ErrAbortHandler is re-raised for net/http to handle.
func RecoverPanic(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error("panic recovered",
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
				zap.String("request_id", w.Header().Get(requestIDHeader)),
				zap.String("method", r.Method),
				zap.String("url", r.URL.String()),
				zap.String("remote_addr", r.RemoteAddr),
			)

			w.Header().Set("Connection", "close")
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}()

		next.ServeHTTP(w, r)
	})
}
