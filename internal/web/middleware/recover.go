package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/JonMunkholm/usersvc/internal/core"
	"github.com/JonMunkholm/usersvc/internal/logging"
)

type panicResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Recoverer turns a handler panic into a JSON 500 response and logs the
// panic value with its stack trace. http.ErrAbortHandler is re-panicked so
// net/http can abort the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel value from panic
				panic(rec)
			}

			err := fmt.Errorf("panic: %v", rec)
			logging.FromContext(r.Context()).Error("panic recovered",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err.Error(),
				"stack", string(debug.Stack()),
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(panicResponse{
				Message: "Internal Server Error",
				Error:   core.MapError(err).Message,
			})
		}()

		next.ServeHTTP(w, r)
	})
}
