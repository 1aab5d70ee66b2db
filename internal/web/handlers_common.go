package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/usersvc/internal/core"
)

// messageResponse is the body of responses that only carry a message.
type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// parseIntParam parses a positive integer query parameter, returning
// defaultVal when it is missing or invalid.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// readBody reads the request body, capped at the configured maximum. An
// empty body reads as an empty JSON object.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}

// readUserInput reads a single-record body. Malformed JSON is ErrInvalidBody;
// valid JSON that is not a usable record is a *core.ValidationError.
func (s *Server) readUserInput(w http.ResponseWriter, r *http.Request) (core.UserInput, error) {
	body, err := s.readBody(w, r)
	if err != nil {
		return core.UserInput{}, err
	}
	if !json.Valid(body) {
		return core.UserInput{}, core.ErrInvalidBody
	}
	return core.DecodeUserInput(body)
}
