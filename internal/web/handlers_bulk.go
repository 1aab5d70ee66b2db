package web

import (
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/usersvc/internal/core"
)

type bulkCreateResponse struct {
	Message string      `json:"message"`
	Count   int         `json:"count"`
	Users   []core.User `json:"users"`
}

type seedResponse struct {
	Message string      `json:"message"`
	Count   int         `json:"count"`
	Sample  []core.User `json:"sample"`
}

// handleBulkCreate creates many users from a JSON array, or from an object
// whose "users" field holds the array.
func (s *Server) handleBulkCreate(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	records, err := s.service.ParseBulkPayload(body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.BulkCreate(r.Context(), records)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, bulkCreateResponse{
		Message: "Users created successfully",
		Count:   result.Count,
		Users:   nonNil(result.Users),
	})
}

// handleSeed generates synthetic users. The count comes from the "count"
// query parameter or a {"count": n} body; otherwise the configured default
// is used. A count above the bulk maximum is rejected with 400 and the same
// "Maximum N users allowed per request" message as bulk create.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	count := parseIntParam(r, "count", 0)
	if count == 0 {
		body, err := s.readBody(w, r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		var req struct {
			Count int `json:"count"`
		}
		// A body that does not hold a usable count falls back to the default.
		_ = json.Unmarshal(body, &req)
		count = req.Count
	}

	result, err := s.service.Seed(r.Context(), count)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, seedResponse{
		Message: "Users seeded successfully",
		Count:   result.Count,
		Sample:  nonNil(result.Sample),
	})
}

func nonNil(users []core.User) []core.User {
	if users == nil {
		return []core.User{}
	}
	return users
}
