package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListUsers returns one page of users.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page := parseIntParam(r, "page", 1)
	limit := parseIntParam(r, "limit", s.cfg.Users.DefaultPageSize)

	result, err := s.service.ListUsers(r.Context(), page, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetUser returns a single user.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// handleCreateUser creates a single user.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	in, err := s.readUserInput(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	u, err := s.service.CreateUser(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// handleUpdateUser replaces a user's name and email.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	in, err := s.readUserInput(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	u, err := s.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// handleDeleteUser removes a user.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "User deleted successfully")
}
