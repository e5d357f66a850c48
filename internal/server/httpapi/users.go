package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/flatfinder/internal/server/policy"
	"github.com/go-chi/chi/v5"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.users.Register(r.Context(), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "User registered successfully", "user": u})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	u, token, err := s.users.Login(r.Context(), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful", "user": u, "token": token})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context(), policy.IdentityFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.users.Update(r.Context(), policy.IdentityFrom(r.Context()), chi.URLParam(r, "id"), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), policy.IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (s *Server) listUserFlats(w http.ResponseWriter, r *http.Request) {
	list, err := s.flats.ListByOwner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) listUserMessages(w http.ResponseWriter, r *http.Request) {
	list, err := s.messages.ListBySender(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) addFavourite(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.AddFavourite(r.Context(), policy.IdentityFrom(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "flatId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) removeFavourite(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.RemoveFavourite(r.Context(), policy.IdentityFrom(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "flatId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
