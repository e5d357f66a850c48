package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/flatfinder/internal/server/policy"
	"github.com/go-chi/chi/v5"
)

func (s *Server) listFlatMessages(w http.ResponseWriter, r *http.Request) {
	list, err := s.messages.ListForFlat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) listSenderMessages(w http.ResponseWriter, r *http.Request) {
	list, err := s.messages.ListForSender(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "senderId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createMessage(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := s.messages.Create(r.Context(), policy.IdentityFrom(r.Context()), chi.URLParam(r, "id"), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Message sent successfully", "messageData": m})
}

func (s *Server) listSenders(w http.ResponseWriter, r *http.Request) {
	list, err := s.messages.Senders(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) conversation(w http.ResponseWriter, r *http.Request) {
	list, err := s.messages.Conversation(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getMessage(w http.ResponseWriter, r *http.Request) {
	m, err := s.messages.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) deleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := s.messages.Delete(r.Context(), policy.IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Message deleted successfully"})
}
