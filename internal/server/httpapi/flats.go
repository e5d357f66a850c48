package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/flatfinder/internal/server/policy"
	"github.com/go-chi/chi/v5"
)

func (s *Server) listFlats(w http.ResponseWriter, r *http.Request) {
	list, err := s.flats.Search(r.Context(), r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getFlat(w http.ResponseWriter, r *http.Request) {
	f, err := s.flats.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) createFlat(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	f, err := s.flats.Create(r.Context(), policy.IdentityFrom(r.Context()), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Flat created successfully", "flat": f})
}

func (s *Server) updateFlat(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	f, err := s.flats.Update(r.Context(), policy.IdentityFrom(r.Context()), chi.URLParam(r, "id"), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Flat updated successfully", "flat": f})
}

func (s *Server) deleteFlat(w http.ResponseWriter, r *http.Request) {
	if err := s.flats.Delete(r.Context(), policy.IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Flat deleted successfully"})
}

func (s *Server) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	p, err := s.photos.UploadURL(r.Context(), policy.IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) listPhotos(w http.ResponseWriter, r *http.Request) {
	list, err := s.photos.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
