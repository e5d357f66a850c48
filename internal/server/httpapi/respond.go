package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/server/validate"
)

const maxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}
	return common.NewValidationError("request body must be a JSON object")
}

type errorBody struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and a client-safe message.
// Anything unrecognized is logged and reported as an internal error.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: ve.Msg, Fields: ve.Fields})
		return
	}

	status := http.StatusInternalServerError
	msg := common.ErrorInternal.Error()

	switch {
	case errors.Is(err, errBodyTooLarge):
		status, msg = http.StatusRequestEntityTooLarge, errBodyTooLarge.Error()
	case errors.Is(err, common.ErrorInvalidCredentials):
		status, msg = http.StatusUnauthorized, common.ErrorInvalidCredentials.Error()
	case errors.Is(err, common.ErrTokenExpired):
		status, msg = http.StatusUnauthorized, common.ErrTokenExpired.Error()
	case errors.Is(err, common.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, common.ErrInvalidToken.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		status, msg = http.StatusUnauthorized, common.ErrorUnauthorized.Error()
	case errors.Is(err, common.ErrorForbidden):
		status, msg = http.StatusForbidden, common.ErrorForbidden.Error()
	case errors.Is(err, common.ErrorNotFound):
		status, msg = http.StatusNotFound, common.ErrorNotFound.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		status, msg = http.StatusBadRequest, common.ErrorAlreadyExists.Error()
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	var ce *common.Error
	if status != http.StatusInternalServerError && errors.As(err, &ce) {
		msg = ce.Msg
	}

	writeJSON(w, status, errorBody{Message: msg})
}

// decodeBody reads a JSON object, keeping numbers as json.Number. An empty
// body decodes to an empty object.
func decodeBody(w http.ResponseWriter, r *http.Request) (validate.Raw, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var raw validate.Raw
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return validate.Raw{}, nil
		}
		return nil, bodyError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, bodyError(err)
	}
	if raw == nil {
		raw = validate.Raw{}
	}
	return raw, nil
}
