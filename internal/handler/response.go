package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/leadline/crm-server/internal/errors"
	"github.com/leadline/crm-server/internal/httputil"
)

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeList[T any](w http.ResponseWriter, items []T, total int) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, listResponse[T]{Items: items, Total: total})
}

// writeError logs server-side failures before writing the client-safe body.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if apperrors.IsServerSide(err) || !apperrors.IsAppError(err) {
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("id", chi.URLParam(r, "id")).
			Msg(msg)
	}
	httputil.WriteError(w, err)
}

// decodeJSON reads the request body into dst and runs struct validation.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.ValidationError("Invalid request body")
	}
	return validateStruct(dst)
}
