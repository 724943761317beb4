package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/snoozer/internal/common"
)

type errorBody struct {
	Status  int    `json:"status"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{
		Status:  status,
		Title:   http.StatusText(status),
		Message: message,
	}})
}

// statusFor maps a service error to its HTTP status and the message shown to
// the client. Unknown errors are reported as 500 without detail.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Invalid credentials."
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "You are not allowed to do that."
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "That username is already taken."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

// decodeJSON reads a request body of at most 1 MiB into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}
