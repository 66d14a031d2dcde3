package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/bootorder/pkg/errors"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains error details.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError sends an error response. Uncoded errors become INTERNAL_ERROR
// and their message is not exposed.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
		msg = "internal error"
	}
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error: ErrorBody{Code: string(code), Message: msg},
	})
}
