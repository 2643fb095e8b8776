package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/handlekeeper/internal/common"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// statusFor maps a domain error to the HTTP status and the message the
// client is allowed to see. Anything unrecognized is a 500 with a generic
// message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorHandleAlreadyExists):
		return http.StatusBadRequest, common.ErrorHandleAlreadyExists.Error()
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusBadRequest, common.ErrorInvalidCredentials.Error()
	case errors.Is(err, common.ErrorAlreadyLinked):
		return http.StatusBadRequest, common.ErrorAlreadyLinked.Error()
	case errors.Is(err, common.ErrInvalidState):
		return http.StatusBadRequest, "invalid or expired link state"
	case errors.Is(err, common.ErrMissingToken):
		return http.StatusUnauthorized, common.ErrMissingToken.Error()
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrInvalidHeader):
		return http.StatusForbidden, "invalid or expired token"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeServiceError answers with the mapped status and logs server errors
// with their cause.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}
	writeError(w, status, msg)
}
