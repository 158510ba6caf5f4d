package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/knaptrace/knaptrace/pkg/errors"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusForCode maps application error codes to HTTP status codes.
func statusForCode(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidProblem,
		apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidName,
		apperrors.ErrCodeInvalidID:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound,
		apperrors.ErrCodeReportNotFound,
		apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeLimitExceeded:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeStoreUnavailable,
		apperrors.ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes v as a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// writeError writes err as a JSON error response. Errors without an
// application code are reported as internal.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	s.writeJSON(w, statusForCode(code), errorResponse{
		Error: errorBody{
			Code:    string(code),
			Message: apperrors.UserMessage(err),
		},
	})
}
