package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spigell/hh-matcher/internal/ai"
	"github.com/spigell/hh-matcher/internal/service"
	"github.com/spigell/hh-matcher/internal/session"
)

const (
	kindInput     = "input_error"
	kindEmbedding = "embedding_failure"
	kindAuth      = "unauthorized"
	kindConflict  = "conflict"
	kindInternal  = "internal_error"
)

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func classify(err error) (int, APIError) {
	var (
		inputErr *service.InputError
		embedErr *ai.EmbeddingError
	)

	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, APIError{Kind: kindInput, Message: inputErr.Error(), Field: inputErr.Field}
	case errors.As(err, &embedErr):
		return http.StatusBadGateway, APIError{Kind: kindEmbedding, Message: embedErr.Error()}
	case errors.Is(err, session.ErrUserExists):
		return http.StatusConflict, APIError{Kind: kindConflict, Message: err.Error()}
	case errors.Is(err, session.ErrInvalidSession),
		errors.Is(err, session.ErrUserNotFound),
		errors.Is(err, session.ErrInvalidPassword):
		return http.StatusUnauthorized, APIError{Kind: kindAuth, Message: err.Error()}
	default:
		return http.StatusInternalServerError, APIError{Kind: kindInternal, Message: err.Error()}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
