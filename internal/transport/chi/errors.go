package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/logger"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest   = "BAD_REQUEST"
	codeValidation   = "VALIDATION_ERROR"
	codeUnauthorized = "UNAUTHORIZED"
	codeForbidden    = "FORBIDDEN"
	codeNotFound     = "NOT_FOUND"
	codeRateLimited  = "RATE_LIMITED"
	codeInternal     = "INTERNAL_ERROR"
)

type errorResponse struct {
	Code          string          `json:"code"`
	Message       string          `json:"message"`
	Details       map[string]any  `json:"details,omitempty"`
	FieldErrors   []fieldErrorDTO `json:"fieldErrors,omitempty"`
	CorrelationID string          `json:"correlationId"`
}

type fieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, r *http.Request, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		validationHandler,
		fieldErrorsHandler,
		scopeHandler,
		notFoundHandler,
		sentinelHandler(domain.ErrAlreadyPublished, http.StatusBadRequest, codeBadRequest, "Article is already published"),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized, "Authentication required"),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, codeForbidden,
			"Insufficient permissions to access this resource"),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited, "Rate limit exceeded"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeErrorBody(w, r, status, errorResponse{Code: code, Message: message})
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, body errorResponse) {
	body.CorrelationID = chiMiddleware.GetReqID(r.Context())
	writeJSON(w, status, body)
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code, msg string) errorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, r, status, code, msg)
		return true
	}
}

func validationHandler(w http.ResponseWriter, r *http.Request, err error) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeErrorBody(w, r, http.StatusBadRequest, errorResponse{
		Code:    codeBadRequest,
		Message: "Invalid request parameters",
		Details: map[string]any{"invalidParams": ve.Params},
	})
	return true
}

func fieldErrorsHandler(w http.ResponseWriter, r *http.Request, err error) bool {
	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		return false
	}
	out := make([]fieldErrorDTO, len(fe))
	for i, f := range fe {
		out[i] = fieldErrorDTO{Field: f.Field, Message: f.Message, Code: f.Code}
	}
	writeErrorBody(w, r, http.StatusUnprocessableEntity, errorResponse{
		Code:        codeValidation,
		Message:     "Request validation failed",
		FieldErrors: out,
	})
	return true
}

func scopeHandler(w http.ResponseWriter, r *http.Request, err error) bool {
	var se *domain.ScopeError
	if !errors.As(err, &se) {
		return false
	}
	writeErrorBody(w, r, http.StatusForbidden, errorResponse{
		Code:    codeForbidden,
		Message: "Insufficient permissions to access this resource",
		Details: map[string]any{"requiredScope": se.Required},
	})
	return true
}

func notFoundHandler(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, domain.ErrNotFound) {
		return false
	}
	body := errorResponse{Code: codeNotFound, Message: "Article not found"}
	if id := chi.URLParam(r, "articleId"); id != "" {
		body.Details = map[string]any{"articleId": id}
	}
	writeErrorBody(w, r, http.StatusNotFound, body)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, r, err) {
			log.Debug("request rejected", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, codeInternal, "An unexpected error occurred")
}
