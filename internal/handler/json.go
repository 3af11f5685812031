package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/jobboard-dev/jobboard/backend/internal/auth"
	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

const maxBodyBytes = 1 << 20

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("internal server error",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("request body must be a valid JSON object")
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.errorResponse(w, r, http.StatusBadRequest, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "internal server error",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, status int, msg string, data any) {
	h.writeJSON(w, r, status, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func (h *Handler) noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

type errorMapping struct {
	target  error
	status  int
	message string
}

// serviceErrors maps domain failures to responses; the first match wins.
var serviceErrors = []errorMapping{
	{domain.ErrEmailTaken, http.StatusBadRequest, "email is already registered"},
	{domain.ErrAlreadyApplied, http.StatusBadRequest, "you have already applied to this job"},
	{domain.ErrInvalidStatusTransition, http.StatusConflict, "application has already been decided"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "authentication required"},
	{domain.ErrForbidden, http.StatusForbidden, "you do not have permission to perform this action"},
	{auth.ErrTokenExpired, http.StatusForbidden, "invalid or expired token"},
	{auth.ErrTokenInvalid, http.StatusForbidden, "invalid or expired token"},
	{domain.ErrNotFound, http.StatusNotFound, "resource not found"},
	{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many failed login attempts, try again later"},
}

// serviceError writes the response for an error returned by a service. Anything unmapped is
// logged and reported as a generic internal error.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			h.errorResponse(w, r, m.status, m.message)
			return
		}
	}
	h.internalServerError(w, r, err)
}
