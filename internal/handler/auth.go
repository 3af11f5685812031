package handler

import (
	"net/http"
	"strings"

	"github.com/jobboard-dev/jobboard/backend/internal/domain"
	"github.com/jobboard-dev/jobboard/backend/internal/service"
)

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string      `json:"email" validate:"required,email,max=254"`
		Password string      `json:"password" validate:"required,min=8,max=72"`
		Name     string      `json:"name" validate:"required,max=100"`
		Role     domain.Role `json:"role" validate:"required,oneof=JOB_SEEKER EMPLOYER"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, token, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusCreated, "registered", authResponse{Token: token, User: user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, token, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "logged in", authResponse{Token: token, User: user})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, http.StatusOK, "current user", myInfoFrom(r))
}
