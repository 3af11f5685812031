package handler

import (
	"net/http"

	"github.com/jobboard-dev/jobboard/backend/internal/domain"
)

func (h *Handler) GetMyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.applicationService.ListMine(r.Context(), identityFrom(r).UserID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "applications", apps)
}

func (h *Handler) WithdrawApplication(w http.ResponseWriter, r *http.Request) {
	if err := h.applicationService.Withdraw(r.Context(), pathIDFrom(r), identityFrom(r).UserID); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.noContent(w)
}

func (h *Handler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.ApplicationStatus `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	app, err := h.applicationService.UpdateStatus(r.Context(), pathIDFrom(r), identityFrom(r).UserID, req.Status)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "application status updated", app)
}
