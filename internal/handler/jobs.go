package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jobboard-dev/jobboard/backend/internal/service"
	"github.com/jobboard-dev/jobboard/backend/internal/utils"
)

type jobRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"required,max=10000"`
	Company     string          `json:"company" validate:"required,max=200"`
	Location    string          `json:"location" validate:"required,max=200"`
	Salary      json.RawMessage `json:"salary"`
}

// readJobInput decodes and validates a job body, answering the request itself on failure.
func (h *Handler) readJobInput(w http.ResponseWriter, r *http.Request) (service.JobInput, bool) {
	var req jobRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return service.JobInput{}, false
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Company = strings.TrimSpace(req.Company)
	req.Location = strings.TrimSpace(req.Location)
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return service.JobInput{}, false
	}

	salary, err := utils.ParseSalary(req.Salary)
	if err != nil {
		h.badRequest(w, r, err)
		return service.JobInput{}, false
	}

	return service.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Company:     req.Company,
		Location:    req.Location,
		Salary:      salary,
	}, true
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobService.List(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "jobs", jobs)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobService.Get(r.Context(), pathIDFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "job", job)
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readJobInput(w, r)
	if !ok {
		return
	}

	job, err := h.jobService.Create(r.Context(), identityFrom(r).UserID, in)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusCreated, "job created", job)
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readJobInput(w, r)
	if !ok {
		return
	}

	job, err := h.jobService.Update(r.Context(), pathIDFrom(r), identityFrom(r).UserID, in)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "job updated", job)
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.jobService.Delete(r.Context(), pathIDFrom(r), identityFrom(r).UserID); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.noContent(w)
}

func (h *Handler) ApplyToJob(w http.ResponseWriter, r *http.Request) {
	app, err := h.applicationService.Apply(r.Context(), pathIDFrom(r), identityFrom(r).UserID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusCreated, "application submitted", app)
}

// GetEmployerJobs lists the caller's postings together with who applied to each.
func (h *Handler) GetEmployerJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobService.ListForEmployer(r.Context(), myInfoFrom(r).ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "employer jobs", jobs)
}
