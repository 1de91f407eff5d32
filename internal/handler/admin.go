package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jobportal-dev/job-portal/backend/internal/domain"
)

func (h *Handler) AdminOverview(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	jobs, err := h.repository.ListJobs(domain.JobFilters{})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.render(w, r, "admin", map[string]any{
		"users": users,
		"jobs":  jobs,
	})
}

// DeleteUser removes the user and everything hanging off them. The delete
// is a no-op for an unknown id, so it always lands back on the admin view.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userIDParam := chi.URLParam(r, "id")
	userID, err := strconv.ParseInt(userIDParam, 10, 64)
	if err != nil {
		h.deny(w, r, "/admin", domain.Notice{Severity: domain.SeverityWarning, Message: "Invalid user id."})
		return
	}

	if err := h.repository.DeleteUser(userID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.redirect(w, r, "/admin", domain.Notice{Severity: domain.SeveritySuccess, Message: "User deleted."})
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobIDParam := chi.URLParam(r, "id")
	jobID, err := strconv.ParseInt(jobIDParam, 10, 64)
	if err != nil {
		h.deny(w, r, "/admin", domain.Notice{Severity: domain.SeverityWarning, Message: "Invalid job id."})
		return
	}

	if err := h.repository.DeleteJob(jobID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.redirect(w, r, "/admin", domain.Notice{Severity: domain.SeveritySuccess, Message: "Job deleted."})
}
