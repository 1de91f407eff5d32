package handler

import (
	"net/http"

	"github.com/jobportal-dev/job-portal/backend/internal/domain"
	"github.com/jobportal-dev/job-portal/backend/internal/feed"
	"github.com/jobportal-dev/job-portal/backend/internal/policy"
)

// Home lists jobs, optionally narrowed by the category and location query
// parameters and optionally merged with the external feed. A feed failure
// degrades to an empty external list plus a warning, never a failed
// response.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	filters := domain.JobFilters{
		Category: r.URL.Query().Get("category"),
		Location: r.URL.Query().Get("location"),
	}

	jobs, err := h.repository.ListJobs(filters)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	notices := []domain.Notice{}
	externalJobs := []feed.ExternalJob{}
	if r.URL.Query().Get("show_external") != "" {
		externalJobs, err = h.feed.Fetch(r.Context(), h.config.Feed.Limit)
		if err != nil {
			externalJobs = []feed.ExternalJob{}
			notices = append(notices, domain.Notice{Severity: domain.SeverityWarning, Message: "Could not fetch external jobs."})
		}
	}

	h.render(w, r, "index", map[string]any{
		"jobs":         jobs,
		"externalJobs": externalJobs,
	}, notices...)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	jobs, err := h.repository.ListJobsByOwner(actor.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.render(w, r, "dashboard", map[string]any{
		"jobs": jobs,
	})
}

func (h *Handler) PostJobForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "post_job", nil)
}

func (h *Handler) PostJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description" validate:"required"`
		Location    string `json:"location" validate:"required"`
		Salary      string `json:"salary"`
		Company     string `json:"company"`
		Category    string `json:"category"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, "post_job", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, "post_job", err)
		return
	}

	actor := actorFromContext(r.Context())

	job := &domain.Job{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Salary:      req.Salary,
		Company:     req.Company,
		Category:    req.Category,
		OwnerID:     actor.ID,
	}

	if err := h.repository.CreateJob(job); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.redirect(w, r, "/dashboard", domain.Notice{Severity: domain.SeveritySuccess, Message: "Job posted!"})
}

// ViewApplicants shows who applied to one of the actor's own jobs. Another
// employer's job redirects back to the dashboard instead of erroring.
func (h *Handler) ViewApplicants(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	job := r.Context().Value(JobCtx).(*domain.Job)

	if !policy.Allowed(actor, policy.ActionViewApplicants, policy.Resource{OwnerID: job.OwnerID}) {
		h.deny(w, r, "/dashboard")
		return
	}

	applicants, err := h.repository.ListApplicantsByJob(job.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.render(w, r, "view_applicants", map[string]any{
		"job":        job,
		"applicants": applicants,
	})
}
