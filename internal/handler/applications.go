package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jobportal-dev/job-portal/backend/internal/domain"
)

// Apply records the actor's application to a job. The operation is
// idempotent: a second attempt for the same job is answered with an
// "already applied" notice and leaves exactly one row behind, including
// under concurrent duplicate submissions (the storage layer surfaces the
// race as domain.ErrAlreadyApplied).
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	jobIDParam := chi.URLParam(r, "id")
	jobID, err := strconv.ParseInt(jobIDParam, 10, 64)
	if err != nil {
		h.deny(w, r, "/", domain.Notice{Severity: domain.SeverityWarning, Message: "Invalid job id."})
		return
	}

	actor := actorFromContext(r.Context())

	job, err := h.repository.GetJobByID(jobID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Applying to a job that does not exist is a no-op.
			h.deny(w, r, "/", domain.Notice{Severity: domain.SeverityWarning, Message: "Job not found."})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	exists, err := h.repository.CheckApplicationIfExists(job.ID, actor.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if exists {
		h.redirect(w, r, "/", domain.Notice{Severity: domain.SeverityInfo, Message: "Already applied."})
		return
	}

	app := &domain.Application{
		JobID:  job.ID,
		UserID: actor.ID,
	}

	if err := h.repository.CreateApplication(app); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyApplied):
			// Lost the race against a concurrent duplicate submission.
			h.redirect(w, r, "/", domain.Notice{Severity: domain.SeverityInfo, Message: "Already applied."})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// Tell the employer, best effort.
	if owner, err := h.repository.GetUserByID(job.OwnerID); err == nil {
		h.queueMail(domain.MailMessage{
			Type: "application_received",
			To:   owner.Email,
			Data: domain.ApplicationReceivedMailData{
				EmployerName: owner.Username,
				JobTitle:     job.Title,
				Applicant:    actor.Username,
			},
		})
	}

	h.redirect(w, r, "/", domain.Notice{Severity: domain.SeveritySuccess, Message: "Applied successfully!"})
}

func (h *Handler) MyApplications(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	apps, err := h.repository.ListApplicationsByUser(actor.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.render(w, r, "my_applications", map[string]any{
		"applications": apps,
	})
}
