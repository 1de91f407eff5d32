package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jobportal-dev/job-portal/backend/internal/domain"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// Response is the structured view value the presentation layer renders.
// Either View or Redirect is set; Notices are one-shot messages and are not
// persisted anywhere.
type Response struct {
	Success  bool            `json:"success"`
	View     string          `json:"view,omitempty"`
	Redirect string          `json:"redirect,omitempty"`
	Notices  []domain.Notice `json:"notices,omitempty"`
	Data     any             `json:"data,omitempty"`
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, view string, data any, notices ...domain.Notice) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		View:    view,
		Notices: notices,
		Data:    data,
	})
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target string, notices ...domain.Notice) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success:  true,
		Redirect: target,
		Notices:  notices,
	})
}

// deny redirects to a safe default view with a visible notice. Authorization
// failures always land here, never in an error status.
func (h *Handler) deny(w http.ResponseWriter, r *http.Request, target string, notices ...domain.Notice) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success:  false,
		Redirect: target,
		Notices:  notices,
	})
}

// badRequest re-shows the given view with a danger notice, translating
// validator errors into readable messages.
func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, view string, err error) {
	msg := err.Error()
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		msg = validationErrors[0].Translate(h.translator)
	}

	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		View:    view,
		Notices: []domain.Notice{{Severity: domain.SeverityDanger, Message: msg}},
	})
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Notices: []domain.Notice{{Severity: domain.SeverityDanger, Message: "internal server error"}},
	})
}
