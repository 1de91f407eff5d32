package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/jobportal-dev/job-portal/backend/internal/config"
	"github.com/jobportal-dev/job-portal/backend/internal/domain"
	"github.com/jobportal-dev/job-portal/backend/internal/feed"
	"github.com/jobportal-dev/job-portal/backend/internal/policy"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Store is the persistence surface the handlers depend on, implemented by
// *repository.Repository.
type Store interface {
	CreateUser(user *domain.User) error
	GetUserByID(id int64) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	GetAllUsers() ([]*domain.User, error)
	CheckEmailIfExists(email string) (bool, error)
	DeleteUser(id int64) error

	CreateJob(job *domain.Job) error
	GetJobByID(id int64) (*domain.Job, error)
	ListJobs(filters domain.JobFilters) ([]*domain.Job, error)
	ListJobsByOwner(ownerID int64) ([]*domain.Job, error)
	DeleteJob(id int64) error

	CreateApplication(app *domain.Application) error
	CheckApplicationIfExists(jobID, userID int64) (bool, error)
	ListApplicationsByUser(userID int64) ([]*domain.ApplicationWithJob, error)
	ListApplicantsByJob(jobID int64) ([]*domain.Applicant, error)
}

// FeedFetcher is the external feed surface, implemented by *feed.Client.
type FeedFetcher interface {
	Fetch(ctx context.Context, limit int) ([]feed.ExternalJob, error)
}

// MailQueue is satisfied by *amqp.Channel.
type MailQueue interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  Store
	translator  ut.Translator
	feed        FeedFetcher
	mailChannel MailQueue

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Store, feedClient FeedFetcher, mailCh MailQueue) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		feed:        feedClient,
		mailChannel: mailCh,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(h.currentUser)

	// Open to everyone, signed in or not.
	h.Mux.Get("/", h.Home)
	h.Mux.Get("/register", h.RegisterForm)
	h.Mux.Post("/register", h.Register)
	h.Mux.Get("/login", h.LoginForm)
	h.Mux.Post("/login", h.Login)

	// Everything below requires a session.
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.requireLogin)

		r.Get("/logout", h.Logout)

		// Employer views. Other roles are silently sent back home.
		r.With(h.authorize(policy.ActionViewDashboard)).Get("/dashboard", h.Dashboard)
		r.Group(func(r chi.Router) {
			r.Use(h.authorize(policy.ActionPostJob))
			r.Get("/post_job", h.PostJobForm)
			r.Post("/post_job", h.PostJob)
		})
		r.With(h.jobRecord).Get("/job/{id}/applicants", h.ViewApplicants)

		// Seeker views.
		r.With(h.authorize(policy.ActionApply, domain.Notice{Severity: domain.SeverityWarning, Message: "Only seekers can apply."})).
			Get("/apply/{id}", h.Apply)
		r.With(h.authorize(policy.ActionViewOwnApplications)).
			Get("/my_applications", h.MyApplications)

		// Admin moderation.
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.authorize(policy.ActionViewAdminPanel, domain.Notice{Severity: domain.SeverityDanger, Message: "Access Denied."}))
			r.Get("/", h.AdminOverview)
			r.Get("/delete_user/{id}", h.DeleteUser)
			r.Get("/delete_job/{id}", h.DeleteJob)
		})
	})
}
