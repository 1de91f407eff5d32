package seed

import (
	"errors"
	"log/slog"

	"github.com/jobportal-dev/job-portal/backend/internal/domain"
	"github.com/jobportal-dev/job-portal/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type demoJob struct {
	Title       string
	Description string
	Location    string
	Salary      string
	Company     string
	Category    string
}

var demoEmployers = map[string][]demoJob{
	"acmehiring": {
		{
			Title:       "Backend Developer",
			Description: "Build and operate the services behind our storefront.",
			Location:    "Remote",
			Salary:      "$90k-$120k",
			Company:     "Acme Corp",
			Category:    "Technology",
		},
		{
			Title:       "Site Reliability Engineer",
			Description: "Keep the lights on and the pagers quiet.",
			Location:    "Berlin",
			Salary:      "",
			Company:     "Acme Corp",
			Category:    "Technology",
		},
	},
	"freelancegigs": {
		{
			Title:       "Technical Writer",
			Description: "Short-term contract documenting a public API.",
			Location:    "Remote",
			Salary:      "$40/h",
			Company:     "", // falls back to the Freelance default
			Category:    "Writing",
		},
	},
}

var demoSeekers = []string{"aliceseeker", "bobseeker", "carolseeker"}

// SeedDemoData inserts a small recognizable dataset: two employers with
// their postings and three seekers, each applying to the first posting.
// Existing rows (unique email violations) are skipped, so reruns are safe.
func SeedDemoData(r *repository.Repository, password string) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash seed password", "error", err)
		return
	}

	var firstJobID int64

	for username, jobs := range demoEmployers {
		employer := &domain.User{
			Username:     username,
			Email:        username + "@example.com",
			PasswordHash: string(passwordHash),
			Role:         domain.RoleEmployer,
		}
		if err := r.CreateUser(employer); err != nil {
			slog.Error("failed to insert employer", "username", username, "error", err)
			continue
		}

		for _, dj := range jobs {
			job := &domain.Job{
				Title:       dj.Title,
				Description: dj.Description,
				Location:    dj.Location,
				Salary:      dj.Salary,
				Company:     dj.Company,
				Category:    dj.Category,
				OwnerID:     employer.ID,
			}
			if err := r.CreateJob(job); err != nil {
				slog.Error("failed to insert job", "title", dj.Title, "error", err)
				continue
			}
			if firstJobID == 0 {
				firstJobID = job.ID
			}
		}
	}

	for _, username := range demoSeekers {
		seeker := &domain.User{
			Username:     username,
			Email:        username + "@example.com",
			PasswordHash: string(passwordHash),
			Role:         domain.RoleSeeker,
		}
		if err := r.CreateUser(seeker); err != nil {
			slog.Error("failed to insert seeker", "username", username, "error", err)
			continue
		}

		if firstJobID == 0 {
			continue
		}

		app := &domain.Application{
			JobID:  firstJobID,
			UserID: seeker.ID,
		}
		if err := r.CreateApplication(app); err != nil && !errors.Is(err, domain.ErrAlreadyApplied) {
			slog.Error("failed to insert application", "username", username, "error", err)
			continue
		}
	}

	slog.Info("demo data inserted")
}
