package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jobportal-dev/job-portal/backend/internal/domain"
)

// CreateApplication inserts the application row. The (job_id, user_id)
// uniqueness invariant is enforced by the database, so two concurrent
// attempts for the same pair cannot both succeed; the loser's constraint
// violation is returned as domain.ErrAlreadyApplied.
func (r *Repository) CreateApplication(app *domain.Application) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO applications (job_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := r.dbpool.QueryRowContext(ctx, query, app.JobID, app.UserID).Scan(&app.ID, &app.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrAlreadyApplied
		}
		return err
	}

	return nil
}

func (r *Repository) CheckApplicationIfExists(jobID, userID int64) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND user_id = $2)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, jobID, userID).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

// ListApplicationsByUser returns the caller's applications joined with the
// jobs they applied to.
func (r *Repository) ListApplicationsByUser(userID int64) ([]*domain.ApplicationWithJob, error) {
	query := `
		SELECT a.id, a.job_id, a.user_id, a.created_at,
		       j.title, j.description, j.location, j.salary, j.company, j.category, j.created_at, j.owner_id
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.user_id = $1
		ORDER BY a.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]*domain.ApplicationWithJob, 0)
	for rows.Next() {
		app := &domain.ApplicationWithJob{}
		dst := []any{
			&app.ID, &app.JobID, &app.UserID, &app.CreatedAt,
			&app.Job.Title, &app.Job.Description, &app.Job.Location, &app.Job.Salary,
			&app.Job.Company, &app.Job.Category, &app.Job.CreatedAt, &app.Job.OwnerID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		app.Job.ID = app.JobID
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

// ListApplicantsByJob returns the applications for a job joined with the
// applying users.
func (r *Repository) ListApplicantsByJob(jobID int64) ([]*domain.Applicant, error) {
	query := `
		SELECT a.id, a.job_id, a.user_id, a.created_at, u.username, u.email
		FROM applications a
		JOIN users u ON u.id = a.user_id
		WHERE a.job_id = $1
		ORDER BY a.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applicants := make([]*domain.Applicant, 0)
	for rows.Next() {
		applicant := &domain.Applicant{}
		dst := []any{&applicant.ID, &applicant.JobID, &applicant.UserID, &applicant.CreatedAt, &applicant.Username, &applicant.Email}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		applicants = append(applicants, applicant)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return applicants, nil
}
