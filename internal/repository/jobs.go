package repository

import (
	"context"
	"time"

	"github.com/jobportal-dev/job-portal/backend/internal/domain"
)

func (r *Repository) CreateJob(job *domain.Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if job.Company == "" {
		job.Company = domain.DefaultCompany
	}
	if job.Category == "" {
		job.Category = domain.DefaultCategory
	}

	query := `
		INSERT INTO jobs (title, description, location, salary, company, category, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	args := []any{job.Title, job.Description, job.Location, job.Salary, job.Company, job.Category, job.OwnerID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.ID, &job.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetJobByID(id int64) (*domain.Job, error) {
	query := `
		SELECT title, description, location, salary, company, category, created_at, owner_id
		FROM jobs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	job := &domain.Job{
		ID: id,
	}

	dst := []any{&job.Title, &job.Description, &job.Location, &job.Salary, &job.Company, &job.Category, &job.CreatedAt, &job.OwnerID}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return job, nil
}

// ListJobs returns the jobs matching filters. Empty filter fields impose no
// constraint; supplied fields are case-insensitive substring matches combined
// with AND. Result order is id order so a fixed dataset always lists the
// same way.
func (r *Repository) ListJobs(filters domain.JobFilters) ([]*domain.Job, error) {
	query := `
		SELECT id, title, description, location, salary, company, category, created_at, owner_id
		FROM jobs
		WHERE ($1 = '' OR category ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR location ILIKE '%' || $2 || '%')
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, filters.Category, filters.Location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job := &domain.Job{}
		dst := []any{&job.ID, &job.Title, &job.Description, &job.Location, &job.Salary, &job.Company, &job.Category, &job.CreatedAt, &job.OwnerID}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *Repository) ListJobsByOwner(ownerID int64) ([]*domain.Job, error) {
	query := `
		SELECT id, title, description, location, salary, company, category, created_at, owner_id
		FROM jobs WHERE owner_id = $1 ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job := &domain.Job{}
		dst := []any{&job.ID, &job.Title, &job.Description, &job.Location, &job.Salary, &job.Company, &job.Category, &job.CreatedAt, &job.OwnerID}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

// DeleteJob removes the job and its applications in one transaction.
// Deleting an id that does not exist is a no-op.
func (r *Repository) DeleteJob(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		DELETE FROM applications WHERE job_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	query = `
		DELETE FROM jobs WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
