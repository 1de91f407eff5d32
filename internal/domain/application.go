package domain

import (
	"errors"
	"time"
)

// ErrAlreadyApplied is the domain outcome of a duplicate application attempt.
// The storage layer maps a unique-constraint violation on (job_id, user_id)
// to this error so concurrent duplicate submissions cannot create two rows.
var ErrAlreadyApplied = errors.New("already applied to this job")

type Application struct {
	ID        int64     `json:"id"`
	JobID     int64     `json:"jobId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ApplicationWithJob is an application joined with its job, used when a
// seeker lists their own applications.
type ApplicationWithJob struct {
	Application
	Job Job `json:"job"`
}

// Applicant is an application joined with the applying user, used when an
// employer views the applicants of one of their jobs.
type Applicant struct {
	Application
	Username string `json:"username"`
	Email    string `json:"email"`
}
