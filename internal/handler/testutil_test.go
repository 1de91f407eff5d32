package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jobportal-dev/job-portal/backend/internal/config"
	"github.com/jobportal-dev/job-portal/backend/internal/domain"
	"github.com/jobportal-dev/job-portal/backend/internal/feed"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeStore is an in-memory Store mirroring the constraints the real
// repository relies on: unique emails, unique (job, user) application pairs
// and transactional cascades.
type fakeStore struct {
	mu         sync.Mutex
	nextUserID int64
	nextJobID  int64
	nextAppID  int64
	users      map[int64]*domain.User
	jobs       map[int64]*domain.Job
	apps       map[int64]*domain.Application
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]*domain.User),
		jobs:  make(map[int64]*domain.Job),
		apps:  make(map[int64]*domain.Application),
	}
}

func (s *fakeStore) CreateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()
	user.Version = 1
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeStore) GetUserByID(id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (s *fakeStore) GetUserByEmail(email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) GetAllUsers() ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, user := range s.users {
		clone := *user
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *fakeStore) CheckEmailIfExists(email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for appID, app := range s.apps {
		if app.UserID == id {
			delete(s.apps, appID)
			continue
		}
		if job, ok := s.jobs[app.JobID]; ok && job.OwnerID == id {
			delete(s.apps, appID)
		}
	}
	for jobID, job := range s.jobs {
		if job.OwnerID == id {
			delete(s.jobs, jobID)
		}
	}
	delete(s.users, id)
	return nil
}

func (s *fakeStore) CreateJob(job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.Company == "" {
		job.Company = domain.DefaultCompany
	}
	if job.Category == "" {
		job.Category = domain.DefaultCategory
	}

	s.nextJobID++
	job.ID = s.nextJobID
	job.CreatedAt = time.Now()
	clone := *job
	s.jobs[job.ID] = &clone
	return nil
}

func (s *fakeStore) GetJobByID(id int64) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *job
	return &clone, nil
}

func (s *fakeStore) ListJobs(filters domain.JobFilters) ([]*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]*domain.Job, 0)
	for _, job := range s.jobs {
		if filters.Category != "" && !strings.Contains(strings.ToLower(job.Category), strings.ToLower(filters.Category)) {
			continue
		}
		if filters.Location != "" && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(filters.Location)) {
			continue
		}
		clone := *job
		jobs = append(jobs, &clone)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs, nil
}

func (s *fakeStore) ListJobsByOwner(ownerID int64) ([]*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]*domain.Job, 0)
	for _, job := range s.jobs {
		if job.OwnerID == ownerID {
			clone := *job
			jobs = append(jobs, &clone)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs, nil
}

func (s *fakeStore) DeleteJob(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for appID, app := range s.apps {
		if app.JobID == id {
			delete(s.apps, appID)
		}
	}
	delete(s.jobs, id)
	return nil
}

func (s *fakeStore) CreateApplication(app *domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.apps {
		if existing.JobID == app.JobID && existing.UserID == app.UserID {
			return domain.ErrAlreadyApplied
		}
	}

	s.nextAppID++
	app.ID = s.nextAppID
	app.CreatedAt = time.Now()
	clone := *app
	s.apps[app.ID] = &clone
	return nil
}

func (s *fakeStore) CheckApplicationIfExists(jobID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, app := range s.apps {
		if app.JobID == jobID && app.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ListApplicationsByUser(userID int64) ([]*domain.ApplicationWithJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := make([]*domain.ApplicationWithJob, 0)
	for _, app := range s.apps {
		if app.UserID != userID {
			continue
		}
		job, ok := s.jobs[app.JobID]
		if !ok {
			continue
		}
		apps = append(apps, &domain.ApplicationWithJob{Application: *app, Job: *job})
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps, nil
}

func (s *fakeStore) ListApplicantsByJob(jobID int64) ([]*domain.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applicants := make([]*domain.Applicant, 0)
	for _, app := range s.apps {
		if app.JobID != jobID {
			continue
		}
		user, ok := s.users[app.UserID]
		if !ok {
			continue
		}
		applicants = append(applicants, &domain.Applicant{Application: *app, Username: user.Username, Email: user.Email})
	}
	sort.Slice(applicants, func(i, j int) bool { return applicants[i].ID < applicants[j].ID })
	return applicants, nil
}

func (s *fakeStore) countApplications() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.apps)
}

func (s *fakeStore) countUsers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *fakeStore) countJobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// fakeFeed hands back canned external jobs or a canned failure.
type fakeFeed struct {
	jobs []feed.ExternalJob
	err  error
}

func (f *fakeFeed) Fetch(ctx context.Context, limit int) ([]feed.ExternalJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.jobs) > limit {
		return f.jobs[:limit], nil
	}
	return f.jobs, nil
}

// fakeMailQueue records what would have gone to rabbitmq.
type fakeMailQueue struct {
	mu        sync.Mutex
	published []domain.MailMessage
}

func (q *fakeMailQueue) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var mailMessage domain.MailMessage
	if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
		return err
	}
	q.published = append(q.published, mailMessage)
	return nil
}

func (q *fakeMailQueue) messages() []domain.MailMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.MailMessage(nil), q.published...)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 1
	cfg.Feed.Limit = 5
	cfg.RabbitMQ.PublishTimeout = 1
	return cfg
}

func newTestHandler(t *testing.T) (*Handler, *fakeStore, *fakeFeed, *fakeMailQueue) {
	t.Helper()

	store := newFakeStore()
	feedClient := &fakeFeed{}
	mailQueue := &fakeMailQueue{}

	h, err := NewHandler(testConfig(), store, feedClient, mailQueue)
	require.NoError(t, err)
	h.RegisterRoutes()

	return h, store, feedClient, mailQueue
}

func createUser(t *testing.T, store *fakeStore, username string, role domain.Role) *domain.User {
	t.Helper()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(passwordHash),
		Role:         role,
	}
	require.NoError(t, store.CreateUser(user))
	return user
}

func sessionCookie(t *testing.T, h *Handler, user *domain.User) *http.Cookie {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	require.NoError(t, err)

	return &http.Cookie{Name: sessionCookieName, Value: ss}
}

func doRequest(t *testing.T, h *Handler, method, target string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, reqBody)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return rec, resp
}

func noticeMessages(resp Response) []string {
	messages := make([]string, 0, len(resp.Notices))
	for _, notice := range resp.Notices {
		messages = append(messages, notice.Message)
	}
	return messages
}
