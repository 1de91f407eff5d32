// Package feed pulls a small set of listings from a third-party job feed.
// The fetch is strictly best effort: any failure (network error, non-success
// status, malformed payload, timeout) is returned as a plain error that the
// caller degrades to an empty list plus a warning, never a failed request.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jobportal-dev/job-portal/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

const cacheKey = "external_jobs_feed"

// ExternalJob is one record of the remote feed, field names following the
// Remotive payload.
type ExternalJob struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company_name"`
	Category string `json:"category"`
	Location string `json:"candidate_required_location"`
	URL      string `json:"url"`
}

type Client struct {
	cfg         *config.Config
	httpClient  *http.Client
	redisClient *redis.Client
}

// NewClient builds a feed client. rdb may be nil, in which case responses
// are simply not cached.
func NewClient(cfg *config.Config, rdb *redis.Client) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Feed.Timeout) * time.Second,
		},
		redisClient: rdb,
	}
}

// Fetch returns at most limit external jobs. A cached copy of the last
// successful fetch is served when present; cache failures are ignored.
func (c *Client) Fetch(ctx context.Context, limit int) ([]ExternalJob, error) {
	if jobs, ok := c.fromCache(ctx, limit); ok {
		return jobs, nil
	}

	url := fmt.Sprintf("%s?limit=%d", c.cfg.Feed.URL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var payload struct {
		Jobs []ExternalJob `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	jobs := payload.Jobs
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}

	c.toCache(ctx, jobs)

	return jobs, nil
}

func (c *Client) fromCache(ctx context.Context, limit int) ([]ExternalJob, bool) {
	if c.redisClient == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	data, err := c.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return nil, false
	}

	var jobs []ExternalJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, false
	}

	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, true
}

func (c *Client) toCache(ctx context.Context, jobs []ExternalJob) {
	if c.redisClient == nil {
		return
	}

	data, err := json.Marshal(jobs)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	_ = c.redisClient.Set(ctx, cacheKey, data, time.Duration(c.cfg.Feed.CacheTTL)*time.Second).Err()
}
