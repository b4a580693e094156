package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/de-tools/epic-report/pkg/adapters"
	"github.com/de-tools/epic-report/pkg/models/domain"
	"github.com/de-tools/epic-report/pkg/models/store"
	"github.com/de-tools/epic-report/pkg/services/config"
)

const (
	apiPrefix    = "/rest/api/3"
	searchFields = "summary,status"
)

type Options struct {
	BaseURL    string
	Email      string
	APIKey     string
	ProjectKey string

	Timeout           time.Duration
	RetryMax          int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RequestsPerMinute int
	Burst             int
	PageSize          int

	EpicJQL    string
	TaskJQL    string
	SubTaskJQL string
}

// APIError is returned for non-2xx tracker responses
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira api status=%d url=%s body=%s", e.StatusCode, e.URL, e.Body)
}

// Client talks to the Jira Cloud REST API v3. It is safe for concurrent use.
type Client struct {
	opts    Options
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

func NewClient(opts Options) *Client {
	if opts.PageSize < 1 {
		opts.PageSize = 100
	}

	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil
	httpClient.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		httpClient.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		httpClient.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Timeout > 0 {
		httpClient.HTTPClient.Timeout = opts.Timeout
	}
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	httpClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		zerolog.Ctx(req.Context()).Debug().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("attempt", attempt).
			Msg("jira request")
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(opts.RequestsPerMinute) / 60.0)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		opts:    opts,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *Client) FetchEpics(ctx context.Context) ([]domain.Epic, error) {
	issues, err := c.Search(ctx, config.ExpandJQL(c.opts.EpicJQL, c.opts.ProjectKey, ""))
	if err != nil {
		return nil, err
	}

	epics := make([]domain.Epic, 0, len(issues))
	for _, issue := range issues {
		epics = append(epics, adapters.MapStoreIssueToEpic(issue))
	}
	return epics, nil
}

func (c *Client) FetchTasks(ctx context.Context, epicKey string) ([]domain.IssueRecord, error) {
	return c.searchRecords(ctx, config.ExpandJQL(c.opts.TaskJQL, c.opts.ProjectKey, epicKey))
}

func (c *Client) FetchSubTasks(ctx context.Context, taskKey string) ([]domain.IssueRecord, error) {
	return c.searchRecords(ctx, config.ExpandJQL(c.opts.SubTaskJQL, c.opts.ProjectKey, taskKey))
}

func (c *Client) searchRecords(ctx context.Context, jql string) ([]domain.IssueRecord, error) {
	issues, err := c.Search(ctx, jql)
	if err != nil {
		return nil, err
	}

	records := make([]domain.IssueRecord, 0, len(issues))
	for _, issue := range issues {
		records = append(records, adapters.MapStoreIssueToRecord(issue))
	}
	return records, nil
}

// FetchComments returns all comments of an issue, oldest first.
func (c *Client) FetchComments(ctx context.Context, issueKey string) ([]domain.CommentRecord, error) {
	if issueKey == "" {
		return nil, fmt.Errorf("jira: empty issue key")
	}

	path := apiPrefix + "/issue/" + url.PathEscape(issueKey) + "/comment"
	var records []domain.CommentRecord
	startAt := 0
	for {
		q := url.Values{}
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", strconv.Itoa(c.opts.PageSize))

		var page store.CommentPage
		if err := c.getJSON(ctx, path, q, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch comments of %s: %w", issueKey, err)
		}
		for _, comment := range page.Comments {
			records = append(records, adapters.MapStoreCommentToRecord(comment))
		}

		startAt += len(page.Comments)
		if len(page.Comments) == 0 || startAt >= page.Total {
			break
		}
	}

	zerolog.Ctx(ctx).Debug().Str("issue", issueKey).Int("comments", len(records)).Msg("comments fetched")
	return records, nil
}

// Search runs a JQL query and follows pagination until every match is read.
func (c *Client) Search(ctx context.Context, jql string) ([]store.Issue, error) {
	if strings.TrimSpace(jql) == "" {
		return nil, fmt.Errorf("jira: empty jql")
	}

	zerolog.Ctx(ctx).Info().Str("jql", jql).Msg("fetching issues")

	var issues []store.Issue
	startAt := 0
	for {
		q := url.Values{}
		q.Set("jql", jql)
		q.Set("startAt", strconv.Itoa(startAt))
		q.Set("maxResults", strconv.Itoa(c.opts.PageSize))
		q.Set("fields", searchFields)

		var page store.SearchPage
		if err := c.getJSON(ctx, apiPrefix+"/search", q, &page); err != nil {
			return nil, fmt.Errorf("failed to search issues %q: %w", jql, err)
		}
		issues = append(issues, page.Issues...)

		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}
	return issues, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if c.opts.BaseURL == "" {
		return fmt.Errorf("jira: empty base url")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := strings.TrimRight(c.opts.BaseURL, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.opts.Email, c.opts.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			URL:        path,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s: %w", path, err)
	}
	return nil
}
