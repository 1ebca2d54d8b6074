package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/travishathaway/gdfm/internal/config"
	"github.com/travishathaway/gdfm/internal/domain"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	mediaType  = "application/vnd.github+json"
	apiVersion = "2022-11-28"
)

// FetchError is a failed request against the GitHub API.
type FetchError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool {
	return target == domain.ErrTransientFetch
}

// Client is a minimal GitHub REST client implementing domain.RemoteClient.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      string
	userAgent  string
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// NewClient builds a client from explicit configuration.
func NewClient(cfg config.GitHub, logger *logrus.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid GITHUB_API_URL: %v", domain.ErrConfiguration, err)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c, nil
}

var _ domain.RemoteClient = (*Client)(nil)

// ListPullRequests lists one page of pull requests.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo string, opts domain.PullRequestListOptions) (*domain.ListPage[domain.RemotePullRequest], error) {
	q := url.Values{}
	if opts.State != "" {
		q.Set("state", opts.State)
	}
	q.Set("page", strconv.Itoa(opts.Page))
	q.Set("per_page", strconv.Itoa(opts.PerPage))

	return getList[domain.RemotePullRequest](ctx, c, "list pulls", q, "repos", owner, repo, "pulls")
}

type searchResult struct {
	TotalCount        int  `json:"total_count"`
	IncompleteResults bool `json:"incomplete_results"`
}

// CountPullRequests returns the number of pull requests reported by the
// issue search endpoint. state is "all", "open" or "closed".
func (c *Client) CountPullRequests(ctx context.Context, owner, repo, state string) (int, error) {
	terms := []string{"repo:" + owner + "/" + repo, "is:pr"}
	if state == "open" || state == "closed" {
		terms = append(terms, "is:"+state)
	}

	q := url.Values{}
	q.Set("q", strings.Join(terms, " "))
	q.Set("per_page", "1")

	var res searchResult
	if _, err := c.get(ctx, "search pulls", q, &res, "search", "issues"); err != nil {
		return 0, err
	}
	if res.IncompleteResults {
		c.logger.WithFields(logrus.Fields{
			"repository": owner + "/" + repo,
			"total":      res.TotalCount,
		}).Warn("Search results are incomplete")
	}
	return res.TotalCount, nil
}

// ListReviews lists one page of reviews of a pull request.
func (c *Client) ListReviews(ctx context.Context, owner, repo string, number, page, perPage int) (*domain.ListPage[domain.RemoteReview], error) {
	return getList[domain.RemoteReview](ctx, c, "list reviews", pageQuery(page, perPage),
		"repos", owner, repo, "pulls", strconv.Itoa(number), "reviews")
}

// ListTimeline lists one page of timeline events of a pull request.
func (c *Client) ListTimeline(ctx context.Context, owner, repo string, number, page, perPage int) (*domain.ListPage[domain.RemoteTimelineEvent], error) {
	return getList[domain.RemoteTimelineEvent](ctx, c, "list timeline", pageQuery(page, perPage),
		"repos", owner, repo, "issues", strconv.Itoa(number), "timeline")
}

func pageQuery(page, perPage int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return q
}

func getList[T any](ctx context.Context, c *Client, op string, q url.Values, segments ...string) (*domain.ListPage[T], error) {
	var items []*T
	header, err := c.get(ctx, op, q, &items, segments...)
	if err != nil {
		return nil, err
	}
	return &domain.ListPage[T]{Items: items, Link: header.Get("Link")}, nil
}

func (c *Client) get(ctx context.Context, op string, q url.Values, out any, segments ...string) (http.Header, error) {
	u := c.baseURL.JoinPath(segments...)
	u.RawQuery = q.Encode()
	target := u.String()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{Op: op, URL: target, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Op: op, URL: target, Err: err}
	}
	req.Header.Set("Accept", mediaType)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"op":     op,
		"url":    target,
		"status": resp.StatusCode,
	}).Debug("GitHub request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &FetchError{Op: op, URL: target, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrParse, op, target, err)
	}

	return resp.Header, nil
}
