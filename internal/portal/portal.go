package portal

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	apiURL      = "http://127.0.0.1:8000"
	jobPath     = "/get-job-details"
	analyzePath = "/analyze-resume/"
	userAgent   = "spigell/applicant (spigelly@gmail.com)"
)

// Options configures a portal Client. Empty values fall back to defaults.
type Options struct {
	APIURL      string
	JobPath     string
	AnalyzePath string
	UserAgent   string
	// Token is sent as a bearer token when set.
	Token string
	// Timeout bounds a whole request. Zero keeps the transport default (no limit).
	Timeout time.Duration
	// HTTPClient allows tests to inject a client, e.g. from httptest.Server.
	HTTPClient *http.Client
}

// Client talks to the career portal: the job source and the assessment service.
type Client struct {
	rest        *resty.Client
	logger      *zap.Logger
	token       string
	JobPath     string
	AnalyzePath string
	UserAgent   string
	APIURL      string
}

func New(logger *zap.Logger, opts Options) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	c := &Client{
		logger:      logger,
		token:       strings.TrimSpace(opts.Token),
		APIURL:      strings.TrimRight(defaultString(opts.APIURL, apiURL), "/"),
		JobPath:     defaultString(opts.JobPath, jobPath),
		AnalyzePath: defaultString(opts.AnalyzePath, analyzePath),
		UserAgent:   defaultString(opts.UserAgent, userAgent),
	}

	c.rest = resty.NewWithClient(httpClient).
		SetBaseURL(c.APIURL).
		SetLogger(logger.Sugar()).
		OnBeforeRequest(c.setHeaders).
		OnAfterResponse(c.logResponse)

	if opts.Timeout > 0 {
		c.rest.SetTimeout(opts.Timeout)
	}

	return c
}

// GetJob fetches the single active job posting.
func (c *Client) GetJob(ctx context.Context) (*JobPosting, error) {
	return c.getJob(ctx)
}

// Analyze submits the application to the assessment service.
// The resume is consumed by the call.
func (c *Client) Analyze(ctx context.Context, requestID string, app *Application) (*Assessment, error) {
	return c.analyze(ctx, requestID, app)
}

func defaultString(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
