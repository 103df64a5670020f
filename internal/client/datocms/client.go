// Package datocms reads quiz and page content from the DatoCMS GraphQL API.
//
// Most fetchers never fail: the pages that use them must render even while
// the CMS is unreachable, so errors are logged and an empty list or a
// placeholder is returned instead. FetchCategoryBySlug is the exception.
package datocms

import (
	"context"
	"net/http"
	"strings"
	"time"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/pkg/monitoring"
	"quiz_portal_backend/pkg/tracing"

	"github.com/machinebox/graphql"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

type Options struct {
	Endpoint       string
	Token          string
	IncludeDrafts  bool
	ExcludeInvalid bool
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// Params describes one GraphQL request. IncludeDrafts and ExcludeInvalid are
// OR-ed with the client defaults.
type Params struct {
	Query          string
	Variables      map[string]any
	IncludeDrafts  bool
	ExcludeInvalid bool
}

type Client struct {
	gql            *graphql.Client
	endpoint       string
	token          string
	includeDrafts  bool
	excludeInvalid bool
	log            *zap.Logger
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = config.DefaultCMSEndpoint
	}

	gql := graphql.NewClient(endpoint, graphql.WithHTTPClient(hc))
	gql.Log = func(s string) { log.Debug(s) }

	return &Client{
		gql:            gql,
		endpoint:       endpoint,
		token:          opts.Token,
		includeDrafts:  opts.IncludeDrafts,
		excludeInvalid: opts.ExcludeInvalid,
		log:            log,
	}
}

func NewFromConfig(cfg *config.Config, log *zap.Logger) *Client {
	return New(Options{
		Endpoint:       cfg.CMS.Endpoint,
		Token:          cfg.CMS.APIToken,
		IncludeDrafts:  cfg.CMS.IncludeDrafts,
		ExcludeInvalid: cfg.CMS.ExcludeInvalid,
		Timeout:        cfg.CMS.Timeout,
		Logger:         log,
	})
}

// Request runs a query and decodes its data object into out.
func (c *Client) Request(ctx context.Context, p Params, out any) error {
	req := graphql.NewRequest(p.Query)
	for k, v := range p.Variables {
		req.Var(k, v)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if p.IncludeDrafts || c.includeDrafts {
		req.Header.Set("X-Include-Drafts", "true")
	}
	if p.ExcludeInvalid || c.excludeInvalid {
		req.Header.Set("X-Exclude-Invalid", "true")
	}

	ctx, span := tracing.StartUpstream(ctx, "cms", http.MethodPost, c.endpoint, propagation.HeaderCarrier(req.Header))
	start := time.Now()
	err := c.gql.Run(ctx, req, out)
	elapsed := time.Since(start)

	status := http.StatusOK
	if err != nil {
		status = 0
	}
	monitoring.ObserveUpstream("cms", http.MethodPost, status, elapsed)
	tracing.EndUpstream(span, status, err)

	if err != nil {
		c.log.Warn("cms request failed",
			zap.String("endpoint", c.endpoint),
			zap.String("token", maskToken(c.token)),
			zap.String("query", preview(p.Query)),
			zap.Error(err),
		)
		return err
	}
	c.log.Debug("cms request", zap.String("query", preview(p.Query)), zap.Duration("elapsed", elapsed))
	return nil
}

func maskToken(token string) string {
	if token == "" {
		return "missing"
	}
	if len(token) <= 5 {
		return "..."
	}
	return token[:5] + "..."
}

func preview(query string) string {
	q := strings.Join(strings.Fields(query), " ")
	if len(q) > 100 {
		return q[:100] + "..."
	}
	return q
}
