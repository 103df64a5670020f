// Package quizapi is the typed client for the REST quiz backend. Requests go
// straight to the backend or through the /api/proxy route depending on mode.
package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/normalizer"
	"quiz_portal_backend/internal/util"
	"quiz_portal_backend/pkg/monitoring"
	"quiz_portal_backend/pkg/tracing"

	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const maxResponseBytes = 10 << 20

type Options struct {
	BaseURL    string
	ProxyURL   string
	Mode       string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	baseURL  string
	proxyURL string
	mode     string
	http     *http.Client
	log      *zap.Logger
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
	mode := opts.Mode
	if mode != config.UpstreamModeProxy {
		mode = config.UpstreamModeDirect
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		proxyURL: opts.ProxyURL,
		mode:     mode,
		http:     hc,
		log:      log,
	}
}

func NewFromConfig(cfg *config.Config, log *zap.Logger) *Client {
	return New(Options{
		BaseURL:  cfg.Upstream.BaseURL,
		ProxyURL: cfg.Upstream.ProxyURL,
		Mode:     cfg.UpstreamMode(),
		Timeout:  cfg.Upstream.Timeout,
		Logger:   log,
	})
}

func (c *Client) Mode() string { return c.mode }

// URLFor resolves an API endpoint to the URL actually fetched.
func (c *Client) URLFor(endpoint string) string {
	path := endpoint
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if c.mode == config.UpstreamModeProxy {
		sep := "?"
		if strings.Contains(c.proxyURL, "?") {
			sep = "&"
		}
		return c.proxyURL + sep + "path=" + url.QueryEscape(path)
	}
	return c.baseURL + path
}

// do sends one request and returns the decoded JSON body. A body that is
// empty yields nil; a body that is not JSON is wrapped instead of failing.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (any, error) {
	target := c.URLFor(endpoint)

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(data)
		c.log.Debug("request body", zap.String("endpoint", endpoint), zap.ByteString("body", data))
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if method == http.MethodDelete {
		req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		req.Header.Set("Pragma", "no-cache")
	}

	ctx, span := tracing.StartUpstream(ctx, c.mode, method, target, propagation.HeaderCarrier(req.Header))
	req = req.WithContext(ctx)

	c.log.Debug("upstream request",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.String("url", target),
		zap.String("mode", c.mode),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		monitoring.ObserveUpstream(c.mode, method, 0, elapsed)
		tracing.EndUpstream(span, 0, err)
		c.log.Warn("upstream unreachable",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	monitoring.ObserveUpstream(c.mode, method, resp.StatusCode, elapsed)
	tracing.EndUpstream(span, resp.StatusCode, nil)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, endpoint, err)
	}

	c.log.Debug("upstream response",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
		zap.String("body", util.Truncate(string(body), util.LogBodyPreview)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(method, endpoint, resp.StatusCode, body)
		c.log.Warn("upstream error",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		c.log.Warn("upstream returned non-JSON body",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return map[string]any{
			"success":     true,
			"status":      resp.StatusCode,
			"statusText":  http.StatusText(resp.StatusCode),
			"rawResponse": string(body),
		}, nil
	}
	return decoded, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	body, err := c.do(ctx, http.MethodGet, "/categories", nil)
	if err != nil {
		return nil, err
	}
	return normalizer.Categories(body), nil
}

func (c *Client) GetCategory(ctx context.Context, slug string) (model.Category, error) {
	body, err := c.do(ctx, http.MethodGet, "/categories/"+url.PathEscape(slug), nil)
	if err != nil {
		return model.Category{}, err
	}
	return normalizer.Category(normalizer.UnwrapObject(body)), nil
}

func (c *Client) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	body, err := c.do(ctx, http.MethodPost, "/category", normalizer.ToRESTCategory(in))
	if err != nil {
		return model.Category{}, err
	}
	return categoryOrInput(body, in), nil
}

func (c *Client) UpdateCategory(ctx context.Context, slug string, in model.CategoryInput) (model.Category, error) {
	body, err := c.do(ctx, http.MethodPatch, "/category/"+url.PathEscape(slug), normalizer.ToRESTCategory(in))
	if err != nil {
		return model.Category{}, err
	}
	return categoryOrInput(body, in), nil
}

func (c *Client) DeleteCategory(ctx context.Context, slug string) error {
	_, err := c.do(ctx, http.MethodDelete, "/category/"+url.PathEscape(slug), nil)
	return err
}

func (c *Client) ListQuestionsByCategory(ctx context.Context, slug string) ([]model.Question, error) {
	body, err := c.do(ctx, http.MethodGet, "/questions/category/"+url.PathEscape(slug), nil)
	if err != nil {
		return nil, err
	}
	return normalizer.Questions(body), nil
}

func (c *Client) GetQuestion(ctx context.Context, id model.ID) (model.Question, error) {
	body, err := c.do(ctx, http.MethodGet, "/questions/"+url.PathEscape(id.String()), nil)
	if err != nil {
		return model.Question{}, err
	}
	return normalizer.Question(normalizer.UnwrapObject(body)), nil
}

func (c *Client) CreateQuestion(ctx context.Context, in model.QuestionInput) (model.Question, error) {
	body, err := c.do(ctx, http.MethodPost, "/question", normalizer.ToRESTQuestion(in))
	if err != nil {
		return model.Question{}, err
	}
	return questionOrInput(body, "", in), nil
}

func (c *Client) UpdateQuestion(ctx context.Context, id model.ID, in model.QuestionInput) (model.Question, error) {
	body, err := c.do(ctx, http.MethodPatch, "/question/"+url.PathEscape(id.String()), normalizer.ToRESTQuestion(in))
	if err != nil {
		return model.Question{}, err
	}
	return questionOrInput(body, id, in), nil
}

func (c *Client) DeleteQuestion(ctx context.Context, id model.ID) error {
	_, err := c.do(ctx, http.MethodDelete, "/question/"+url.PathEscape(id.String()), nil)
	return err
}

// Ping hits the category list on the backend itself, bypassing the proxy,
// to wake a sleeping free-tier instance.
func (c *Client) Ping(ctx context.Context) (int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/categories", nil)
	if err != nil {
		return 0, 0, err
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		monitoring.ObserveUpstream("ping", http.MethodGet, 0, elapsed)
		return 0, elapsed, err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	resp.Body.Close()
	monitoring.ObserveUpstream("ping", http.MethodGet, resp.StatusCode, elapsed)
	return resp.StatusCode, elapsed, nil
}

// categoryOrInput prefers the record the backend echoed back; a bodiless
// success falls back to what was sent.
func categoryOrInput(body any, in model.CategoryInput) model.Category {
	raw := normalizer.UnwrapObject(body)
	if !isRecord(raw) {
		return normalizer.Category(map[string]any{"title": in.Title})
	}
	return normalizer.Category(raw)
}

func questionOrInput(body any, id model.ID, in model.QuestionInput) model.Question {
	raw := normalizer.UnwrapObject(body)
	if !isRecord(raw) {
		answers := make([]model.Answer, 0, len(in.Answers))
		for _, a := range in.Answers {
			answers = append(answers, model.Answer{ID: a.ID, Text: a.Text, Correct: a.Correct})
		}
		return model.Question{ID: id, Text: in.Text, CategoryID: in.CategoryID, Answers: answers}
	}
	return normalizer.Question(raw)
}

// isRecord tells an echoed entity apart from an empty body or a
// {success, status} envelope produced for 204 and non-JSON answers.
func isRecord(raw map[string]any) bool {
	if len(raw) == 0 {
		return false
	}
	if _, ok := raw["rawResponse"]; ok {
		return false
	}
	_, hasSuccess := raw["success"]
	_, hasID := raw["id"]
	return hasID || !hasSuccess
}
