package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/internal/util"
	"quiz_portal_backend/pkg/monitoring"
	"quiz_portal_backend/pkg/tracing"

	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// ProxyRequest is one inbound browser request destined for the backend.
type ProxyRequest struct {
	Method    string
	Path      string
	Body      []byte
	RequestID string
}

// ProxyResult is what the proxy route writes back. Exactly one of Raw and
// Body is set, or neither for a bodiless answer.
type ProxyResult struct {
	Status  int
	Raw     []byte
	Body    any
	NoStore bool
}

type ProxyService struct {
	baseURL           atomic.Value
	client            *http.Client
	preserveNoContent bool
	maxBodyBytes      int64
	log               *zap.Logger
}

func NewProxyService(cfg *config.Config, log *zap.Logger) *ProxyService {
	return NewProxyServiceWithClient(cfg, &http.Client{Timeout: cfg.Upstream.Timeout}, log)
}

func NewProxyServiceWithClient(cfg *config.Config, client *http.Client, log *zap.Logger) *ProxyService {
	if log == nil {
		log = zap.NewNop()
	}
	maxBody := cfg.Proxy.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 10 << 20
	}
	s := &ProxyService{
		client:            client,
		preserveNoContent: cfg.Proxy.PreserveNoContent,
		maxBodyBytes:      maxBody,
		log:               log,
	}
	s.SetBaseURL(cfg.Upstream.BaseURL)
	return s
}

// SetBaseURL swaps the upstream origin; safe to call while serving.
func (s *ProxyService) SetBaseURL(base string) {
	s.baseURL.Store(strings.TrimRight(base, "/"))
}

func (s *ProxyService) BaseURL() string {
	v, _ := s.baseURL.Load().(string)
	return v
}

func (s *ProxyService) MaxBodyBytes() int64 { return s.maxBodyBytes }

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func errorResult(status int, msg string) ProxyResult {
	return ProxyResult{Status: status, Body: map[string]any{"error": msg}}
}

// Forward relays req to the backend and normalizes whatever comes back.
func (s *ProxyService) Forward(ctx context.Context, req ProxyRequest) ProxyResult {
	if req.Path == "" {
		s.log.Warn("proxy request without path", zap.String("method", req.Method))
		return errorResult(http.StatusBadRequest, "Path parameter is required")
	}

	target, err := s.resolve(req.Path)
	if err != nil {
		s.log.Warn("proxy rejected path", zap.String("path", req.Path), zap.Error(err))
		return errorResult(http.StatusBadRequest, "Invalid path parameter")
	}

	var body io.Reader
	if hasBody(req.Method) && len(bytes.TrimSpace(req.Body)) > 0 {
		var payload any
		if err := json.Unmarshal(req.Body, &payload); err != nil {
			return errorResult(http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		}
		body = bytes.NewReader(req.Body)
		s.log.Debug("proxy forwarding body",
			zap.String("path", req.Path),
			zap.String("body", util.Truncate(string(req.Body), util.LogBodyPreview)),
		)
	}

	upstreamReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return s.transportFailure(req, err)
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	upstreamReq.Header.Set("Cache-Control", "no-cache, no-store")
	upstreamReq.Header.Set("Pragma", "no-cache")
	if req.RequestID != "" {
		upstreamReq.Header.Set(util.HeaderRequestID, req.RequestID)
	}

	spanCtx, span := tracing.StartUpstream(ctx, "proxy", req.Method, target, propagation.HeaderCarrier(upstreamReq.Header))
	upstreamReq = upstreamReq.WithContext(spanCtx)

	s.log.Info("proxying request",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.String("request_id", req.RequestID),
	)

	start := time.Now()
	resp, err := s.client.Do(upstreamReq)
	elapsed := time.Since(start)
	if err != nil {
		monitoring.ObserveUpstream("proxy", req.Method, 0, elapsed)
		tracing.EndUpstream(span, 0, err)
		return s.transportFailure(req, err)
	}
	defer resp.Body.Close()

	monitoring.ObserveUpstream("proxy", req.Method, resp.StatusCode, elapsed)
	tracing.EndUpstream(span, resp.StatusCode, nil)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodyBytes))
	if err != nil {
		s.log.Warn("proxy failed to read response", zap.String("path", req.Path), zap.Error(err))
		return ProxyResult{Status: resp.StatusCode, Body: map[string]any{
			"success":    isSuccess(resp.StatusCode),
			"status":     resp.StatusCode,
			"statusText": statusText(resp),
			"error":      "Failed to read response",
		}}
	}

	s.log.Info("proxy received response",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)
	s.log.Debug("proxy response detail",
		zap.Any("headers", resp.Header),
		zap.String("body", util.Truncate(string(raw), util.LogBodyPreview)),
	)

	return s.translate(req, resp, raw)
}

func (s *ProxyService) translate(req ProxyRequest, resp *http.Response, raw []byte) ProxyResult {
	status := resp.StatusCode

	if !isSuccess(status) {
		if json.Valid(raw) {
			return ProxyResult{Status: status, Raw: raw}
		}
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = fmt.Sprintf("Server responded with status %d", status)
		}
		s.log.Warn("upstream error", zap.String("path", req.Path), zap.Int("status", status), zap.String("body", util.Truncate(msg, util.LogBodyPreview)))
		return ProxyResult{Status: status, Body: map[string]any{"error": msg, "status": status}}
	}

	if status == http.StatusNoContent {
		if s.preserveNoContent {
			return ProxyResult{Status: http.StatusNoContent}
		}
		return ProxyResult{Status: http.StatusOK, Body: map[string]any{"success": true, "status": http.StatusNoContent}}
	}

	if json.Valid(raw) {
		return ProxyResult{Status: status, Raw: raw, NoStore: true}
	}

	s.log.Warn("upstream returned non-JSON body", zap.String("path", req.Path), zap.Int("status", status))
	return ProxyResult{Status: status, Body: map[string]any{
		"success":     true,
		"status":      status,
		"statusText":  statusText(resp),
		"rawResponse": string(raw),
	}}
}

func (s *ProxyService) transportFailure(req ProxyRequest, err error) ProxyResult {
	s.log.Error("proxy error",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Error(err),
	)
	return errorResult(http.StatusInternalServerError,
		fmt.Sprintf("Failed to %s data: %s", strings.ToLower(req.Method), err.Error()))
}

// resolve joins the path onto the upstream origin and refuses anything that
// would leave that origin.
func (s *ProxyService) resolve(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	base := s.BaseURL()
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	target, err := url.Parse(base + path)
	if err != nil {
		return "", err
	}
	if target.Host != baseURL.Host || target.Scheme != baseURL.Scheme || target.User != nil {
		return "", fmt.Errorf("path escapes upstream origin")
	}
	return target.String(), nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
