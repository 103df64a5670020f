package service

import (
	"context"
	"sync"
	"time"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/pkg/monitoring"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	WakerIdle    = "idle"
	WakerPinging = "pinging"
	WakerSuccess = "success"
	WakerError   = "error"
)

// BackendStatus 是最近一次唤醒请求的结果
type BackendStatus struct {
	State      string     `json:"state"`
	StatusCode int        `json:"statusCode,omitempty"`
	LatencyMs  int64      `json:"latencyMs,omitempty"`
	Error      string     `json:"error,omitempty"`
	LastPing   *time.Time `json:"lastPing,omitempty"`
}

// Pinger is satisfied by quizapi.Client.
type Pinger interface {
	Ping(ctx context.Context) (int, time.Duration, error)
}

// WakerService keeps the free-tier REST backend from sleeping and reports
// whether it answered the last ping.
type WakerService struct {
	pinger   Pinger
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	log      *zap.Logger

	mu     sync.RWMutex
	status BackendStatus
}

func NewWakerService(pinger Pinger, cfg *config.WakerConfig, timeout time.Duration, log *zap.Logger) *WakerService {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &WakerService{
		pinger:   pinger,
		schedule: cfg.Schedule,
		timeout:  timeout,
		cron:     cron.New(),
		log:      log,
		status:   BackendStatus{State: WakerIdle},
	}
}

// Start pings once right away and then on the configured schedule.
func (w *WakerService) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, func() { w.Ping(context.Background()) }); err != nil {
		return err
	}
	w.cron.Start()
	go w.Ping(context.Background())
	w.log.Info("backend waker started", zap.String("schedule", w.schedule))
	return nil
}

// Stop waits for a running ping to finish.
func (w *WakerService) Stop() {
	<-w.cron.Stop().Done()
}

func (w *WakerService) Ping(ctx context.Context) BackendStatus {
	w.setState(BackendStatus{State: WakerPinging, LastPing: w.Status().LastPing})

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	code, elapsed, err := w.pinger.Ping(ctx)
	now := time.Now()
	st := BackendStatus{
		StatusCode: code,
		LatencyMs:  elapsed.Milliseconds(),
		LastPing:   &now,
	}

	// 只要有 HTTP 响应就说明后端已经醒了
	if err != nil {
		st.State = WakerError
		st.Error = err.Error()
		monitoring.BackendUp.Set(0)
		w.log.Warn("failed to wake up backend", zap.Duration("elapsed", elapsed), zap.Error(err))
	} else {
		st.State = WakerSuccess
		monitoring.BackendUp.Set(1)
		w.log.Info("backend responded", zap.Int("status", code), zap.Duration("elapsed", elapsed))
	}

	w.setState(st)
	return st
}

func (w *WakerService) Status() BackendStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

func (w *WakerService) setState(st BackendStatus) {
	w.mu.Lock()
	w.status = st
	w.mu.Unlock()
}
