package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz_portal_backend/internal/config"
)

type stubPinger struct {
	code int
	err  error
}

func (p stubPinger) Ping(context.Context) (int, time.Duration, error) {
	return p.code, 1500 * time.Millisecond, p.err
}

func TestWakerStates(t *testing.T) {
	cfg := &config.WakerConfig{Enabled: true, Schedule: "@every 10m"}

	w := NewWakerService(stubPinger{code: 200}, cfg, time.Second, nil)
	if w.Status().State != WakerIdle {
		t.Fatalf("want idle before first ping, got %q", w.Status().State)
	}

	st := w.Ping(context.Background())
	if st.State != WakerSuccess || st.StatusCode != 200 || st.LatencyMs != 1500 {
		t.Fatalf("unexpected status %#v", st)
	}
	if st.LastPing == nil {
		t.Fatalf("last ping not recorded")
	}

	// 非 2xx 也说明后端已醒
	w = NewWakerService(stubPinger{code: 503}, cfg, time.Second, nil)
	if st := w.Ping(context.Background()); st.State != WakerSuccess {
		t.Fatalf("any response counts as awake, got %q", st.State)
	}

	w = NewWakerService(stubPinger{err: errors.New("connection refused")}, cfg, time.Second, nil)
	st = w.Ping(context.Background())
	if st.State != WakerError || st.Error != "connection refused" {
		t.Fatalf("unexpected status %#v", st)
	}
	if w.Status().State != WakerError {
		t.Fatalf("status not kept")
	}
}

func TestWakerRejectsBadSchedule(t *testing.T) {
	w := NewWakerService(stubPinger{}, &config.WakerConfig{Schedule: "every now and then"}, time.Second, nil)
	if err := w.Start(); err == nil {
		w.Stop()
		t.Fatalf("bad schedule accepted")
	}
}
