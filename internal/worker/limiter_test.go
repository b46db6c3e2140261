package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(1, 2)

	url := "http://model-server:8000/classify"
	if !l.Allow(url) {
		t.Error("first request should be allowed")
	}
	if !l.Allow(url) {
		t.Error("second request should be allowed (burst)")
	}
	if l.Allow(url) {
		t.Error("third request should be rejected")
	}
}

func TestLimiter_PerHost(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("http://annotator:5000/annotate") {
		t.Error("first host should be allowed")
	}
	if !l.Allow("http://classifier:8000/classify") {
		t.Error("second host has its own bucket")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetHostRate("gpu:8000", 100, 10)

	allowed := 0
	for i := 0; i < 5; i++ {
		if l.Allow("http://gpu:8000/classify") {
			allowed++
		}
	}
	if allowed != 5 {
		t.Errorf("expected 5 allowed with burst 10, got %d", allowed)
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	url := "http://slow:8000/classify"

	// Exhaust the burst.
	_ = l.Allow(url)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, url); err == nil {
		t.Error("expected context deadline error")
	}
}

func TestLimiter_BadURL(t *testing.T) {
	l := NewLimiter(1, 1)
	if l.Allow("://bad") {
		t.Error("expected rejection for unparseable URL")
	}
}
