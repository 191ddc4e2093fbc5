package folio

import (
	"testing"
	"time"
)

func TestLoginLimiterBlocksAfterMaxFailures(t *testing.T) {
	limiter := NewLoginLimiter(2, time.Minute)
	ip := "203.0.113.10"

	if !limiter.Check(ip) {
		t.Fatalf("expected fresh IP to pass the check")
	}
	limiter.Record(ip)
	if !limiter.Check(ip) {
		t.Fatalf("expected IP with one failure to pass the check")
	}
	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected IP at the limit to be blocked")
	}
}

func TestLoginLimiterCheckRecordsNothing(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	ip := "203.0.113.15"

	for i := 0; i < 10; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("check %d blocked an IP with no recorded failures", i)
		}
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewLoginLimiter(1, 150*time.Millisecond)
	ip := "203.0.113.20"

	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected IP at the limit to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Check(ip) {
		t.Fatalf("expected check after window to pass")
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)

	limiter.Record("203.0.113.30")
	if limiter.Check("203.0.113.30") {
		t.Fatalf("expected first IP to be blocked")
	}
	if !limiter.Check("203.0.113.31") {
		t.Fatalf("expected second IP to pass")
	}
}
