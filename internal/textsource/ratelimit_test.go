package textsource

import (
	"net/http"
	"strconv"
	"testing"
	"time"
)

func response(status int, headers map[string]string) *http.Response {
	resp := &http.Response{StatusCode: status, Header: http.Header{}}
	for k, v := range headers {
		resp.Header.Set(k, v)
	}
	return resp
}

func TestParseRateLimit(t *testing.T) {
	if parseRateLimit(nil) != nil {
		t.Error("nil response should parse to nil")
	}
	if parseRateLimit(response(200, nil)) != nil {
		t.Error("missing headers should parse to nil")
	}

	rl := parseRateLimit(response(200, map[string]string{
		"X-RateLimit-Remaining": "42",
		"X-RateLimit-Reset":     "1700000000",
	}))
	if rl == nil {
		t.Fatal("expected rate limit info")
	}
	if rl.Remaining != 42 {
		t.Errorf("Remaining = %d, want 42", rl.Remaining)
	}
	if !rl.Reset.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("Reset = %v", rl.Reset)
	}
	if !rl.low() {
		t.Error("42 remaining should be low")
	}

	if parseRateLimit(response(200, map[string]string{"X-RateLimit-Reset": "1"})).low() {
		t.Error("unknown remaining should not be low")
	}
	var none *rateLimit
	if none.low() {
		t.Error("nil rate limit should not be low")
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		want bool
	}{
		{"nil", nil, false},
		{"ok", response(200, nil), false},
		{"too many requests", response(429, nil), true},
		{"forbidden exhausted", response(403, map[string]string{"X-RateLimit-Remaining": "0"}), true},
		{"forbidden retry after", response(403, map[string]string{"Retry-After": "5"}), true},
		{"forbidden permissions", response(403, map[string]string{"X-RateLimit-Remaining": "4000"}), false},
		{"server error", response(502, nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRateLimited(tt.resp); got != tt.want {
				t.Errorf("isRateLimited() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRateLimitWait(t *testing.T) {
	now := time.Unix(1700000000, 0)

	resetIn := response(403, map[string]string{
		"X-RateLimit-Remaining": "0",
		"X-RateLimit-Reset":     strconv.FormatInt(now.Add(90*time.Second).Unix(), 10),
	})
	if got := rateLimitWait(resetIn, now); got != 90*time.Second {
		t.Errorf("reset header: got %v, want 90s", got)
	}

	retryAfter := response(429, map[string]string{"Retry-After": "7"})
	if got := rateLimitWait(retryAfter, now); got != 7*time.Second {
		t.Errorf("Retry-After: got %v, want 7s", got)
	}

	pastReset := response(429, map[string]string{
		"X-RateLimit-Reset": strconv.FormatInt(now.Add(-time.Minute).Unix(), 10),
		"Retry-After":       "3",
	})
	if got := rateLimitWait(pastReset, now); got != 3*time.Second {
		t.Errorf("past reset: got %v, want 3s", got)
	}

	if got := rateLimitWait(response(429, nil), now); got != maxRateLimitWait {
		t.Errorf("no headers: got %v, want %v", got, maxRateLimitWait)
	}
}
