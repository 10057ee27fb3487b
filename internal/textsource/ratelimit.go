package textsource

import (
	"net/http"
	"strconv"
	"time"
)

const (
	// lowQuota is the remaining request count below which fetches are logged
	// as approaching the rate limit.
	lowQuota = 100

	// maxRateLimitWait is the longest rate limit pause a fetch will sit out
	// before giving up.
	maxRateLimitWait = 60 * time.Second
)

// rateLimit holds rate limit information from GitHub API response headers.
type rateLimit struct {
	Remaining int
	Reset     time.Time
}

// parseRateLimit extracts rate limit headers from resp. Returns nil if the
// headers are not present.
func parseRateLimit(resp *http.Response) *rateLimit {
	if resp == nil {
		return nil
	}

	remainingStr := resp.Header.Get("X-RateLimit-Remaining")
	resetStr := resp.Header.Get("X-RateLimit-Reset")
	if remainingStr == "" && resetStr == "" {
		return nil
	}

	info := &rateLimit{Remaining: -1}
	if n, err := strconv.Atoi(remainingStr); err == nil {
		info.Remaining = n
	}
	if unix, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
		info.Reset = time.Unix(unix, 0)
	}
	return info
}

// low reports whether the remaining quota is known and under lowQuota.
func (r *rateLimit) low() bool {
	return r != nil && r.Remaining >= 0 && r.Remaining < lowQuota
}

func isRateLimited(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden &&
		(resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.Header.Get("Retry-After") != "")
}

// rateLimitWait returns how long to pause before retrying a rate limited
// request, using the reset header first and Retry-After second.
func rateLimitWait(resp *http.Response, now time.Time) time.Duration {
	if info := parseRateLimit(resp); info != nil && !info.Reset.IsZero() {
		if d := info.Reset.Sub(now); d > 0 {
			return d
		}
	}
	if s := resp.Header.Get("Retry-After"); s != "" {
		if seconds, err := strconv.Atoi(s); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return maxRateLimitWait
}
