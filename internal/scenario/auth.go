package scenario

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// IsAuthenticated reports whether rawURL is a signed-in app page: off the
// sign-in route and on the dashboard or a customer page.
func IsAuthenticated(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	p := u.Path
	if strings.HasPrefix(p, "/auth/signin") {
		return false
	}
	return strings.HasPrefix(p, "/dashboard") || strings.HasPrefix(p, "/customer")
}

// WaitForAuth polls currentURL up to attempts times, interval apart, until
// it is an authenticated page. It returns the last URL seen.
func WaitForAuth(ctx context.Context, currentURL func() string, attempts int, interval time.Duration) (string, error) {
	if attempts < 1 {
		attempts = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	var last string
	for i := 0; i < attempts; i++ {
		last = currentURL()
		if IsAuthenticated(last) {
			return last, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-t.C:
		}
	}
	return last, ErrNotAuthenticated
}
