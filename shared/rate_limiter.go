package shared

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DownloadRateLimiter enforces a minimum delay between remote sheet
// downloads. The timer-driven resync and the manual admin trigger share one
// downloader, so back-to-back fetches of the upstream sheet are spaced out.
type DownloadRateLimiter struct {
	minimumDelay    time.Duration
	lastRequestTime time.Time
	mutex           sync.Mutex
	requestCount    int64
}

// NewDownloadRateLimiter creates a rate limiter with the specified minimum delay
func NewDownloadRateLimiter(minimumDelay time.Duration) *DownloadRateLimiter {
	return &DownloadRateLimiter{
		minimumDelay: minimumDelay,
	}
}

// EnforceRateLimit blocks until the minimum delay has elapsed since the last request
func (limiter *DownloadRateLimiter) EnforceRateLimit() {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()

	if !limiter.lastRequestTime.IsZero() {
		elapsed := time.Since(limiter.lastRequestTime)
		if elapsed < limiter.minimumDelay {
			remaining := limiter.minimumDelay - elapsed

			logrus.WithFields(logrus.Fields{
				"component":       "DownloadRateLimiter",
				"remaining_delay": remaining,
				"request_count":   limiter.requestCount + 1,
			}).Debug("Enforcing rate limit delay")

			time.Sleep(remaining)
		}
	}

	limiter.lastRequestTime = time.Now()
	limiter.requestCount++
}

// GetRequestCount returns the total number of requests processed
func (limiter *DownloadRateLimiter) GetRequestCount() int64 {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()
	return limiter.requestCount
}
