package engine

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// ytLimiter paces all YouTube-bound requests across goroutines. YouTube
// throttles aggressive clients per IP; a shared limiter keeps concurrent tool
// calls from burning the budget.
var ytLimiter *rate.Limiter

// InitRateLimit configures the YouTube request limiter.
// rps <= 0 disables pacing entirely.
func InitRateLimit(rps float64, burst int) {
	if rps <= 0 {
		ytLimiter = nil
		return
	}
	if burst < 1 {
		burst = 1
	}
	ytLimiter = rate.NewLimiter(rate.Limit(rps), burst)
	slog.Info("rate limit: initialized", slog.Float64("rps", rps), slog.Int("burst", burst))
}

// WaitYouTube blocks until the limiter admits one request or ctx is done.
func WaitYouTube(ctx context.Context) error {
	if ytLimiter == nil {
		return nil
	}
	return ytLimiter.Wait(ctx)
}
