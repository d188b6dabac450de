package middleware

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m3rciful/servicebot/core/logger"
	tghelpers "github.com/m3rciful/servicebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

// RateLimitMiddleware allows one update per Interval for each user.
// Documents and photos count as "message" for exclusion purposes.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[int64]*rate.Limiter)
	)
	limiterFor := func(userID int64) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[userID]
		if !ok {
			l = rate.NewLimiter(rate.Every(opts.Interval), 1)
			limiters[userID] = l
		}
		return l
	}

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			kind := UpdateKind(c.Update())
			if kind == "document" || kind == "photo" {
				kind = "message"
			}
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}

			if limiterFor(user.ID).Allow() {
				return next(c)
			}

			ctx := tghelpers.BuildContext(c)
			logger.Warn(ctx, logger.CompTG, "tg.rate_limit",
				slog.String("status", "rate_limited"),
				slog.String("input", kind),
			)
			tghelpers.SetOutcome(c, "rate_limited")
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
