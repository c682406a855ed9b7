package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nurturemyplants/plantcare/internal/infra/config"
)

// fixedWindowLimiter counts hits per key inside wall-clock-aligned windows.
// The window starting boundary is now.Truncate(window), so an hourly counter
// resets on the hour. This deliberately allows short bursts across a
// boundary; smoothing is not a goal here.
type fixedWindowLimiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	counts map[string]*windowCount
	now    func() time.Time
}

type windowCount struct {
	start time.Time
	hits  int
}

func newFixedWindowLimiter(quota config.WindowQuota) *fixedWindowLimiter {
	return &fixedWindowLimiter{
		window: quota.Window,
		limit:  quota.Limit,
		counts: make(map[string]*windowCount),
		now:    time.Now,
	}
}

// allow records a hit for key and reports whether it fits the current window.
// When denied it also returns the instant the window rolls over.
func (l *fixedWindowLimiter) allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	start := now.Truncate(l.window)
	wc, ok := l.counts[key]
	if !ok || !wc.start.Equal(start) {
		l.pruneLocked(start)
		wc = &windowCount{start: start}
		l.counts[key] = wc
	}
	if wc.hits >= l.limit {
		return false, start.Add(l.window)
	}
	wc.hits++
	return true, time.Time{}
}

// pruneLocked drops counters from previous windows so per-IP maps do not
// grow without bound.
func (l *fixedWindowLimiter) pruneLocked(currentStart time.Time) {
	for key, wc := range l.counts {
		if !wc.start.Equal(currentStart) {
			delete(l.counts, key)
		}
	}
}

const globalCounterKey = "global"

// Limiters bundles the independent fixed-window counters for each endpoint
// class.
type Limiters struct {
	enabled        bool
	identifyPerIP  *fixedWindowLimiter
	identifyGlobal *fixedWindowLimiter
	general        *fixedWindowLimiter
	pdfExport      *fixedWindowLimiter
	shareCreation  *fixedWindowLimiter
	logger         *slog.Logger
}

// NewLimiters is a wire provider for the rate-limit middleware set.
func NewLimiters(cfg config.RateLimitConfig, logger *slog.Logger) *Limiters {
	return &Limiters{
		enabled:        cfg.Enabled,
		identifyPerIP:  newFixedWindowLimiter(cfg.IdentifyPerIP),
		identifyGlobal: newFixedWindowLimiter(cfg.IdentifyGlobal),
		general:        newFixedWindowLimiter(cfg.General),
		pdfExport:      newFixedWindowLimiter(cfg.PDFExport),
		shareCreation:  newFixedWindowLimiter(cfg.ShareCreation),
		logger:         logger.With("component", "http.ratelimit"),
	}
}

// General covers every /api route with the lenient per-IP counter.
func (l *Limiters) General() gin.HandlerFunc {
	return l.perIP(l.general, "Too many requests",
		"Too many requests from this IP, please try again later.")
}

// Identify gates the identification endpoint with both the per-IP and the
// global counter; either one tripping denies the request.
func (l *Limiters) Identify() gin.HandlerFunc {
	if !l.enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ok, resetAt := l.identifyPerIP.allow(ip); !ok {
			l.reject(c, ip, resetAt, "Too many plant identifications",
				"You have exceeded the limit of 10 plant identifications per hour. Please try again later.")
			return
		}
		if ok, resetAt := l.identifyGlobal.allow(globalCounterKey); !ok {
			l.reject(c, ip, resetAt, "Daily API limit exceeded",
				"The daily limit of 1000 plant identifications has been reached. Please try again tomorrow.")
			return
		}
		c.Next()
	}
}

// PDFExport covers the care-sheet download endpoint.
func (l *Limiters) PDFExport() gin.HandlerFunc {
	return l.perIP(l.pdfExport, "Too many PDF requests",
		"You have exceeded the limit for PDF generation. Please try again later.")
}

// ShareCreation covers share-link creation.
func (l *Limiters) ShareCreation() gin.HandlerFunc {
	return l.perIP(l.shareCreation, "Too many share link requests",
		"You have exceeded the limit for creating share links. Please try again later.")
}

func (l *Limiters) perIP(limiter *fixedWindowLimiter, errTitle, message string) gin.HandlerFunc {
	if !l.enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ok, resetAt := limiter.allow(ip); !ok {
			l.reject(c, ip, resetAt, errTitle, message)
			return
		}
		c.Next()
	}
}

func (l *Limiters) reject(c *gin.Context, ip string, resetAt time.Time, errTitle, message string) {
	l.logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path, "reset_at", resetAt)
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":      errTitle,
		"message":    message,
		"retryAfter": retryHint(time.Until(resetAt)),
	})
}

// retryHint renders the time until the window rolls over as a human hint.
func retryHint(d time.Duration) string {
	switch {
	case d <= 0:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%d seconds", int(d.Seconds())+1)
	case d < time.Hour:
		return fmt.Sprintf("%d minutes", int(d.Minutes())+1)
	default:
		return fmt.Sprintf("%d hours", int(d.Hours())+1)
	}
}
