// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/HSouheill/mlm_backoffice/models"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

type RateLimiter struct {
	ips            map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	mu             sync.Mutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
	now            func() time.Time
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:            make(map[string]*rate.Limiter),
		blockedIPs:     make(map[string]time.Time),
		defaultLimit:   rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:   20,
		blockDuration:  5 * time.Minute,
		endpointLimits: make(map[string]endpointLimit),
		now:            time.Now,
	}

	// Login is limited hard against password guessing
	limiter.SetEndpointLimit("/api/auth/login", rate.Every(2*time.Second), 5)

	return limiter
}

// SetEndpointLimit overrides the default limit for one route path.
func (r *RateLimiter) SetEndpointLimit(path string, limit rate.Limit, burst int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpointLimits[path] = endpointLimit{limit: limit, burst: burst}
}

// Cleanup forgets expired blocks together with the limiter state of those
// IPs. It returns how many blocks were lifted.
func (r *RateLimiter) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for ip, blockUntil := range r.blockedIPs {
		if now.After(blockUntil) {
			delete(r.blockedIPs, ip)
			for key := range r.ips {
				if key == ip || strings.HasPrefix(key, ip+" ") {
					delete(r.ips, key)
				}
			}
			removed++
		}
	}
	return removed
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			path := c.Path()

			r.mu.Lock()
			if blockUntil, blocked := r.blockedIPs[ip]; blocked {
				if now := r.now(); now.Before(blockUntil) {
					r.mu.Unlock()
					return tooManyRequests(c, "IP address blocked due to too many requests", now, blockUntil)
				}
				// Block has expired, start over with a fresh limiter
				delete(r.blockedIPs, ip)
				delete(r.ips, ip)
			}

			limit, burst := r.defaultLimit, r.defaultBurst
			if endpoint, exists := r.endpointLimits[path]; exists {
				limit, burst = endpoint.limit, endpoint.burst
			}
			// Endpoint limits get their own bucket per IP
			key := ip
			if _, exists := r.endpointLimits[path]; exists {
				key = ip + " " + path
			}
			limiter, exists := r.ips[key]
			if !exists {
				limiter = rate.NewLimiter(limit, burst)
				r.ips[key] = limiter
			}

			now := r.now()
			if !limiter.AllowN(now, 1) {
				blockUntil := now.Add(r.blockDuration)
				r.blockedIPs[ip] = blockUntil
				r.mu.Unlock()
				c.Logger().Warnf("Rate limit exceeded for %s on %s", ip, path)
				return tooManyRequests(c, "Too many requests", now, blockUntil)
			}
			r.mu.Unlock()

			return next(c)
		}
	}
}

func tooManyRequests(c echo.Context, message string, now, retryAt time.Time) error {
	retryAfter := int(retryAt.Sub(now).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
	return c.JSON(http.StatusTooManyRequests, models.Response{
		Status:  http.StatusTooManyRequests,
		Message: message,
		Data:    map[string]string{"retryAfter": retryAt.UTC().Format(time.RFC3339)},
	})
}
