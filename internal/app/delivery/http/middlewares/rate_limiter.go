package middlewares

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/exceptions"
	"zemedic-service/internal/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter is a per-IP token bucket. A client that exhausts its bucket is
// blocked for blockTime.
type RateLimiter struct {
	limiters  map[string]*rate.Limiter
	blocked   map[string]time.Time
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	blockTime time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewRateLimiter(requestsPerMinute, burst int, blockTime time.Duration, log *zap.Logger) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		blocked:   make(map[string]time.Time),
		limit:     rate.Limit(float64(requestsPerMinute) / 60),
		burst:     burst,
		blockTime: blockTime,
		log:       log,
		now:       time.Now,
	}
}

func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ip := clientIP(req)
		now := l.now()

		l.mu.Lock()
		if blockedUntil, found := l.blocked[ip]; found {
			if now.Before(blockedUntil) {
				l.mu.Unlock()
				l.reject(w, req, ip, blockedUntil.Sub(now))
				return
			}
			delete(l.blocked, ip)
		}

		limiter, exists := l.limiters[ip]
		if !exists {
			limiter = rate.NewLimiter(l.limit, l.burst)
			l.limiters[ip] = limiter
		}

		if !limiter.AllowN(now, 1) {
			l.blocked[ip] = now.Add(l.blockTime)
			l.mu.Unlock()
			l.reject(w, req, ip, l.blockTime)
			return
		}
		l.mu.Unlock()

		next.ServeHTTP(w, req)
	})
}

func (l *RateLimiter) reject(w http.ResponseWriter, req *http.Request, ip string, retryAfter time.Duration) {
	l.log.Warn("RateLimiter blocked request",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(req.Context())),
		zap.String(constvars.LoggingClientIPKey, ip),
		zap.String(constvars.LoggingEndpointKey, req.URL.Path),
	)
	w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	utils.BuildErrorResponse(l.log, w, exceptions.ErrTooManyRequests(nil))
}

func clientIP(req *http.Request) string {
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return ip
}
