package security

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	apperrors "github.com/ZanzyTHEbar/phantom-scope/internal/errors"
)

const requestIDHeader = "X-Request-ID"

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxBodyBytes      int64         `json:"max_body_bytes"`
	MaxRequestsPerMin int           `json:"max_requests_per_min"`
	Burst             int           `json:"burst"`
	AllowedOrigins    []string      `json:"allowed_origins"`
	TrustedProxies    []string      `json:"trusted_proxies"`
	RequestTimeout    time.Duration `json:"request_timeout"`
	LimiterIdleTTL    time.Duration `json:"limiter_idle_ttl"`
	EnableHSTS        bool          `json:"enable_hsts"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxBodyBytes:      2 << 20,
		MaxRequestsPerMin: 60,
		Burst:             10,
		AllowedOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		TrustedProxies:    []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		RequestTimeout:    10 * time.Second,
		LimiterIdleTTL:    30 * time.Minute,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SecurityMiddleware provides request guards for the HTTP shell
type SecurityMiddleware struct {
	config SecurityConfig

	mu         sync.Mutex
	ipLimiters map[string]*clientLimiter
	now        func() time.Time

	onRateLimited func()
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{
		config:     config,
		ipLimiters: make(map[string]*clientLimiter),
		now:        time.Now,
	}
}

// OnRateLimited registers a hook called for every rejected request.
func (sm *SecurityMiddleware) OnRateLimited(fn func()) {
	sm.onRateLimited = fn
}

// RequestID assigns every request an ID, reusing a well-formed inbound one.
func (sm *SecurityMiddleware) RequestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	c.Set(apperrors.RequestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func (sm *SecurityMiddleware) limiterFor(ip string) *rate.Limiter {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	entry, ok := sm.ipLimiters[ip]
	if !ok {
		rps := rate.Limit(float64(sm.config.MaxRequestsPerMin) / 60.0)
		burst := sm.config.Burst
		if burst < 1 {
			burst = 1
		}
		entry = &clientLimiter{limiter: rate.NewLimiter(rps, burst)}
		sm.ipLimiters[ip] = entry
	}
	entry.lastSeen = sm.now()
	return entry.limiter
}

// RateLimitByIP implements per-IP token bucket limiting
func (sm *SecurityMiddleware) RateLimitByIP(c *gin.Context) {
	if sm.config.MaxRequestsPerMin <= 0 {
		c.Next()
		return
	}

	if !sm.limiterFor(c.ClientIP()).Allow() {
		if sm.onRateLimited != nil {
			sm.onRateLimited()
		}
		retryAfter := strconv.Itoa(int((time.Minute / time.Duration(sm.config.MaxRequestsPerMin)).Seconds()) + 1)
		c.Header("Retry-After", retryAfter)
		_ = c.Error(apperrors.NewRateLimitError(retryAfter))
		c.Abort()
		return
	}

	c.Next()
}

// ValidateContentType requires JSON bodies on write methods.
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
		c.Next()
		return
	}

	if !strings.Contains(strings.ToLower(c.GetHeader("Content-Type")), "application/json") {
		appErr := apperrors.NewValidationError("Content-Type must be application/json", "content_type")
		appErr.HTTPStatus = http.StatusUnsupportedMediaType
		_ = c.Error(appErr)
		c.Abort()
		return
	}

	c.Next()
}

// BodyLimit caps the request body size.
func (sm *SecurityMiddleware) BodyLimit(c *gin.Context) {
	if sm.config.MaxBodyBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sm.config.MaxBodyBytes)
	}
	c.Next()
}

// RequestTimeout enforces request timeout
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	if sm.config.RequestTimeout <= 0 {
		c.Next()
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// Cleanup periodically drops limiters of clients idle longer than the TTL
// until ctx is done.
func (sm *SecurityMiddleware) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sm.cleanupOldLimiters()
			}
		}
	}()
}

func (sm *SecurityMiddleware) cleanupOldLimiters() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	cutoff := sm.now().Add(-sm.config.LimiterIdleTTL)
	removed := 0
	for ip, entry := range sm.ipLimiters {
		if entry.lastSeen.Before(cutoff) {
			delete(sm.ipLimiters, ip)
			removed++
		}
	}
	return removed
}

func (sm *SecurityMiddleware) trackedClients() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.ipLimiters)
}
