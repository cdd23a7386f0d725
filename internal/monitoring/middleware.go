package monitoring

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const slowRequestThreshold = 2 * time.Second

// MonitoringMiddleware records metrics and a request log line for every request.
func MonitoringMiddleware(metrics *Metrics, logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordRequest(c.Request.Method, c.FullPath(), status, duration)
		logger.RequestLogger(c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.GetString("request_id"), status, duration)

		if duration > slowRequestThreshold {
			logger.Warn("Slow request", "path", c.FullPath(), "duration_ms", duration.Milliseconds())
		}
	}
}

// SecurityMonitoringMiddleware flags requests from known scanners. It only
// logs, it never blocks.
func SecurityMonitoringMiddleware(logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if containsSuspiciousUserAgent(c.GetHeader("User-Agent")) {
			logger.SecurityLogger("suspicious_user_agent", c.ClientIP(), "path", c.Request.URL.Path)
		}
		c.Next()
	}
}

var suspiciousAgents = []string{
	"sqlmap", "nmap", "masscan", "zmap", "dirbuster", "gobuster",
	"nikto", "acunetix", "openvas", "nessus",
}

func containsSuspiciousUserAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, agent := range suspiciousAgents {
		if strings.Contains(ua, agent) {
			return true
		}
	}
	return false
}
