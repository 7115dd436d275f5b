package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cryptopulse/internal/domain/dto"
	"github.com/guttosm/cryptopulse/internal/domain/errs"
	"github.com/guttosm/cryptopulse/internal/logger"
	"github.com/guttosm/cryptopulse/internal/ratelimit"
)

// RateLimit gates every request through the injected per-client limiter,
// keyed by client IP. One token is consumed per admitted request; when the
// client's bucket is empty the request is rejected with 429 and never reaches
// the handlers.
//
// The limiter is constructor-injected (not package state) so its lifecycle is
// owned by the app wiring and shared explicitly with tests.
//
// Response when limit exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	    "message": "rate limit exceeded"
//	}
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !limiter.Allow(ip) {
			rlErr := &errs.RateLimitError{Client: ip}
			logger.L().Warn().Str("client_ip", ip).Str("path", c.Request.URL.Path).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(rlErr.Error(), nil))
			return
		}

		c.Next()
	}
}
